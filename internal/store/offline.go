package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

// ErrOffline is returned by OfflineStore for every operation.
var ErrOffline = errors.New("remote store not configured")

// OfflineStore stands in for the remote store when no database is
// configured. Every read fails so the session degrades to its cached
// snapshot, matching the app's offline mode.
type OfflineStore struct{}

func NewOfflineStore() *OfflineStore { return &OfflineStore{} }

func (OfflineStore) LoadDebts(ctx context.Context) ([]domain.Debt, error) {
	return nil, ErrOffline
}

func (OfflineStore) LoadPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	return nil, ErrOffline
}

func (OfflineStore) SaveDebt(ctx context.Context, d domain.Debt) error { return ErrOffline }

func (OfflineStore) DeleteDebt(ctx context.Context, id uuid.UUID) error { return ErrOffline }

func (OfflineStore) RecordPayment(ctx context.Context, p domain.Payment) error { return ErrOffline }

func (OfflineStore) LoadJar(ctx context.Context) (domain.Jar, error) {
	return domain.Jar{}, ErrOffline
}

func (OfflineStore) SaveJar(ctx context.Context, jar domain.Jar) error { return ErrOffline }
