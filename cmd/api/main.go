package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomaszg/debtcrusher/internal/api"
	"github.com/tomaszg/debtcrusher/internal/config"
	"github.com/tomaszg/debtcrusher/internal/service"
	"github.com/tomaszg/debtcrusher/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var remote service.Store = store.NewOfflineStore()
	if cfg.DBSource != "" {
		pg, err := store.NewStore(cfg.DBSource)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pg.Close()
		remote = pg
	} else {
		log.Println("DB_SOURCE not set, running in offline mode")
	}

	var cache store.SnapshotCache = store.NewMemoryCache()
	if cfg.RedisAddr != "" {
		cache = store.NewRedisCache(cfg.RedisAddr)
	}

	// Initialize Layers
	session := service.NewSession(remote, cache)
	if err := session.Load(context.Background()); err != nil {
		log.Fatalf("Unable to load session state: %v", err)
	}
	handler := api.NewHandler(session)

	// Router
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", handler.HealthCheckHandler)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	handler.Register(apiV1)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
