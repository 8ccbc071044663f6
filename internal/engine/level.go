package engine

import (
	"github.com/shopspring/decimal"
)

// LevelStep is one entry of the static progression table.
type LevelStep struct {
	Level     int
	Title     string
	Threshold int64 // cumulative amount paid
}

// Levels maps cumulative amount paid onto a progression tier. Thresholds
// are strictly increasing.
var Levels = []LevelStep{
	{1, "Novice", 0},
	{2, "Apprentice", 5000},
	{3, "Warrior", 10000},
	{4, "Debt Hunter", 15000},
	{5, "Interest Slayer", 25000},
	{6, "Freedom Knight", 40000},
	{7, "Master Saver", 60000},
	{8, "Finance Titan", 80000},
	{9, "Legend", 100000},
	{10, "Free at Last", 150000},
}

// maxLevelXP is reported for both XP fields once the final tier is
// reached; there is no synthetic next threshold past the table.
const maxLevelXP = 100

// LevelInfo is the progression snapshot for a cumulative amount paid.
type LevelInfo struct {
	Level           int             `json:"level"`
	Title           string          `json:"title"`
	CurrentXP       int64           `json:"current_xp"`
	MaxXP           int64           `json:"max_xp"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
}

// LevelFor looks up the highest level whose threshold is at or below
// totalPaid. At the final level the XP fields plateau at a fixed maximum
// and progress reports 100.
func LevelFor(totalPaid decimal.Decimal) LevelInfo {
	idx := 0
	for i, step := range Levels {
		if totalPaid.GreaterThanOrEqual(decimal.NewFromInt(step.Threshold)) {
			idx = i
		} else {
			break
		}
	}
	current := Levels[idx]

	if idx == len(Levels)-1 {
		return LevelInfo{
			Level:           current.Level,
			Title:           current.Title,
			CurrentXP:       maxLevelXP,
			MaxXP:           maxLevelXP,
			ProgressPercent: hundred,
		}
	}

	next := Levels[idx+1]
	maxXP := next.Threshold - current.Threshold
	currentXP := totalPaid.Sub(decimal.NewFromInt(current.Threshold)).Round(0).IntPart()

	progress := decimal.NewFromInt(currentXP).
		Div(decimal.NewFromInt(maxXP)).
		Mul(hundred)
	if progress.IsNegative() {
		progress = decimal.Zero
	}
	if progress.GreaterThan(hundred) {
		progress = hundred
	}

	return LevelInfo{
		Level:           current.Level,
		Title:           current.Title,
		CurrentXP:       currentXP,
		MaxXP:           maxXP,
		ProgressPercent: progress.Round(1),
	}
}
