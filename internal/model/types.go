// Package model defines shared data structures.
package model

import "time"

// CrackConfig defines analysis settings shared by the CLI and the TUI.
type CrackConfig struct {
	Lang       string
	Tolerance  float64
	ShowScores bool
	Preview    int
	Save       bool
}

// HistoryConfig defines filters for saved crack lookups.
type HistoryConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// OutputConfig defines rendering knobs for plots and tables.
type OutputConfig struct {
	PlotHeight int
	Color      bool
}

// CrackRecord captures one completed crack run.
type CrackRecord struct {
	ID             int64
	CreatedAt      time.Time
	Lang           string
	Key            int
	Score          float64
	Ambiguous      bool
	Letters        int
	Source         string
	CiphertextHead string
	PlaintextHead  string
}

// LetterCount stores one letter's observed tally within a crack.
type LetterCount struct {
	Letter string
	Count  int
}

// LetterAggregate sums letter tallies across cracks.
type LetterAggregate struct {
	Letter string
	Count  int64
}
