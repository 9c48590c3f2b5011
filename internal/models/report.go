package models

import (
	"encoding/gob"
	"time"
)

func init() {
	gob.Register(Report{})
	gob.Register(IndustryDraft{})
}

// Report is the terminal, persisted analysis artifact. Only constructed from
// a draft that was validated-accepted or exhausted its retry budget.
type Report struct {
	ID           string          `json:"id" badgerhold:"key"`
	Title        string          `json:"title"`
	Summary      string          `json:"summary"`
	AnalysisDate string          `json:"analysis_date" badgerhold:"index"` // YYYY-MM-DD
	CreatedAt    time.Time       `json:"created_at"`
	Industries   []IndustryDraft `json:"industries"`
	NewsIDs      []string        `json:"news_ids"`

	// Pipeline diagnostics, informational only.
	Attempts  int  `json:"attempts"`
	Validated bool `json:"validated"`
}
