package models

import (
	"time"

	"github.com/povarna/sonar-sweep/internal/trend"
)

// Input message
type SweepRequest struct {
	Measurements []int `json:"measurements" description:"Ordered depth measurements"`
	Windowed     bool  `json:"windowed,omitempty" description:"Classify sliding-window sums instead of raw measurements"`
}

// Report is the outcome of one sweep over a measurement sequence.
type Report struct {
	ID          string         `json:"id"`
	Windowed    bool           `json:"windowed"`
	WindowWidth int            `json:"window_width,omitempty"`
	Count       int            `json:"count" description:"Number of classified values"`
	Records     []trend.Record `json:"records,omitempty"`
	Increased   int            `json:"increased"`
	Decreased   int            `json:"decreased"`
	Unchanged   int            `json:"unchanged"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Summary is the closing `{ increased, decreased }` record of a depth report.
type Summary struct {
	Increased int `json:"increased"`
	Decreased int `json:"decreased"`
}

func (r Report) Summary() Summary {
	return Summary{Increased: r.Increased, Decreased: r.Decreased}
}

type CourseRequest struct {
	Instructions []string `json:"instructions" description:"Lines of the form '<forward|up|down> <magnitude>'"`
}

type CourseResult struct {
	Moves      int `json:"moves"`
	Horizontal int `json:"horizontal"`
	Depth      int `json:"depth"`
	Product    int `json:"product"`
}
