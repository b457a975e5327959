package sweep

import (
	"github.com/povarna/sonar-sweep/internal/trend"
	"github.com/povarna/sonar-sweep/internal/window"
)

// Observation is the result of feeding one depth into a Tracker.
// Windowed is nil until the first full window is available.
type Observation struct {
	Raw      trend.Record
	Windowed *trend.Record
}

// Tracker follows a single sounding incrementally, classifying both the raw
// depths and their sliding-window sums as they arrive.
type Tracker struct {
	summer   *window.Summer
	raw      *trend.Counter
	windowed *trend.Counter
}

func NewTracker(windowWidth int) *Tracker {
	return &Tracker{
		summer:   window.NewSummer(windowWidth),
		raw:      trend.NewCounter(),
		windowed: trend.NewCounter(),
	}
}

func (t *Tracker) Observe(depth int) Observation {
	obs := Observation{Raw: t.raw.Classify(depth)}

	if sum, ok := t.summer.Push(depth); ok {
		rec := t.windowed.Classify(sum)
		obs.Windowed = &rec
	}
	return obs
}

// Clone returns a tracker with the same state that advances independently.
func (t *Tracker) Clone() *Tracker {
	return &Tracker{
		summer:   t.summer.Clone(),
		raw:      t.raw.Clone(),
		windowed: t.windowed.Clone(),
	}
}

func (t *Tracker) Raw() trend.Tally {
	return t.raw.Tally()
}

func (t *Tracker) Windowed() trend.Tally {
	return t.windowed.Tally()
}
