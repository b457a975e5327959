package trend

import "fmt"

type Label string

const (
	LabelNoPrevious Label = "no_previous"
	LabelIncreased  Label = "increased"
	LabelDecreased  Label = "decreased"
	LabelUnchanged  Label = "unchanged"
)

// Text is the human readable form used in depth reports.
func (l Label) Text() string {
	switch l {
	case LabelNoPrevious:
		return "N/A - no previous measurement"
	case LabelIncreased:
		return "increased"
	case LabelDecreased:
		return "decreased"
	case LabelUnchanged:
		return "unchanged"
	default:
		return string(l)
	}
}

// Record is the classification of one measurement against its predecessor.
type Record struct {
	Value int   `json:"value"`
	Label Label `json:"label"`
}

func (r Record) String() string {
	return fmt.Sprintf("%d (%s)", r.Value, r.Label.Text())
}

type Tally struct {
	Increased int `json:"increased"`
	Decreased int `json:"decreased"`
	Unchanged int `json:"unchanged"`
}

// Counter classifies a sequence of measurements one value at a time.
// The zero value is ready to use. A Counter must not be shared between
// goroutines or reused across sequences.
type Counter struct {
	previous    int
	hasPrevious bool
	tally       Tally
}

func NewCounter() *Counter {
	return &Counter{}
}

// Classify compares value with the previously classified one and updates
// the tallies. It must be called in input order.
func (c *Counter) Classify(value int) Record {
	record := Record{Value: value}

	switch {
	case !c.hasPrevious:
		record.Label = LabelNoPrevious
		c.hasPrevious = true
	case c.previous < value:
		c.tally.Increased++
		record.Label = LabelIncreased
	case c.previous > value:
		c.tally.Decreased++
		record.Label = LabelDecreased
	default:
		c.tally.Unchanged++
		record.Label = LabelUnchanged
	}

	c.previous = value
	return record
}

func (c *Counter) Increased() int {
	return c.tally.Increased
}

func (c *Counter) Decreased() int {
	return c.tally.Decreased
}

func (c *Counter) Unchanged() int {
	return c.tally.Unchanged
}

// Seen is the number of values classified so far.
func (c *Counter) Seen() int {
	if !c.hasPrevious {
		return 0
	}
	return c.tally.Increased + c.tally.Decreased + c.tally.Unchanged + 1
}

func (c *Counter) Tally() Tally {
	return c.tally
}

func (c *Counter) Clone() *Counter {
	cp := *c
	return &cp
}

// Previous returns the last classified value, if any.
func (c *Counter) Previous() (int, bool) {
	return c.previous, c.hasPrevious
}
