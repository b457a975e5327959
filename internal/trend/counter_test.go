package trend

import (
	"slices"
	"testing"
)

func classifyAll(c *Counter, values []int) []Record {
	records := make([]Record, 0, len(values))
	for _, v := range values {
		records = append(records, c.Classify(v))
	}
	return records
}

func TestCounter_SonarSample(t *testing.T) {
	c := NewCounter()
	records := classifyAll(c, []int{199, 200, 208, 210, 200, 207, 240, 269, 260, 263})

	wantLabels := []Label{
		LabelNoPrevious,
		LabelIncreased,
		LabelIncreased,
		LabelIncreased,
		LabelDecreased,
		LabelIncreased,
		LabelIncreased,
		LabelIncreased,
		LabelDecreased,
		LabelIncreased,
	}

	for i, r := range records {
		if r.Label != wantLabels[i] {
			t.Errorf("record %d: got label %s, want %s", i, r.Label, wantLabels[i])
		}
	}

	if c.Increased() != 7 {
		t.Errorf("expected 7 increases, got %d", c.Increased())
	}
	if c.Decreased() != 2 {
		t.Errorf("expected 2 decreases, got %d", c.Decreased())
	}
}

func TestCounter_WindowedSample(t *testing.T) {
	c := NewCounter()
	classifyAll(c, []int{607, 618, 618, 617, 647, 716, 769, 792})

	if c.Increased() != 5 {
		t.Errorf("expected 5 increases, got %d", c.Increased())
	}
	if c.Decreased() != 1 {
		t.Errorf("expected 1 decrease, got %d", c.Decreased())
	}
	if c.Unchanged() != 1 {
		t.Errorf("expected 1 unchanged, got %d", c.Unchanged())
	}
}

func TestCounter_Unchanged(t *testing.T) {
	c := NewCounter()
	records := classifyAll(c, []int{5, 5, 5})

	want := []Label{LabelNoPrevious, LabelUnchanged, LabelUnchanged}
	for i, r := range records {
		if r.Label != want[i] {
			t.Errorf("record %d: got %s, want %s", i, r.Label, want[i])
		}
	}
	if c.Increased() != 0 || c.Decreased() != 0 {
		t.Errorf("expected 0/0, got %d/%d", c.Increased(), c.Decreased())
	}
}

func TestCounter_FirstIsAlwaysNoPrevious(t *testing.T) {
	for _, first := range []int{0, -1, 1, 40000, -40000} {
		c := NewCounter()
		if got := c.Classify(first).Label; got != LabelNoPrevious {
			t.Errorf("Classify(%d) on fresh counter = %s, want %s", first, got, LabelNoPrevious)
		}
		if c.Increased() != 0 || c.Decreased() != 0 || c.Unchanged() != 0 {
			t.Errorf("first value must not touch tallies, got %+v", c.Tally())
		}
	}
}

func TestCounter_TallyInvariant(t *testing.T) {
	inputs := [][]int{
		{1},
		{3, 2, 1},
		{1, 1, 2, 2, 1, 1},
		{-10, 10, -10, 10, 10},
	}

	for _, in := range inputs {
		c := NewCounter()
		classifyAll(c, in)
		total := c.Increased() + c.Decreased() + c.Unchanged() + 1
		if total != len(in) {
			t.Errorf("%v: tallies sum to %d, want %d", in, total, len(in))
		}
		if c.Seen() != len(in) {
			t.Errorf("%v: Seen() = %d, want %d", in, c.Seen(), len(in))
		}
	}
}

func TestCounter_Replay(t *testing.T) {
	in := []int{4, 8, 8, 2, 9, -1, -1, 0}

	first := NewCounter()
	a := classifyAll(first, in)
	second := NewCounter()
	b := classifyAll(second, in)

	if !slices.Equal(a, b) {
		t.Errorf("replay produced different records:\n%v\n%v", a, b)
	}
	if first.Tally() != second.Tally() {
		t.Errorf("replay produced different tallies: %+v vs %+v", first.Tally(), second.Tally())
	}
}

func TestCounter_IncrementalInspection(t *testing.T) {
	c := NewCounter()
	if c.Seen() != 0 {
		t.Fatalf("expected empty counter, got Seen() = %d", c.Seen())
	}
	if _, ok := c.Previous(); ok {
		t.Fatal("expected no previous value")
	}

	c.Classify(1)
	c.Classify(2)
	if c.Increased() != 1 {
		t.Errorf("expected 1 increase so far, got %d", c.Increased())
	}

	c.Classify(0)
	if c.Decreased() != 1 {
		t.Errorf("expected 1 decrease so far, got %d", c.Decreased())
	}
	if prev, ok := c.Previous(); !ok || prev != 0 {
		t.Errorf("Previous() = (%d, %v), want (0, true)", prev, ok)
	}
}

func TestRecord_String(t *testing.T) {
	tests := []struct {
		record Record
		want   string
	}{
		{Record{Value: 199, Label: LabelNoPrevious}, "199 (N/A - no previous measurement)"},
		{Record{Value: 200, Label: LabelIncreased}, "200 (increased)"},
		{Record{Value: 198, Label: LabelDecreased}, "198 (decreased)"},
		{Record{Value: 198, Label: LabelUnchanged}, "198 (unchanged)"},
	}

	for _, tt := range tests {
		if got := tt.record.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCounter_CloneIsIndependent(t *testing.T) {
	c := NewCounter()
	c.Classify(100)

	cp := c.Clone()
	if got := cp.Classify(200).Label; got != LabelIncreased {
		t.Errorf("clone: expected %s, got %s", LabelIncreased, got)
	}
	if c.Seen() != 1 || c.Increased() != 0 {
		t.Errorf("original advanced with the clone: seen=%d increased=%d", c.Seen(), c.Increased())
	}
	if got := c.Classify(50).Label; got != LabelDecreased {
		t.Errorf("original: expected %s, got %s", LabelDecreased, got)
	}
}
