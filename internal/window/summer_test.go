package window

import (
	"slices"
	"testing"
)

var sonarSample = []int{199, 200, 208, 210, 200, 207, 240, 269, 260, 263}

func TestSums_Sample(t *testing.T) {
	got := Sums(sonarSample)
	want := []int{607, 618, 618, 617, 647, 716, 769, 792}

	if !slices.Equal(got, want) {
		t.Errorf("Sums() = %v, want %v", got, want)
	}
}

func TestSums_ShortInput(t *testing.T) {
	tests := []struct {
		name  string
		input []int
	}{
		{"nil", nil},
		{"empty", []int{}},
		{"one", []int{1}},
		{"two", []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sums(tt.input)
			if got == nil {
				t.Fatal("expected empty slice, got nil")
			}
			if len(got) != 0 {
				t.Errorf("expected no sums, got %v", got)
			}
		})
	}
}

func TestSums_LengthAndValues(t *testing.T) {
	inputs := [][]int{
		{1, 2, 3},
		{-5, 10, -15, 20},
		{0, 0, 0, 0, 0},
		{30000, 29999, 30001, -30000, 12, 7},
	}

	for _, in := range inputs {
		got := Sums(in)
		if len(got) != len(in)-2 {
			t.Fatalf("len(Sums(%v)) = %d, want %d", in, len(got), len(in)-2)
		}
		for i := range got {
			want := in[i] + in[i+1] + in[i+2]
			if got[i] != want {
				t.Errorf("Sums(%v)[%d] = %d, want %d", in, i, got[i], want)
			}
		}
	}
}

func TestSummer_Push(t *testing.T) {
	s := NewSummer(3)

	if _, ok := s.Push(1); ok {
		t.Fatal("window should not be full after one value")
	}
	if _, ok := s.Push(2); ok {
		t.Fatal("window should not be full after two values")
	}

	sum, ok := s.Push(3)
	if !ok || sum != 6 {
		t.Fatalf("Push(3) = (%d, %v), want (6, true)", sum, ok)
	}

	// 2 + 3 + 10 after rollover
	sum, ok = s.Push(10)
	if !ok || sum != 15 {
		t.Fatalf("Push(10) = (%d, %v), want (15, true)", sum, ok)
	}

	s.Reset()
	if s.Filled() {
		t.Error("expected empty window after Reset")
	}
}

func TestNewSummer_InvalidWidth(t *testing.T) {
	if w := NewSummer(0).Width(); w != DefaultWidth {
		t.Errorf("expected default width %d, got %d", DefaultWidth, w)
	}
	if w := NewSummer(-2).Width(); w != DefaultWidth {
		t.Errorf("expected default width %d, got %d", DefaultWidth, w)
	}
}

func TestSumsOf_CustomWidth(t *testing.T) {
	got := SumsOf([]int{1, 2, 3, 4}, 2)
	want := []int{3, 5, 7}
	if !slices.Equal(got, want) {
		t.Errorf("SumsOf(width=2) = %v, want %v", got, want)
	}

	got = SumsOf([]int{4, 5}, 1)
	if !slices.Equal(got, []int{4, 5}) {
		t.Errorf("SumsOf(width=1) = %v, want identity", got)
	}
}

func TestSummer_CloneIsIndependent(t *testing.T) {
	s := NewSummer(3)
	s.Push(1)
	s.Push(2)

	cp := s.Clone()
	if sum, ok := cp.Push(3); !ok || sum != 6 {
		t.Fatalf("clone Push(3) = (%d, %v), want (6, true)", sum, ok)
	}
	if s.Filled() {
		t.Error("advancing the clone must not fill the original")
	}
	if sum, ok := s.Push(10); !ok || sum != 13 {
		t.Errorf("original Push(10) = (%d, %v), want (13, true)", sum, ok)
	}
}
