package window

// DefaultWidth is the number of consecutive measurements summed per window.
const DefaultWidth = 3

// Summer produces sliding-window sums over a stream of measurements.
// It keeps the last `width` values in a ring and a running sum, so each Push
// is O(1) regardless of the window width.
type Summer struct {
	width    int
	values   []int
	position int
	samples  int
	sum      int
}

func NewSummer(width int) *Summer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Summer{
		width:  width,
		values: make([]int, width),
	}
}

// Push adds the next measurement. ok is false until the window is full.
func (s *Summer) Push(v int) (sum int, ok bool) {
	if s.samples < s.width {
		s.values[s.position] = v
		s.sum += v
		s.position = (s.position + 1) % s.width
		s.samples++
		return s.sum, s.samples == s.width
	}

	s.sum -= s.values[s.position]
	s.values[s.position] = v
	s.sum += v
	s.position = (s.position + 1) % s.width
	return s.sum, true
}

func (s *Summer) Width() int {
	return s.width
}

// Filled reports whether at least one complete window has been seen.
func (s *Summer) Filled() bool {
	return s.samples == s.width
}

// Clone returns an independent copy of the summer and its window.
func (s *Summer) Clone() *Summer {
	cp := *s
	cp.values = append([]int(nil), s.values...)
	return &cp
}

func (s *Summer) Reset() {
	for i := range s.values {
		s.values[i] = 0
	}
	s.position = 0
	s.samples = 0
	s.sum = 0
}

// Sums returns the width-3 sliding sums of measurements: out[i] is
// measurements[i] + measurements[i+1] + measurements[i+2].
func Sums(measurements []int) []int {
	return SumsOf(measurements, DefaultWidth)
}

// SumsOf is Sums with a custom window width.
func SumsOf(measurements []int, width int) []int {
	s := NewSummer(width)
	if len(measurements) < s.width {
		return []int{}
	}

	out := make([]int, 0, len(measurements)-s.width+1)
	for _, m := range measurements {
		if sum, ok := s.Push(m); ok {
			out = append(out, sum)
		}
	}
	return out
}
