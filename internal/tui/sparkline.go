package tui

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Series holds the most recent samples of one dashboard metric, oldest
// first. Its limit follows the width available to the sparkline.
type Series struct {
	values []float64
	limit  int
}

// NewSeries returns an empty series keeping at most limit samples.
func NewSeries(limit int) *Series {
	return &Series{limit: max(limit, 1)}
}

// Add appends a sample and drops the oldest ones beyond the limit.
func (s *Series) Add(v float64) {
	s.values = append(s.values, v)
	s.trim()
}

// SetLimit changes how many samples are kept; the newest survive a shrink.
func (s *Series) SetLimit(limit int) {
	s.limit = max(limit, 1)
	s.trim()
}

func (s *Series) trim() {
	if over := len(s.values) - s.limit; over > 0 {
		s.values = append(s.values[:0], s.values[over:]...)
	}
}

// Len returns the number of samples held.
func (s *Series) Len() int { return len(s.values) }

// Limit returns the sample limit.
func (s *Series) Limit() int { return s.limit }

// Latest returns the newest sample, or 0 for an empty series.
func (s *Series) Latest() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

// Peak returns the largest sample, or 0 for an empty series.
func (s *Series) Peak() float64 {
	var peak float64
	for _, v := range s.values {
		peak = max(peak, v)
	}
	return peak
}

// Values returns a copy of the samples, oldest first.
func (s *Series) Values() []float64 {
	if len(s.values) == 0 {
		return nil
	}
	return append([]float64(nil), s.values...)
}

// Clear drops every sample.
func (s *Series) Clear() { s.values = s.values[:0] }

// RenderSparkline draws values between their minimum and maximum as block
// characters. Negative values count as zero; a flat non-zero series is drawn
// at mid height.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := max(values[0], 0), max(values[0], 0)
	for _, v := range values {
		v = max(v, 0)
		lo, hi = min(lo, v), max(hi, v)
	}
	top := len(sparkBlocks) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		switch {
		case hi == 0:
			out[i] = sparkBlocks[0]
		case hi == lo:
			out[i] = sparkBlocks[top/2]
		default:
			out[i] = sparkBlocks[int((max(v, 0)-lo)/(hi-lo)*float64(top)+0.5)]
		}
	}
	return string(out)
}
