package score

import (
	"fmt"
	"math"
)

// Range is the inclusive documented range of a numeric result.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Band maps an interval of result values to a stage.
type Band struct {
	Stage  string
	Lo, Hi float64
	LoOpen bool
	HiOpen bool
}

// From returns the band [lo, hi).
func From(stage string, lo, hi float64) Band {
	return Band{Stage: stage, Lo: lo, Hi: hi, HiOpen: true}
}

// UpTo returns the band (lo, hi].
func UpTo(stage string, lo, hi float64) Band {
	return Band{Stage: stage, Lo: lo, Hi: hi, LoOpen: true}
}

// Closed returns the band [lo, hi].
func Closed(stage string, lo, hi float64) Band {
	return Band{Stage: stage, Lo: lo, Hi: hi}
}

// Above returns the unbounded band (lo, +Inf).
func Above(stage string, lo float64) Band {
	return Band{Stage: stage, Lo: lo, Hi: math.Inf(1), LoOpen: true, HiOpen: true}
}

// Contains reports whether v falls inside the band.
func (b Band) Contains(v float64) bool {
	if v < b.Lo || (b.LoOpen && v == b.Lo) {
		return false
	}
	if v > b.Hi || (b.HiOpen && v == b.Hi) {
		return false
	}
	return true
}

// String renders the band in interval notation, e.g. "(100, 200]".
func (b Band) String() string {
	lo, hi := "[", "]"
	if b.LoOpen {
		lo = "("
	}
	if b.HiOpen {
		hi = ")"
	}
	return fmt.Sprintf("%s%s, %s%s", lo, formatBound(b.Lo), formatBound(b.Hi), hi)
}

func formatBound(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%g", v)
}

// Bands is an ascending list of bands covering a result range.
type Bands []Band

// Classify returns the stage of the first band that contains v.
func (bs Bands) Classify(v float64) (string, bool) {
	for _, b := range bs {
		if b.Contains(v) {
			return b.Stage, true
		}
	}
	return "", false
}

// Stages returns the distinct stage names in band order.
func (bs Bands) Stages() []string {
	seen := make(map[string]bool, len(bs))
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		if !seen[b.Stage] {
			seen[b.Stage] = true
			out = append(out, b.Stage)
		}
	}
	return out
}

// Partition checks that the bands split r into contiguous, non-overlapping
// intervals: every value in r belongs to exactly one band.
func (bs Bands) Partition(r Range) error {
	if len(bs) == 0 {
		return fmt.Errorf("no bands")
	}
	if !bs[0].Contains(r.Min) {
		return fmt.Errorf("band %s %s does not contain range minimum %g", bs[0].Stage, bs[0], r.Min)
	}
	last := bs[len(bs)-1]
	if !last.Contains(r.Max) {
		return fmt.Errorf("band %s %s does not contain range maximum %g", last.Stage, last, r.Max)
	}
	for i := 0; i+1 < len(bs); i++ {
		a, b := bs[i], bs[i+1]
		if a.Lo > a.Hi {
			return fmt.Errorf("band %s %s is inverted", a.Stage, a)
		}
		if a.Hi != b.Lo {
			return fmt.Errorf("gap or overlap between %s %s and %s %s", a.Stage, a, b.Stage, b)
		}
		if a.HiOpen == b.LoOpen {
			return fmt.Errorf("cut point %g belongs to both or neither of %s and %s", a.Hi, a.Stage, b.Stage)
		}
	}
	return nil
}
