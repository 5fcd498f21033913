package note

// PitchRange is an inclusive range of rows. Rows always >= 1.
type PitchRange struct {
	Min int
	Max int
}

// NewRange pads [lo, hi] by padding rows on both sides, clamped to valid MIDI
// pitches. Swapped bounds are reordered; negative padding counts as zero.
func NewRange(lo, hi, padding int) PitchRange {
	if lo > hi {
		lo, hi = hi, lo
	}
	if padding < 0 {
		padding = 0
	}
	return PitchRange{
		Min: clampPitch(lo - padding),
		Max: clampPitch(hi + padding),
	}
}

// Rows returns the number of pitch rows in the range.
func (r PitchRange) Rows() int { return r.Max - r.Min + 1 }

// Contains reports whether pitch lies within the range.
func (r PitchRange) Contains(pitch int) bool { return pitch >= r.Min && pitch <= r.Max }

// Union returns the smallest range containing both.
func (r PitchRange) Union(o PitchRange) PitchRange {
	return PitchRange{Min: min(r.Min, o.Min), Max: max(r.Max, o.Max)}
}

func clampPitch(p int) int {
	if p < MinPitch {
		return MinPitch
	}
	if p > MaxPitch {
		return MaxPitch
	}
	return p
}
