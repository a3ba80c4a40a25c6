package analyzer

// Thresholds returns the n-1 threshold levels used for one channel.
// The first level of the sweep equals the range minimum and is skipped.
// A flat channel under the adaptive policy yields no levels.
func Thresholds(p *Prepared, channel, n int, policy ThresholdPolicy) []float64 {
	lo, hi := 0.0, 1.0
	if policy == ThresholdAdaptive {
		lo, hi = p.ChannelRange(channel)
		if !(hi > lo) {
			return nil
		}
	}

	step := (hi - lo) / float64(n)
	levels := make([]float64, 0, n-1)
	for k := 1; k < n; k++ {
		levels = append(levels, lo+float64(k)*step)
	}
	return levels
}

// Threshold builds the boolean map channel > t.
func Threshold(p *Prepared, channel int, t float64) *BoolMap {
	m := NewBoolMap(p.Width, p.Height)
	for i := range m.Pix {
		m.Pix[i] = p.At(i, channel) > t
	}
	return m
}

// mapJob identifies one boolean map.
type mapJob struct {
	channel   int
	threshold float64
}

func planMaps(p *Prepared, n int, policy ThresholdPolicy) []mapJob {
	var jobs []mapJob
	for c := 0; c < 3; c++ {
		for _, t := range Thresholds(p, c, n, policy) {
			jobs = append(jobs, mapJob{channel: c, threshold: t})
		}
	}
	return jobs
}
