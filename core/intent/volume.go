package intent

// VolumeSummary summarizes a short capture window on the 0-255 level scale
// produced by the audio meter.
type VolumeSummary struct {
	Peak    float64
	Average float64
	Samples int
}

// VolumeThresholds drive the fallback classification used when no
// transcript is available. It assumes screaming is loud and knocking is
// comparatively quiet; this is a heuristic with no accuracy guarantee and
// the values are meant to be tuned.
type VolumeThresholds struct {
	// MinAudible is the peak below which nothing was heard.
	MinAudible float64
	// ScreamAverage is the sustained level above which input is a scream.
	ScreamAverage float64
	// ScreamPeak is the peak level above which input is a scream.
	ScreamPeak float64
}

func DefaultVolumeThresholds() VolumeThresholds {
	return VolumeThresholds{MinAudible: 20, ScreamAverage: 60, ScreamPeak: 150}
}

func (t VolumeThresholds) Classify(summary VolumeSummary) Choice {
	switch {
	case summary.Peak < t.MinAudible:
		return ChoiceUnclear
	case summary.Average > t.ScreamAverage || summary.Peak > t.ScreamPeak:
		return ChoiceScream
	default:
		return ChoiceKnock
	}
}

// Audible reports whether the summary crossed the audibility threshold.
func (t VolumeThresholds) Audible(summary VolumeSummary) bool {
	return summary.Peak >= t.MinAudible
}
