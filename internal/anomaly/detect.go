package anomaly

import "math"

// DefaultThreshold is the |score| a record must exceed to be an anomaly.
const DefaultThreshold = 1.1

// IsAnomaly reports whether a scored record exceeds the threshold.
func IsAnomaly(r ScoredRecord, threshold float64) bool {
	return r.Scored && math.Abs(r.Score) > threshold
}

// Detect returns a copy of scored with Anomaly set per threshold.
func Detect(scored []ScoredRecord, threshold float64) []ScoredRecord {
	out := make([]ScoredRecord, len(scored))
	for i, r := range scored {
		r.Anomaly = IsAnomaly(r, threshold)
		out[i] = r
	}
	return out
}
