package quicktrace

import (
	"math"
	"time"
)

// DurationBucket classifies an elapsed time by severity.
type DurationBucket int

// Duration buckets, fastest first.
const (
	UltraFast DurationBucket = iota
	VeryFast
	Fast
	Normal
	Medium
	MediumSlow
	Slow
	VerySlow
)

var durationBucketNames = [...]string{
	UltraFast:  "Ultra Fast",
	VeryFast:   "Very Fast",
	Fast:       "Fast",
	Normal:     "Normal",
	Medium:     "Medium",
	MediumSlow: "Medium-Slow",
	Slow:       "Slow",
	VerySlow:   "Very Slow",
}

func (b DurationBucket) String() string {
	if b < 0 || int(b) >= len(durationBucketNames) {
		return "Unknown"
	}
	return durationBucketNames[b]
}

// PercentBucket classifies a share of the total trace duration.
type PercentBucket int

// Percent buckets, smallest share first.
const (
	Minimal PercentBucket = iota
	VeryLow
	Low
	MediumShare
	High
	Critical
)

var percentBucketNames = [...]string{
	Minimal:     "Minimal",
	VeryLow:     "Very Low",
	Low:         "Low",
	MediumShare: "Medium",
	High:        "High",
	Critical:    "Critical",
}

func (b PercentBucket) String() string {
	if b < 0 || int(b) >= len(percentBucketNames) {
		return "Unknown"
	}
	return percentBucketNames[b]
}

// DurationRule maps every duration >= Threshold to Bucket.
type DurationRule struct {
	Threshold time.Duration
	Bucket    DurationBucket
}

// PercentRule maps every percentage >= Threshold to Bucket.
type PercentRule struct {
	Threshold float64
	Bucket    PercentBucket
}

// Rule tables, descending by threshold. The last rule of each table has a
// zero threshold so every non-negative input matches.
var (
	durationRules = []DurationRule{
		{3 * time.Second, VerySlow},
		{1 * time.Second, Slow},
		{500 * time.Millisecond, MediumSlow},
		{200 * time.Millisecond, Medium},
		{100 * time.Millisecond, Normal},
		{50 * time.Millisecond, Fast},
		{10 * time.Millisecond, VeryFast},
		{0, UltraFast},
	}

	percentRules = []PercentRule{
		{75, Critical},
		{50, High},
		{25, MediumShare},
		{10, Low},
		{5, VeryLow},
		{0, Minimal},
	}
)

// DurationRules returns a copy of the duration rule table.
func DurationRules() []DurationRule {
	return append([]DurationRule(nil), durationRules...)
}

// PercentRules returns a copy of the percentage rule table.
func PercentRules() []PercentRule {
	return append([]PercentRule(nil), percentRules...)
}

// ClassifyDuration returns the bucket of the largest threshold not exceeding d.
// A value equal to a threshold belongs to that threshold's (slower) bucket.
func ClassifyDuration(d time.Duration) DurationBucket {
	for _, rule := range durationRules {
		if d >= rule.Threshold {
			return rule.Bucket
		}
	}
	return UltraFast
}

// ClassifyPercentage returns the bucket of the largest threshold not exceeding p.
// Negative and NaN inputs classify as Minimal.
func ClassifyPercentage(p float64) PercentBucket {
	if math.IsNaN(p) {
		return Minimal
	}
	for _, rule := range percentRules {
		if p >= rule.Threshold {
			return rule.Bucket
		}
	}
	return Minimal
}

// Percent returns d as a percentage of total. A non-positive total yields 0.
func Percent(d, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(d) / float64(total) * 100
}
