package quicktrace

import (
	"fmt"
	"time"
)

// Threshold is an optional duration. The zero value is disabled.
type Threshold struct {
	Value   time.Duration
	Enabled bool
}

// At returns an enabled threshold with value d.
func At(d time.Duration) Threshold {
	return Threshold{Value: d, Enabled: true}
}

// FilterConfig selects the filter stages applied before rendering.
// Stages run in a fixed order: SlowOnly, HideUltraFast, GroupSimilar.
type FilterConfig struct {
	// SlowOnly keeps only measurements with elapsed >= Value.
	SlowOnly Threshold
	// HideUltraFast drops measurements with elapsed < Value.
	HideUltraFast Threshold
	// GroupSimilar merges measurements within Value of a group's first member.
	GroupSimilar Threshold
}

// Active reports whether any stage is enabled.
func (c FilterConfig) Active() bool {
	return c.SlowOnly.Enabled || c.HideUltraFast.Enabled || c.GroupSimilar.Enabled
}

// Summary describes the enabled stages, e.g. ["slow>40ms", "group±10ms"].
func (c FilterConfig) Summary() []string {
	var active []string
	if c.SlowOnly.Enabled {
		active = append(active, fmt.Sprintf("slow>%v", c.SlowOnly.Value))
	}
	if c.HideUltraFast.Enabled {
		active = append(active, fmt.Sprintf("hide<%v", c.HideUltraFast.Value))
	}
	if c.GroupSimilar.Enabled {
		active = append(active, fmt.Sprintf("group±%v", c.GroupSimilar.Value))
	}
	return active
}

// Apply runs the enabled stages over ms and returns display items in
// encounter order. The input slice is not modified.
func (c FilterConfig) Apply(ms []Measurement) []Item {
	filtered := ms
	if c.SlowOnly.Enabled {
		filtered = FilterSlow(filtered, c.SlowOnly.Value)
	}
	if c.HideUltraFast.Enabled {
		filtered = HideFast(filtered, c.HideUltraFast.Value)
	}

	if !c.GroupSimilar.Enabled {
		return Items(filtered)
	}

	groups := GroupSimilar(filtered, c.GroupSimilar.Value)
	items := make([]Item, len(groups))
	for i, g := range groups {
		items[i] = g
	}
	return items
}

// FilterSlow returns the measurements with elapsed >= threshold.
func FilterSlow(ms []Measurement, threshold time.Duration) []Measurement {
	out := make([]Measurement, 0, len(ms))
	for _, m := range ms {
		if m.Elapsed >= threshold {
			out = append(out, m)
		}
	}
	return out
}

// HideFast returns the measurements with elapsed >= threshold, dropping
// everything faster.
func HideFast(ms []Measurement, threshold time.Duration) []Measurement {
	out := make([]Measurement, 0, len(ms))
	for _, m := range ms {
		if m.Elapsed < threshold {
			continue
		}
		out = append(out, m)
	}
	return out
}

// GroupSimilar partitions ms into groups. Scanning left to right, each
// measurement not yet grouped seeds a new group and absorbs every later
// ungrouped measurement whose elapsed time is within tolerance of the seed.
// Comparisons always use the seed, so two members of a group may be further
// than tolerance apart.
func GroupSimilar(ms []Measurement, tolerance time.Duration) []GroupedMeasurement {
	groups := make([]GroupedMeasurement, 0, len(ms))
	grouped := make([]bool, len(ms))

	for i, seed := range ms {
		if grouped[i] {
			continue
		}
		grouped[i] = true

		g := GroupedMeasurement{
			Name:  seed.Label,
			Count: 1,
			Total: seed.Elapsed,
			Min:   seed.Elapsed,
			Max:   seed.Elapsed,
		}

		for j := i + 1; j < len(ms); j++ {
			if grouped[j] || absDuration(seed.Elapsed-ms[j].Elapsed) > tolerance {
				continue
			}
			grouped[j] = true

			g.Count++
			g.Total += ms[j].Elapsed
			g.Min = min(g.Min, ms[j].Elapsed)
			g.Max = max(g.Max, ms[j].Elapsed)
		}

		g.Average = g.Total / time.Duration(g.Count)
		g.Name = groupName(seed.Label, g.Count-1)
		groups = append(groups, g)
	}

	return groups
}

// groupName names a group after its seed and the number of absorbed members.
func groupName(seed Label, absorbed int) string {
	switch {
	case absorbed == 0:
		return seed
	case absorbed <= 2:
		return fmt.Sprintf("%s + %d similar", seed, absorbed)
	default:
		return fmt.Sprintf("%s + %d others", seed, absorbed)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
