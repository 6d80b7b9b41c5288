package quicktrace

import (
	"reflect"
	"testing"
	"time"
)

func ms(pairs ...interface{}) []Measurement {
	out := make([]Measurement, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Measurement{
			Label:   pairs[i].(string),
			Elapsed: time.Duration(pairs[i+1].(int)) * time.Millisecond,
		})
	}
	return out
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.DisplayName()
	}
	return out
}

func TestApplyWithoutFilters(t *testing.T) {
	input := ms("A", 30, "B", 50, "C", 20, "D", 10)

	items := FilterConfig{}.Apply(input)

	if len(items) != 4 {
		t.Fatalf("Expected 4 items, got %d", len(items))
	}
	for i, item := range items {
		m, ok := item.(Measurement)
		if !ok {
			t.Fatalf("Expected item %d to be a Measurement, got %T", i, item)
		}
		if m != input[i] {
			t.Errorf("Expected item %d to be %v, got %v", i, input[i], m)
		}
	}
}

func TestApplySlowOnly(t *testing.T) {
	input := ms("A", 30, "B", 50, "C", 20, "D", 10)

	items := FilterConfig{SlowOnly: At(40 * time.Millisecond)}.Apply(input)

	if got := labels(items); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Expected [B], got %v", got)
	}
}

func TestApplyHideUltraFast(t *testing.T) {
	input := ms("A", 30, "B", 50, "C", 20, "D", 10)

	items := FilterConfig{HideUltraFast: At(15 * time.Millisecond)}.Apply(input)

	if got := labels(items); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Expected [A B C], got %v", got)
	}
}

func TestThresholdBoundaries(t *testing.T) {
	input := ms("exact", 40, "below", 39)

	slow := FilterSlow(input, 40*time.Millisecond)
	if len(slow) != 1 || slow[0].Label != "exact" {
		t.Errorf("Expected slow-only to keep elapsed == threshold, got %v", slow)
	}

	fast := HideFast(input, 40*time.Millisecond)
	if len(fast) != 1 || fast[0].Label != "exact" {
		t.Errorf("Expected hide-fast to keep elapsed == threshold, got %v", fast)
	}
}

func TestFilterStagesIdempotent(t *testing.T) {
	input := ms("A", 30, "B", 50, "C", 20, "D", 10, "E", 45)

	once := FilterSlow(input, 25*time.Millisecond)
	twice := FilterSlow(once, 25*time.Millisecond)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Expected slow-only to be idempotent: %v vs %v", once, twice)
	}

	once = HideFast(input, 15*time.Millisecond)
	twice = HideFast(once, 15*time.Millisecond)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Expected hide-fast to be idempotent: %v vs %v", once, twice)
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	input := ms("A", 30, "B", 50, "C", 20)
	saved := append([]Measurement(nil), input...)

	FilterConfig{
		SlowOnly:      At(25 * time.Millisecond),
		HideUltraFast: At(40 * time.Millisecond),
		GroupSimilar:  At(5 * time.Millisecond),
	}.Apply(input)

	if !reflect.DeepEqual(input, saved) {
		t.Errorf("Expected input to be unchanged, got %v", input)
	}
}

func TestApplyEmpty(t *testing.T) {
	cfg := FilterConfig{
		SlowOnly:      At(time.Millisecond),
		HideUltraFast: At(time.Millisecond),
		GroupSimilar:  At(time.Millisecond),
	}

	if items := cfg.Apply(nil); len(items) != 0 {
		t.Errorf("Expected no items, got %v", items)
	}
	if items := (FilterConfig{}).Apply(nil); len(items) != 0 {
		t.Errorf("Expected no items, got %v", items)
	}
}

// Groups compare against their seed only, so membership is not transitive.
func TestGroupSimilarSeedAnchored(t *testing.T) {
	input := ms("a", 10, "b", 15, "c", 20)

	groups := GroupSimilar(input, 6*time.Millisecond)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d: %v", len(groups), groups)
	}

	first := groups[0]
	if first.Count != 2 {
		t.Errorf("Expected first group count 2, got %d", first.Count)
	}
	if first.Name != "a + 1 similar" {
		t.Errorf("Expected name 'a + 1 similar', got %q", first.Name)
	}
	if first.Total != 25*time.Millisecond {
		t.Errorf("Expected total 25ms, got %v", first.Total)
	}
	if first.Average != 12500*time.Microsecond {
		t.Errorf("Expected average 12.5ms, got %v", first.Average)
	}
	if first.Min != 10*time.Millisecond || first.Max != 15*time.Millisecond {
		t.Errorf("Expected min 10ms max 15ms, got %v %v", first.Min, first.Max)
	}

	second := groups[1]
	if second.Count != 1 || second.Name != "c" || second.Average != 20*time.Millisecond {
		t.Errorf("Expected single group c(20ms), got %+v", second)
	}
}

func TestGroupSimilarOrderSensitive(t *testing.T) {
	forward := GroupSimilar(ms("a", 10, "b", 15, "c", 20), 6*time.Millisecond)
	reordered := GroupSimilar(ms("b", 15, "a", 10, "c", 20), 6*time.Millisecond)

	if len(forward) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(forward))
	}
	if len(reordered) != 1 || reordered[0].Count != 3 {
		t.Errorf("Expected a 15ms seed to absorb both neighbours, got %+v", reordered)
	}
}

func TestGroupSimilarSkipsAlreadyGrouped(t *testing.T) {
	// b joins a's group, so it never seeds a group that could absorb c.
	groups := GroupSimilar(ms("a", 10, "b", 12, "c", 14), 3*time.Millisecond)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d: %v", len(groups), groups)
	}
	if groups[0].Name != "a + 1 similar" || groups[0].Count != 2 {
		t.Errorf("Unexpected first group %+v", groups[0])
	}
	if groups[1].Name != "c" || groups[1].Count != 1 {
		t.Errorf("Unexpected second group %+v", groups[1])
	}
}

func TestGroupNaming(t *testing.T) {
	tests := []struct {
		input []Measurement
		want  string
	}{
		{ms("q", 5), "q"},
		{ms("q", 5, "r", 5), "q + 1 similar"},
		{ms("q", 5, "r", 5, "s", 5), "q + 2 similar"},
		{ms("q", 5, "r", 5, "s", 5, "t", 5), "q + 3 others"},
		{ms("q", 5, "r", 5, "s", 5, "t", 5, "u", 5), "q + 4 others"},
	}

	for _, tt := range tests {
		groups := GroupSimilar(tt.input, 0)
		if len(groups) != 1 {
			t.Fatalf("Expected one group for %v, got %d", tt.input, len(groups))
		}
		if groups[0].Name != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, groups[0].Name)
		}
	}
}

func TestGroupAverageTruncates(t *testing.T) {
	input := []Measurement{
		{Label: "x", Elapsed: 1},
		{Label: "y", Elapsed: 2},
	}

	groups := GroupSimilar(input, 5)

	if groups[0].Average != 1 {
		t.Errorf("Expected truncated average 1ns, got %v", groups[0].Average)
	}
}

func TestApplyGroupingYieldsGroupedItems(t *testing.T) {
	input := ms("load", 20, "parse", 22, "save", 80)

	items := FilterConfig{GroupSimilar: At(5 * time.Millisecond)}.Apply(input)

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if _, ok := item.(GroupedMeasurement); !ok {
			t.Errorf("Expected GroupedMeasurement, got %T", item)
		}
	}
	if items[0].DisplayName() != "load + 1 similar" || items[0].Duration() != 21*time.Millisecond {
		t.Errorf("Unexpected first item %v %v", items[0].DisplayName(), items[0].Duration())
	}
}

func TestApplyAllStagesInOrder(t *testing.T) {
	input := ms("a", 5, "b", 50, "c", 52, "d", 120, "e", 48)

	cfg := FilterConfig{
		SlowOnly:      At(10 * time.Millisecond),
		HideUltraFast: At(49 * time.Millisecond),
		GroupSimilar:  At(5 * time.Millisecond),
	}
	items := cfg.Apply(input)

	if got := labels(items); !reflect.DeepEqual(got, []string{"b + 1 similar", "d"}) {
		t.Errorf("Expected [b + 1 similar, d], got %v", got)
	}
}

func TestFilterSummary(t *testing.T) {
	if (FilterConfig{}).Active() {
		t.Error("Expected empty config to be inactive")
	}
	if got := (FilterConfig{}).Summary(); len(got) != 0 {
		t.Errorf("Expected empty summary, got %v", got)
	}

	cfg := FilterConfig{
		SlowOnly:     At(40 * time.Millisecond),
		GroupSimilar: At(10 * time.Millisecond),
	}
	if !cfg.Active() {
		t.Error("Expected config to be active")
	}
	want := []string{"slow>40ms", "group±10ms"}
	if got := cfg.Summary(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
