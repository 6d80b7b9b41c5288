package demo

import (
	"time"

	"github.com/LeDuyViet/quicktrace"
)

// step is one simulated unit of work: it takes elapsed and is recorded
// under label when it finishes.
type step struct {
	label   string
	elapsed time.Duration
}

type scenario struct {
	name        string
	title       string
	description string
	steps       []step
}

// run performs the steps, waiting with sleep before each checkpoint.
func (s scenario) run(tracer *quicktrace.Tracer, sleep func(time.Duration)) {
	for _, st := range s.steps {
		sleep(st.elapsed)
		tracer.Span(st.label)
	}
}

func (s scenario) total() time.Duration {
	var total time.Duration
	for _, st := range s.steps {
		total += st.elapsed
	}
	return total
}

var scenarios = []scenario{
	{
		name:        "basic",
		title:       "Basic Example",
		description: "four sequential steps of a request",
		steps: []step{
			{"Initialize database", 30 * time.Millisecond},
			{"Load user data", 50 * time.Millisecond},
			{"Process data", 20 * time.Millisecond},
			{"Generate response", 10 * time.Millisecond},
		},
	},
	{
		name:        "filtering",
		title:       "Smart Filtering",
		description: "ten operations from sub-millisecond to very slow",
		steps: []step{
			{"Ultra fast operation 1", 500 * time.Microsecond},
			{"Ultra fast operation 2", 800 * time.Microsecond},
			{"Fast validation", 5 * time.Millisecond},
			{"Quick lookup", 8 * time.Millisecond},
			{"Medium processing", 45 * time.Millisecond},
			{"Similar processing", 48 * time.Millisecond},
			{"Another similar task", 44 * time.Millisecond},
			{"Slow database query", 150 * time.Millisecond},
			{"Complex computation", 200 * time.Millisecond},
			{"Very slow external API call", 800 * time.Millisecond},
		},
	},
	{
		name:        "real-world",
		title:       "GET /api/user/profile",
		description: "an HTTP handler with cache, database and upstream calls",
		steps: []step{
			{"Cache lookup: user:42", 3 * time.Millisecond},
			{"Database: SELECT user", 45 * time.Millisecond},
			{"External API: avatar-service", 120 * time.Millisecond},
			{"Business logic: medium", 25 * time.Millisecond},
			{"Cache store", 2 * time.Millisecond},
			{"Response serialization", 3 * time.Millisecond},
		},
	},
}

func lookup(name string) (scenario, bool) {
	for _, s := range scenarios {
		if s.name == name {
			return s, true
		}
	}
	return scenario{}, false
}

func names() []string {
	out := make([]string, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.name
	}
	return out
}
