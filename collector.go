package quicktrace

import (
	"sync"
	"sync/atomic"
)

// Collector buffers emitted reports for later inspection.
// Safe for concurrent use by multiple goroutines, so one collector can be
// shared by tracers running in different goroutines.
//
//	collector := quicktrace.NewCollector(64)
//	tracer.OnReport(collector.Collect)
type Collector struct {
	reports      []*Report
	limit        int
	droppedCount atomic.Int64
	mu           sync.Mutex
}

// NewCollector creates a collector holding at most limit reports.
// A non-positive limit means unbounded.
func NewCollector(limit int) *Collector {
	return &Collector{
		reports: make([]*Report, 0, 8), // Start with small capacity.
		limit:   limit,
	}
}

// Collect buffers a copy of r. When the buffer is full the report is
// dropped and the drop counter is incremented. Collect has the ReportHandler
// signature.
func (c *Collector) Collect(r *Report) {
	if r == nil {
		c.droppedCount.Add(1)
		return
	}

	// Copy so later changes by the caller do not leak into the buffer.
	clone := r.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit > 0 && len(c.reports) >= c.limit {
		c.droppedCount.Add(1)
		return
	}
	c.reports = append(c.reports, clone)
}

// Export returns copies of all buffered reports and clears the buffer.
// The returned reports are safe to modify without affecting the collector.
func (c *Collector) Export() []*Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.reports) == 0 {
		return nil
	}

	result := make([]*Report, len(c.reports))
	for i, r := range c.reports {
		result[i] = r.Clone()
	}

	// Only shrink if buffer is very oversized to avoid allocation churn.
	if cap(c.reports) > 256 && len(c.reports) < cap(c.reports)/8 {
		c.reports = make([]*Report, 0, max(cap(c.reports)/4, 32))
	} else {
		clear(c.reports)
		c.reports = c.reports[:0]
	}

	return result
}

// Count returns the current number of buffered reports.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

// DroppedCount returns the number of reports rejected because the buffer
// was full or the report was nil.
func (c *Collector) DroppedCount() int64 {
	return c.droppedCount.Load()
}

// Reset clears all buffered reports and resets the drop counter.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.reports)
	c.reports = c.reports[:0]
	c.droppedCount.Store(0)
}
