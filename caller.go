package quicktrace

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Caller is the source location that created a tracer.
type Caller struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// String returns "file:line" with the full path.
func (c Caller) String() string {
	return fmt.Sprintf("%s:%d", c.File, c.Line)
}

// Short returns "file:line" with the base name only.
func (c Caller) Short() string {
	return fmt.Sprintf("%s:%d", filepath.Base(c.File), c.Line)
}

// captureCaller returns the call site skip frames above it, or nil when the
// runtime cannot report it.
func captureCaller(skip int) *Caller {
	_, file, line, ok := runtime.Caller(skip)
	if !ok || file == "" {
		return nil
	}
	return &Caller{File: file, Line: line}
}
