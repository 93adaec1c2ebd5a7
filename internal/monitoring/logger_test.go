package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerCapture(t *testing.T) {
	defer SetLogger(nil)

	var captured []string
	SetLogger(func(format string, v ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, v...))
	})

	Logf("skipping %s", "file.txt")
	if len(captured) != 1 || captured[0] != "skipping file.txt" {
		t.Errorf("captured = %v", captured)
	}
}

func TestSetLoggerNil(t *testing.T) {
	SetLogger(nil)
	// Must not panic.
	Logf("dropped %d", 1)
	SetLogger(func(string, ...interface{}) {})
}
