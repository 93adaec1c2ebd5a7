// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// SESFileOptions controls the synthetic SES fixture produced by
// MakeSESFile.
type SESFileOptions struct {
	Angle       float64
	Energies    []float64
	Pixels      int
	BadAngle    bool // replace the angle line with unparseable text
	NoMarker    bool // omit the [Data] marker entirely
	ExtraOffset bool // push the angle to four lines before the marker
}

// MakeSESFile renders a synthetic SES export with a plausible header and a
// tab-separated body. Intensity values are deterministic functions of the
// row and column so tests can assert on exact cells.
func MakeSESFile(opts SESFileOptions) string {
	var b strings.Builder

	b.WriteString("[Region 1]\n")
	b.WriteString("Region Name=Fixture\n")
	if opts.BadAngle {
		b.WriteString("not-an-angle\n")
	} else {
		fmt.Fprintf(&b, "%.4f\n", opts.Angle)
	}
	if opts.ExtraOffset {
		b.WriteString("Dimension 2 name=Thetax [deg]\n")
	}
	b.WriteString("Dimension 2 scale\n")
	b.WriteString("Excitation Energy=21.2182\n")
	if !opts.NoMarker {
		b.WriteString("[Data]\n")
		for i, e := range opts.Energies {
			fmt.Fprintf(&b, "%.5f", e)
			for j := 0; j < opts.Pixels; j++ {
				fmt.Fprintf(&b, "\t%d", (i+1)*100+j)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
