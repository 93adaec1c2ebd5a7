package ses

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		offsets   []int
		wantErr   error
		wantStart int
		wantAngle float64
		wantOK    bool
	}{
		{
			name: "angle at primary offset",
			lines: []string{
				"Region Name=Cut01",
				"-4.50",
				"Dimension 2 scale",
				"ignored",
				"[Data]",
				"16.5\t1\t2",
			},
			offsets:   []int{3, 4},
			wantStart: 5,
			wantAngle: -4.50,
			wantOK:    true,
		},
		{
			name: "fallback to secondary offset",
			lines: []string{
				"-2.25",
				"Dimension 2 scale",
				"not a number",
				"ignored",
				"[Data]",
			},
			offsets:   []int{3, 4},
			wantStart: 5,
			wantAngle: -2.25,
			wantOK:    true,
		},
		{
			name: "marker matched as substring",
			lines: []string{
				"1.0",
				"x",
				"y",
				"z",
				"  [Data]  trailing",
			},
			offsets:   []int{4},
			wantStart: 5,
			wantAngle: 1.0,
			wantOK:    true,
		},
		{
			name: "only first marker considered",
			lines: []string{
				"3.5",
				"a",
				"b",
				"c",
				"[Data]",
				"9.9",
				"d",
				"e",
				"f",
				"[Data]",
			},
			offsets:   []int{4},
			wantStart: 5,
			wantAngle: 3.5,
			wantOK:    true,
		},
		{
			name: "offset underruns file start",
			lines: []string{
				"[Data]",
				"16.5\t1",
			},
			offsets:   []int{3, 4},
			wantStart: 1,
			wantOK:    false,
		},
		{
			name: "no parseable angle at any offset",
			lines: []string{
				"alpha",
				"beta",
				"gamma",
				"delta",
				"[Data]",
			},
			offsets:   []int{3, 4},
			wantStart: 5,
			wantOK:    false,
		},
		{
			name:    "missing marker",
			lines:   []string{"just", "metadata", "lines"},
			offsets: []int{3, 4},
			wantErr: ErrNoDataMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHeader(tt.lines, DefaultMarker, tt.offsets)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseHeader() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHeader() unexpected error: %v", err)
			}
			if h.DataStart != tt.wantStart {
				t.Errorf("DataStart = %d, want %d", h.DataStart, tt.wantStart)
			}
			if h.AngleOK != tt.wantOK {
				t.Errorf("AngleOK = %v, want %v", h.AngleOK, tt.wantOK)
			}
			if tt.wantOK && h.Angle != tt.wantAngle {
				t.Errorf("Angle = %v, want %v", h.Angle, tt.wantAngle)
			}
		})
	}
}

func TestParseSlice(t *testing.T) {
	file := strings.Join([]string{
		"Region Name=Cut01",
		"-4.50",
		"Dimension 2 scale",
		"ignored",
		"[Data]",
		"16.50\t10\t20\t30",
		"16.52\t11\t21\t31",
		"16.54\t12\t22\t32",
		"",
	}, "\n")

	s, err := ParseSlice("cut01.txt", strings.NewReader(file), DefaultMarker, DefaultAngleOffsets)
	if err != nil {
		t.Fatalf("ParseSlice() error: %v", err)
	}

	if s.Angle != -4.50 {
		t.Errorf("Angle = %v, want -4.50", s.Angle)
	}
	if s.Rows() != 3 || s.Cols() != 3 {
		t.Errorf("dimensions = %dx%d, want 3x3", s.Rows(), s.Cols())
	}
	wantEnergies := []float64{16.50, 16.52, 16.54}
	if diff := cmp.Diff(wantEnergies, s.Energies); diff != "" {
		t.Errorf("Energies mismatch (-want +got):\n%s", diff)
	}
	wantRow := []float64{11, 21, 31}
	if diff := cmp.Diff(wantRow, s.Counts[1]); diff != "" {
		t.Errorf("Counts[1] mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSliceEnergyOnlyRows(t *testing.T) {
	file := "0.5\nx\ny\nz\n[Data]\n16.50\n16.52\n"
	s, err := ParseSlice("narrow.txt", strings.NewReader(file), DefaultMarker, []int{4})
	if err != nil {
		t.Fatalf("ParseSlice() error: %v", err)
	}
	if s.Rows() != 2 || s.Cols() != 0 {
		t.Errorf("dimensions = %dx%d, want 2x0", s.Rows(), s.Cols())
	}
}

func TestParseSliceErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr error
	}{
		{
			name:    "no marker",
			file:    "only\nmetadata\n",
			wantErr: ErrNoDataMarker,
		},
		{
			name:    "bad angle",
			file:    "a\nb\nc\nd\n[Data]\n16.5\t1\n",
			wantErr: ErrNoAngle,
		},
		{
			name: "non-numeric intensity",
			file: "1.0\nb\nc\nd\n[Data]\n16.5\t1\tbogus\n",
		},
		{
			name: "non-numeric energy",
			file: "1.0\nb\nc\nd\n[Data]\nbogus\t1\t2\n",
		},
		{
			name: "ragged body",
			file: "1.0\nb\nc\nd\n[Data]\n16.5\t1\t2\n16.6\t1\n",
		},
		{
			// NaN parses as a float but cannot key the energy union
			name: "NaN energy",
			file: "1.0\nb\nc\nd\n[Data]\nNaN\t1\t2\n",
		},
		{
			name: "infinite energy",
			file: "1.0\nb\nc\nd\n[Data]\n+Inf\t1\t2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSlice(tt.name, strings.NewReader(tt.file), DefaultMarker, []int{3, 4})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
