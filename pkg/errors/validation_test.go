package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		relative bool
		wantErr  bool
	}{
		{"valid file", "figure.json", true, false},
		{"valid nested", "charts/sales.toml", true, false},
		{"absolute allowed", "/tmp/figure.json", false, false},

		{"empty", "", false, true},
		{"too long", strings.Repeat("a", 501), false, true},
		{"null byte", "fig\x00.json", false, true},
		{"absolute rejected", "/etc/passwd", true, true},
		{"traversal", "../secret.json", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input, tt.relative)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero means default", 0, false},
		{"typical", 800, false},
		{"max", MaxDimension, false},
		{"negative", -1, true},
		{"too large", MaxDimension + 1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension("width", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFraction(t *testing.T) {
	for _, v := range []float64{0, 0.2, 1} {
		if err := ValidateFraction("bargap", v); err != nil {
			t.Errorf("ValidateFraction(%v) unexpected error: %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, 1.5, math.NaN()} {
		if err := ValidateFraction("bargap", v); err == nil {
			t.Errorf("ValidateFraction(%v) should fail", v)
		}
	}
}
