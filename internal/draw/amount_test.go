package draw

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		present bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{"1,234.50", 1234.50, true},
		{"312,345,678", 312345678, true},
		{" 2000 ", 2000, true},
		{"0", 0, true},
		{"1，234", 1234, true},
		{"--", 0, false},
		{"N/A", 0, false},
		{"-5", 0, false},
		{"NaN", 0, false},
		{"1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseAmount(tt.raw)
			if (got != nil) != tt.present {
				t.Fatalf("ParseAmount(%q) present = %v, want %v", tt.raw, got != nil, tt.present)
			}
			if got != nil && *got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.raw, *got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	v := 1234.5
	if got := FormatAmount(&v); got != "1234.5" {
		t.Errorf("FormatAmount(1234.5) = %q", got)
	}
	if got := FormatAmount(nil); got != "" {
		t.Errorf("FormatAmount(nil) = %q, want empty", got)
	}
}
