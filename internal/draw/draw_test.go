package draw

import (
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func validDraw() *Draw {
	return New("25075", "2025-07-01", []int{3, 5, 12, 23, 33}, []int{4, 11}, ptr(312345678), ptr(812345678.9))
}

func TestDraw_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draw)
		wantErr string
	}{
		{"valid", func(d *Draw) {}, ""},
		{"empty period", func(d *Draw) { d.Period = "" }, "period"},
		{"short front zone", func(d *Draw) { d.FrontNumbers = []int{1, 2, 3, 4} }, "front zone has 4"},
		{"front out of range", func(d *Draw) { d.FrontNumbers = []int{1, 2, 3, 4, 36} }, "out of range 1-35"},
		{"back out of range", func(d *Draw) { d.BackNumbers = []int{0, 12} }, "out of range 1-12"},
		{"long back zone", func(d *Draw) { d.BackNumbers = []int{1, 2, 3} }, "back zone has 3"},
		{"absent amounts are fine", func(d *Draw) { d.TotalSales, d.PrizePool = nil, nil }, ""},
		{"negative sales", func(d *Draw) { d.TotalSales = ptr(-1) }, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraw()
			tt.mutate(d)
			err := d.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseNumbers(t *testing.T) {
	nums, err := ParseNumbers([]string{"03", " 05", "12 ", "23", "33"})
	if err != nil {
		t.Fatalf("ParseNumbers() error: %v", err)
	}
	if got := JoinNumbers(nums); got != "3,5,12,23,33" {
		t.Errorf("JoinNumbers() = %q", got)
	}

	if _, err := ParseNumbers([]string{"03", "x"}); err == nil {
		t.Error("ParseNumbers() expected error for non-numeric ball")
	}
}

func TestParseNumberList(t *testing.T) {
	nums, err := ParseNumberList("33,5,12")
	if err != nil {
		t.Fatalf("ParseNumberList() error: %v", err)
	}
	// source order is preserved, not sorted
	if len(nums) != 3 || nums[0] != 33 || nums[2] != 12 {
		t.Errorf("ParseNumberList() = %v", nums)
	}

	empty, err := ParseNumberList("")
	if err != nil || empty != nil {
		t.Errorf("ParseNumberList(\"\") = %v, %v", empty, err)
	}
}

func TestDraw_Strings(t *testing.T) {
	d := validDraw()
	if d.FrontString() != "3,5,12,23,33" {
		t.Errorf("FrontString() = %q", d.FrontString())
	}
	if d.BackString() != "4,11" {
		t.Errorf("BackString() = %q", d.BackString())
	}
}

func TestUnique(t *testing.T) {
	a := New("25075", "2025-07-01", nil, nil, nil, nil)
	b := New("25074", "2025-06-30", nil, nil, nil, nil)
	dup := New("25075", "2025-07-02", nil, nil, nil, nil)

	got := Unique([]*Draw{a, b, dup})
	if len(got) != 2 {
		t.Fatalf("Unique() returned %d draws, want 2", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Error("Unique() should keep the first occurrence in order")
	}
}
