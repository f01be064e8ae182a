package draw

import "testing"

func TestDiff(t *testing.T) {
	d1 := New("25073", "2025-06-28", nil, nil, nil, nil)
	d2 := New("25074", "2025-06-30", nil, nil, nil, nil)
	d3 := New("25075", "2025-07-02", nil, nil, nil, nil)

	tests := []struct {
		name     string
		previous *Snapshot
		current  []*Draw
		want     []string
	}{
		{
			name:     "nil previous treats everything as new",
			previous: nil,
			current:  []*Draw{d3, d1, d2},
			want:     []string{"25073", "25074", "25075"},
		},
		{
			name:     "one new draw",
			previous: CreateSnapshot([]*Draw{d1, d2}, "2025-07-01T00:00:00Z"),
			current:  []*Draw{d3, d2, d1},
			want:     []string{"25075"},
		},
		{
			name:     "nothing new",
			previous: CreateSnapshot([]*Draw{d1, d2, d3}, ""),
			current:  []*Draw{d1, d2, d3},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Diff(tt.previous, tt.current)
			if len(result.NewDraws) != len(tt.want) {
				t.Fatalf("Diff() returned %d new draws, want %d", len(result.NewDraws), len(tt.want))
			}
			for i, d := range result.NewDraws {
				if d.Period != tt.want[i] {
					t.Errorf("NewDraws[%d] = %s, want %s", i, d.Period, tt.want[i])
				}
			}
		})
	}
}

func TestSnapshot_Sorted(t *testing.T) {
	snap := CreateSnapshot([]*Draw{
		New("9999", "", nil, nil, nil, nil),
		New("25075", "", nil, nil, nil, nil),
		New("25074", "", nil, nil, nil, nil),
	}, "")

	got := snap.Sorted()
	want := []string{"25075", "25074", "9999"}
	for i, d := range got {
		if d.Period != want[i] {
			t.Errorf("Sorted()[%d] = %s, want %s", i, d.Period, want[i])
		}
	}
}

func TestComparePeriods(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"25074", "25075", -1},
		{"25075", "25075", 0},
		{"9999", "25001", -1},
		{"25100", "25099", 1},
	}
	for _, tt := range tests {
		if got := ComparePeriods(tt.a, tt.b); got != tt.want {
			t.Errorf("ComparePeriods(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
