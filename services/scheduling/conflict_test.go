package scheduling

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	points := []time.Time{at(monday, "09:00"), at(monday, "09:30"), at(monday, "10:00"), at(monday, "10:30")}
	tests := []struct {
		name string
		a, b [2]int
		want bool
	}{
		{"identical", [2]int{0, 1}, [2]int{0, 1}, true},
		{"partial", [2]int{0, 2}, [2]int{1, 3}, true},
		{"contained", [2]int{0, 3}, [2]int{1, 2}, true},
		{"back to back", [2]int{0, 1}, [2]int{1, 2}, false},
		{"back to back reversed", [2]int{1, 2}, [2]int{0, 1}, false},
		{"disjoint", [2]int{0, 1}, [2]int{2, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(points[tt.a[0]], points[tt.a[1]], points[tt.b[0]], points[tt.b[1]])
			if got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if rev := Overlaps(points[tt.b[0]], points[tt.b[1]], points[tt.a[0]], points[tt.a[1]]); rev != got {
				t.Errorf("Overlaps is not symmetric")
			}
		})
	}
}
