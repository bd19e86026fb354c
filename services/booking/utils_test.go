package booking

import "testing"

func TestMinutesFromClock(t *testing.T) {
	valid := []struct {
		clock string
		want  int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"10:00", 600},
		{"23:59", 1439},
	}
	for _, tc := range valid {
		got, err := MinutesFromClock(tc.clock)
		if err != nil {
			t.Errorf("MinutesFromClock(%q) error: %v", tc.clock, err)
			continue
		}
		if got != tc.want {
			t.Errorf("MinutesFromClock(%q) = %d, want %d", tc.clock, got, tc.want)
		}
	}

	for _, clock := range []string{"", "24:00", "10:60", "-1:30", "noon"} {
		if _, err := MinutesFromClock(clock); err == nil {
			t.Errorf("MinutesFromClock(%q) expected an error", clock)
		}
	}
}

func TestClockFromMinutes(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{570, "09:30"},
		{600, "10:00"},
		{1439, "23:59"},
	}
	for _, tc := range cases {
		if got := ClockFromMinutes(tc.minutes); got != tc.want {
			t.Errorf("ClockFromMinutes(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}
