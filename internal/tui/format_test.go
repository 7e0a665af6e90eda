package tui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
		left bool
	}{
		{"short", 10, "short", false},
		{"a-very-long-name", 8, "a-ver...", false},
		{"abcdef", 3, "abc", false},
		{"/media/footage/interview.mov", 16, "...interview.mov", true},
		{"abc", 0, "", true},
	}
	for _, tt := range tests {
		got := TruncateWithEllipsis(tt.in, tt.max)
		if tt.left {
			got = TruncateLeft(tt.in, tt.max)
		}
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
	if NonEmptyOrDash("  ") != "-" {
		t.Errorf("expected dash for blank value")
	}
}

func TestClock(t *testing.T) {
	tests := map[float64]string{
		0:     "0:00.0",
		5.24:  "0:05.2",
		65.5:  "1:05.5",
		-3:    "0:00.0",
		600.0: "10:00.0",
	}
	for in, want := range tests {
		if got := Clock(in); got != want {
			t.Errorf("Clock(%v) = %q, want %q", in, got, want)
		}
	}
}
