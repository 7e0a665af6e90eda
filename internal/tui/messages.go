package tui

import "time"

// tickMsg advances the virtual playback clock.
type tickMsg time.Time
