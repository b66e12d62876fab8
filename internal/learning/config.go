package learning

import (
	"encoding/json"
	"time"
)

// Config bounds the per-user memory.
type Config struct {
	TTL            time.Duration
	HistoryCap     int
	ObservationCap int
	InsightCap     int
	TruncateRunes  int
}

// DefaultConfig returns the bounds used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		TTL:            7 * 24 * time.Hour,
		HistoryCap:     50,
		ObservationCap: 10,
		InsightCap:     10,
		TruncateRunes:  200,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.HistoryCap <= 0 {
		c.HistoryCap = d.HistoryCap
	}
	if c.ObservationCap <= 0 {
		c.ObservationCap = d.ObservationCap
	}
	if c.InsightCap <= 0 {
		c.InsightCap = d.InsightCap
	}
	if c.TruncateRunes <= 0 {
		c.TruncateRunes = d.TruncateRunes
	}
	return c
}

// ParsePreferences merges a partial JSON preferences document over current.
// Nil, empty or invalid input leaves current untouched.
func ParsePreferences(current Preferences, data []byte) Preferences {
	if len(data) == 0 {
		return current
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return current
	}
	if len(raw) == 0 {
		return current
	}

	merged := current
	if err := json.Unmarshal(data, &merged); err != nil {
		return current
	}
	return merged
}
