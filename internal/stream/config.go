package stream

import "time"

const (
	defaultPageSize            = 100
	defaultMaxRetries          = 3
	defaultInitialBackoff      = 100 * time.Millisecond
	defaultMaxBackoff          = 5 * time.Second
	defaultBufferWarnThreshold = 10_000
)

// Config tunes catch-up paging, throttling and store retries.
// It is built once at startup and handed to NewEngine.
type Config struct {
	HistoricalThrottle  time.Duration
	LiveThrottle        time.Duration
	PageSize            int
	MaxRetries          int
	InitialBackoff      time.Duration
	MaxBackoff          time.Duration
	BufferWarnThreshold int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		PageSize:            defaultPageSize,
		MaxRetries:          defaultMaxRetries,
		InitialBackoff:      defaultInitialBackoff,
		MaxBackoff:          defaultMaxBackoff,
		BufferWarnThreshold: defaultBufferWarnThreshold,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = d.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = d.MaxBackoff
	}
	if c.BufferWarnThreshold <= 0 {
		c.BufferWarnThreshold = d.BufferWarnThreshold
	}
	if c.HistoricalThrottle < 0 {
		c.HistoricalThrottle = 0
	}
	if c.LiveThrottle < 0 {
		c.LiveThrottle = 0
	}
	return c
}
