package model

import "time"

// PoolWindowMetrics stores activity aggregated over one time window of the
// event journal. Big amounts are decimal strings.
type PoolWindowMetrics struct {
	WindowSizeSecs int64
	WindowStart    time.Time
	WindowEnd      time.Time
	SwapCount      uint64
	AddCount       uint64
	RemoveCount    uint64
	VolumeBase     string
	VolumeQuote    string
	FeeBase        string
	FeeQuote       string
	SharesMinted   string
	SharesBurned   string
}
