package model

import "time"

// Shared defaults used by the binary and the packages under internal/.
const (
	DefaultUpdateInterval = time.Second
	DefaultSampleBuffer   = 50_000
	DefaultMaxLineSize    = 1024 * 1024 // 1MB
	DefaultSamplerBin     = "austin"
	DefaultThreshold      = 0.0
	ThresholdStep         = 0.01
)
