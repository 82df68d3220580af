// Package metrics collects per-session translation metrics and persists
// them with run history.
package metrics

import (
	"crypto/rand"
	"encoding/hex"
	"runtime"
	"time"
)

// StageMetrics holds metrics for a single pipeline stage.
type StageMetrics struct {
	Name       string             `json:"name"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	DurationMs int64              `json:"duration_ms"`
	Counters   map[string]int64   `json:"counters,omitempty"`
	Gauges     map[string]float64 `json:"gauges,omitempty"`
}

// SessionMetrics holds all metrics for one translation session.
type SessionMetrics struct {
	SessionID   string                   `json:"session_id"`
	Timestamp   time.Time                `json:"timestamp"`
	Config      map[string]interface{}   `json:"config"`
	Stages      map[string]*StageMetrics `json:"stages"`
	Totals      *TotalMetrics            `json:"totals"`
	Environment *EnvironmentInfo         `json:"environment"`
}

// TotalMetrics holds session aggregates. UnknownTokens over TokensProcessed
// is the coverage signal worth watching across runs.
type TotalMetrics struct {
	DurationMs      int64   `json:"duration_ms"`
	PeakMemoryMB    float64 `json:"peak_memory_mb"`
	Translations    int64   `json:"translations"`
	TokensProcessed int64   `json:"tokens_processed"`
	UnknownTokens   int64   `json:"unknown_tokens"`
	Throughput      float64 `json:"throughput_tokens_per_sec"`
}

// EnvironmentInfo holds system environment details.
type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	GOOS      string `json:"goos"`
	GOARCH    string `json:"goarch"`
	NumCPU    int    `json:"num_cpu"`
	MaxProcs  int    `json:"max_procs"`
}

// Collector accumulates metrics during a session.
type Collector struct {
	sessionID   string
	startTime   time.Time
	config      map[string]interface{}
	stages      map[string]*StageMetrics
	activeStage string
	peakMemory  uint64

	translations    int64
	tokensProcessed int64
	unknownTokens   int64
}

// NewCollector creates a collector for a new session.
func NewCollector() *Collector {
	return &Collector{
		sessionID: generateSessionID(),
		startTime: time.Now(),
		config:    make(map[string]interface{}),
		stages:    make(map[string]*StageMetrics),
	}
}

func generateSessionID() string {
	timestamp := time.Now().Format("20060102-150405")
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return timestamp + "-" + hex.EncodeToString(bytes)
}

// SetConfig stores one configuration value for the session record.
func (c *Collector) SetConfig(key string, value interface{}) {
	c.config[key] = value
}

// StartStage begins timing a pipeline stage.
func (c *Collector) StartStage(name string) {
	c.activeStage = name
	c.stages[name] = &StageMetrics{
		Name:      name,
		StartTime: time.Now(),
		Counters:  make(map[string]int64),
		Gauges:    make(map[string]float64),
	}
	c.updatePeakMemory()
}

// EndStage completes timing for a stage.
func (c *Collector) EndStage(name string) {
	if stage, ok := c.stages[name]; ok {
		stage.EndTime = time.Now()
		stage.DurationMs = stage.EndTime.Sub(stage.StartTime).Milliseconds()
	}
	c.updatePeakMemory()
}

// IncrementCounter increments a counter on the active stage.
func (c *Collector) IncrementCounter(name string, delta int64) {
	if c.activeStage == "" {
		return
	}
	if stage, ok := c.stages[c.activeStage]; ok {
		stage.Counters[name] += delta
	}
}

// SetGauge sets a gauge on the active stage.
func (c *Collector) SetGauge(name string, value float64) {
	if c.activeStage == "" {
		return
	}
	if stage, ok := c.stages[c.activeStage]; ok {
		stage.Gauges[name] = value
	}
}

// RecordTranslation folds one translation outcome into the session totals.
func (c *Collector) RecordTranslation(tokens, unknown int) {
	c.translations++
	c.tokensProcessed += int64(tokens)
	c.unknownTokens += int64(unknown)
}

func (c *Collector) updatePeakMemory() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.Alloc > c.peakMemory {
		c.peakMemory = m.Alloc
	}
}

// Finalize closes the session and builds its report.
func (c *Collector) Finalize() *SessionMetrics {
	c.updatePeakMemory()
	totalDuration := time.Since(c.startTime)

	throughput := float64(0)
	if totalDuration.Seconds() > 0 {
		throughput = float64(c.tokensProcessed) / totalDuration.Seconds()
	}

	return &SessionMetrics{
		SessionID: c.sessionID,
		Timestamp: c.startTime,
		Config:    c.config,
		Stages:    c.stages,
		Totals: &TotalMetrics{
			DurationMs:      totalDuration.Milliseconds(),
			PeakMemoryMB:    float64(c.peakMemory) / 1024 / 1024,
			Translations:    c.translations,
			TokensProcessed: c.tokensProcessed,
			UnknownTokens:   c.unknownTokens,
			Throughput:      throughput,
		},
		Environment: &EnvironmentInfo{
			GoVersion: runtime.Version(),
			GOOS:      runtime.GOOS,
			GOARCH:    runtime.GOARCH,
			NumCPU:    runtime.NumCPU(),
			MaxProcs:  runtime.GOMAXPROCS(0),
		},
	}
}

// SessionID returns the session identifier.
func (c *Collector) SessionID() string {
	return c.sessionID
}

// StageDuration returns the duration of a completed stage.
func (c *Collector) StageDuration(name string) time.Duration {
	if stage, ok := c.stages[name]; ok && !stage.EndTime.IsZero() {
		return stage.EndTime.Sub(stage.StartTime)
	}
	return 0
}
