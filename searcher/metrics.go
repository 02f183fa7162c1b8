package searcher

import (
	"sync/atomic"
	"time"
)

// MoveMetrics summarizes one search: how many episodes ran, how many reached
// a terminal state, and how long the whole search took.
type MoveMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Episodes     int64
	FullPlayouts int64
}

type MetricsCollector interface {
	Start()
	AddEpisode()
	AddFullPlayout()
	Complete() MoveMetrics
}

type metricsCollector struct {
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *metricsCollector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *metricsCollector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *metricsCollector) Complete() MoveMetrics {
	return MoveMetrics{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Episodes:     m.episodes.Load(),
		FullPlayouts: m.fullPlayouts.Load(),
	}
}

// dummyCollector is the no-op default so the hot path pays nothing when
// metrics are off.
type dummyCollector struct{}

func NewDummyCollector() MetricsCollector {
	return dummyCollector{}
}

func (dummyCollector) Start()                {}
func (dummyCollector) AddEpisode()           {}
func (dummyCollector) AddFullPlayout()       {}
func (dummyCollector) Complete() MoveMetrics { return MoveMetrics{} }
