package store

import (
	"sync/atomic"
	"time"
)

// Observer receives hooks for every store operation. Implementations must
// be safe for concurrent use.
type Observer interface {
	// OnGet is called after a successful read.
	OnGet(resource, key string, duration time.Duration)

	// OnInsert is called after a record was inserted and persisted.
	OnInsert(resource, key string, duration time.Duration)

	// OnUpdate is called after a record was replaced and persisted.
	OnUpdate(resource, key string, duration time.Duration)

	// OnRemove is called after a remove; count may be zero.
	OnRemove(resource, key string, count int, duration time.Duration)

	// OnReload is called after the backing file was read successfully.
	OnReload(resource string, records int, duration time.Duration)

	// OnError is called when an operation or a reload fails.
	OnError(resource, op string, err error)
}

// NoopObserver is a no-op implementation of Observer.
type NoopObserver struct{}

func (NoopObserver) OnGet(string, string, time.Duration)         {}
func (NoopObserver) OnInsert(string, string, time.Duration)      {}
func (NoopObserver) OnUpdate(string, string, time.Duration)      {}
func (NoopObserver) OnRemove(string, string, int, time.Duration) {}
func (NoopObserver) OnReload(string, int, time.Duration)         {}
func (NoopObserver) OnError(string, string, error)               {}

// MetricsObserver counts store operations. All counters are atomic.
type MetricsObserver struct {
	getCount       atomic.Int64
	insertCount    atomic.Int64
	updateCount    atomic.Int64
	removeCount    atomic.Int64
	removedRecords atomic.Int64
	reloadCount    atomic.Int64
	errorCount     atomic.Int64
	records        atomic.Int64
	totalLatencyNs atomic.Int64
}

// NewMetricsObserver creates a new metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (m *MetricsObserver) OnGet(resource, key string, duration time.Duration) {
	m.getCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnInsert(resource, key string, duration time.Duration) {
	m.insertCount.Add(1)
	m.records.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnUpdate(resource, key string, duration time.Duration) {
	m.updateCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnRemove(resource, key string, count int, duration time.Duration) {
	m.removeCount.Add(1)
	m.removedRecords.Add(int64(count))
	m.records.Add(-int64(count))
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnReload(resource string, records int, duration time.Duration) {
	m.reloadCount.Add(1)
	m.records.Store(int64(records))
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnError(resource, op string, err error) {
	m.errorCount.Add(1)
}

// Snapshot returns a copy of the current counters.
func (m *MetricsObserver) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		GetCount:       m.getCount.Load(),
		InsertCount:    m.insertCount.Load(),
		UpdateCount:    m.updateCount.Load(),
		RemoveCount:    m.removeCount.Load(),
		RemovedRecords: m.removedRecords.Load(),
		ReloadCount:    m.reloadCount.Load(),
		ErrorCount:     m.errorCount.Load(),
		Records:        m.records.Load(),
		TotalLatency:   time.Duration(m.totalLatencyNs.Load()),
	}
}

// Reset clears all counters.
func (m *MetricsObserver) Reset() {
	m.getCount.Store(0)
	m.insertCount.Store(0)
	m.updateCount.Store(0)
	m.removeCount.Store(0)
	m.removedRecords.Store(0)
	m.reloadCount.Store(0)
	m.errorCount.Store(0)
	m.records.Store(0)
	m.totalLatencyNs.Store(0)
}

// MetricsSnapshot is a point-in-time copy of a MetricsObserver.
type MetricsSnapshot struct {
	GetCount       int64         `json:"getCount"`
	InsertCount    int64         `json:"insertCount"`
	UpdateCount    int64         `json:"updateCount"`
	RemoveCount    int64         `json:"removeCount"`
	RemovedRecords int64         `json:"removedRecords"`
	ReloadCount    int64         `json:"reloadCount"`
	ErrorCount     int64         `json:"errorCount"`
	Records        int64         `json:"records"`
	TotalLatency   time.Duration `json:"totalLatencyNs"`
}

// TotalOperations returns the number of successful get and mutation calls.
func (s MetricsSnapshot) TotalOperations() int64 {
	return s.GetCount + s.InsertCount + s.UpdateCount + s.RemoveCount
}

// MultiObserver fans hooks out to several observers.
type MultiObserver []Observer

func (o MultiObserver) OnGet(resource, key string, d time.Duration) {
	for _, ob := range o {
		ob.OnGet(resource, key, d)
	}
}

func (o MultiObserver) OnInsert(resource, key string, d time.Duration) {
	for _, ob := range o {
		ob.OnInsert(resource, key, d)
	}
}

func (o MultiObserver) OnUpdate(resource, key string, d time.Duration) {
	for _, ob := range o {
		ob.OnUpdate(resource, key, d)
	}
}

func (o MultiObserver) OnRemove(resource, key string, count int, d time.Duration) {
	for _, ob := range o {
		ob.OnRemove(resource, key, count, d)
	}
}

func (o MultiObserver) OnReload(resource string, records int, d time.Duration) {
	for _, ob := range o {
		ob.OnReload(resource, records, d)
	}
}

func (o MultiObserver) OnError(resource, op string, err error) {
	for _, ob := range o {
		ob.OnError(resource, op, err)
	}
}
