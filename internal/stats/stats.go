// Package stats keeps a rolling window of chunking calls: how long each
// took, which method ran and how many chunks it produced.
package stats

import (
	"sort"
	"sync"
	"time"
)

// call is one finished ChunkText invocation.
type call struct {
	at         time.Time
	method     string
	durationMs int64
	chunks     int
}

// Snapshot aggregates the calls still inside the window. Latencies are in
// milliseconds; percentiles interpolate between neighbouring samples.
type Snapshot struct {
	Count            int            `json:"count"`
	TotalChunks      int            `json:"total_chunks"`
	AvgChunksPerCall float64        `json:"avg_chunks_per_call"`
	ByMethod         map[string]int `json:"by_method"`
	ChunksByMethod   map[string]int `json:"chunks_by_method"`
	MinMs            int64          `json:"min_ms"`
	MaxMs            int64          `json:"max_ms"`
	AvgMs            float64        `json:"avg_ms"`
	P50Ms            float64        `json:"p50_ms"`
	P95Ms            float64        `json:"p95_ms"`
	P99Ms            float64        `json:"p99_ms"`
}

// Latency is shared by the HTTP handlers, the job workers and the MCP
// tools. Calls older than the window are dropped on every access.
type Latency struct {
	mu     sync.Mutex
	calls  []call
	window time.Duration
}

// NewLatency keeps calls for window; a non-positive window means one hour.
func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{
		calls:  make([]call, 0, 256),
		window: window,
	}
}

// Record adds a finished chunking call with method that produced chunks
// chunks in d.
func (s *Latency) Record(method string, d time.Duration, chunks int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.expireLocked(now)
	s.calls = append(s.calls, call{
		at:         now,
		method:     method,
		durationMs: max(d.Milliseconds(), 0),
		chunks:     chunks,
	})
}

func (s *Latency) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(time.Now())

	snap := Snapshot{
		ByMethod:       map[string]int{},
		ChunksByMethod: map[string]int{},
	}
	if len(s.calls) == 0 {
		return snap
	}

	durations := make([]int64, len(s.calls))
	var totalMs int64
	for i, c := range s.calls {
		durations[i] = c.durationMs
		totalMs += c.durationMs
		snap.TotalChunks += c.chunks
		snap.ByMethod[c.method]++
		snap.ChunksByMethod[c.method] += c.chunks
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	n := len(durations)
	snap.Count = n
	snap.AvgChunksPerCall = float64(snap.TotalChunks) / float64(n)
	snap.MinMs = durations[0]
	snap.MaxMs = durations[n-1]
	snap.AvgMs = float64(totalMs) / float64(n)
	snap.P50Ms = percentile(durations, 50)
	snap.P95Ms = percentile(durations, 95)
	snap.P99Ms = percentile(durations, 99)
	return snap
}

// expireLocked drops calls recorded before now-window. Calls arrive in
// time order, so the expired ones form a prefix.
func (s *Latency) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	keep := sort.Search(len(s.calls), func(i int) bool {
		return !s.calls[i].at.Before(cutoff)
	})
	if keep > 0 {
		s.calls = append(s.calls[:0], s.calls[keep:]...)
	}
}

// percentile interpolates linearly over sorted; pct is in [0, 100].
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	pos := float64(len(sorted)-1) * pct / 100
	i := int(pos)
	if i+1 >= len(sorted) {
		return float64(sorted[i])
	}
	frac := pos - float64(i)
	return float64(sorted[i]) + float64(sorted[i+1]-sorted[i])*frac
}
