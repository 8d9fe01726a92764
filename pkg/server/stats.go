package server

import (
	"net/http"

	"github.com/getmockd/devhttp/pkg/chain"
	"github.com/getmockd/devhttp/pkg/httputil"
	"github.com/getmockd/devhttp/pkg/store"
)

// StoreStats describes one JSON mapping.
type StoreStats struct {
	Prefix      string                `json:"prefix"`
	File        string                `json:"file"`
	LookupField string                `json:"lookupField"`
	ReadOnly    bool                  `json:"readOnly"`
	State       string                `json:"state"`
	Records     int                   `json:"records"`
	Metrics     store.MetricsSnapshot `json:"metrics"`
}

// Stats returns the state and counters of every JSON mapping in
// registration order.
func (s *Server) Stats() []StoreStats {
	s.mu.Lock()
	mappings := make([]*jsonMapping, len(s.mappings))
	copy(mappings, s.mappings)
	s.mu.Unlock()

	stats := make([]StoreStats, 0, len(mappings))
	for _, m := range mappings {
		stats = append(stats, StoreStats{
			Prefix:      m.prefix,
			File:        m.db.Path(),
			LookupField: m.db.LookupField(),
			ReadOnly:    m.readOnly,
			State:       m.db.State().String(),
			Records:     len(m.db.All()),
			Metrics:     m.metrics.Snapshot(),
		})
	}
	return stats
}

// SetStats serves Stats as JSON on GET path.
func (s *Server) SetStats(path string) {
	s.OnGet(Exact(path), func(res *chain.Response, _ *chain.Request) {
		httputil.WriteJSON(res, http.StatusOK, map[string]any{"stores": s.Stats()})
	})
}
