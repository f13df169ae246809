package metrics

import "sync"

// Source is anything the aggregator can subscribe to for raw metrics
// payloads.
type Source interface {
	OnMetrics(handler func(payload ClientMetricsPayload))
}

// Stream is the in-process raw-metrics source. The client metrics
// service emits each accepted bucket here after the durable write; the
// aggregator subscribes at construction.
type Stream struct {
	mu       sync.RWMutex
	handlers []func(payload ClientMetricsPayload)
}

func NewStream() *Stream {
	return &Stream{}
}

func (s *Stream) OnMetrics(handler func(payload ClientMetricsPayload)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Stream) Emit(payload ClientMetricsPayload) {
	s.mu.RLock()
	hs := make([]func(ClientMetricsPayload), len(s.handlers))
	copy(hs, s.handlers)
	s.mu.RUnlock()
	for _, h := range hs {
		h(payload)
	}
}
