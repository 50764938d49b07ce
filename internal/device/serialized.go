package device

import (
	"sync"

	"github.com/vk/axisflow/internal/axis"
)

// serialSink serializes writes to a Sink shared by several virtual axes.
type serialSink struct {
	mu   sync.Mutex
	sink Sink
}

// Serialized returns a Sink whose writes never overlap.
func Serialized(s Sink) Sink {
	if _, ok := s.(*serialSink); ok {
		return s
	}
	return &serialSink{sink: s}
}

func (s *serialSink) Write(a axis.Axis, value int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Write(a, value)
}
