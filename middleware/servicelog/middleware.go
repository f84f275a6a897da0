// Package servicelog logs and counts request-reply service calls as a
// mono.MiddlewareModule.
package servicelog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// SlowThreshold is the call duration above which a call is logged as slow.
const SlowThreshold = 500 * time.Millisecond

// Middleware wraps every request-reply handler to record its latency and
// failures.
type Middleware struct {
	logger types.Logger

	mu    sync.Mutex
	stats map[string]*ServiceStats
}

// ServiceStats holds the counters of one service.
type ServiceStats struct {
	Service      string        `json:"service"`
	Calls        int64         `json:"calls"`
	Failures     int64         `json:"failures"`
	TotalLatency time.Duration `json:"total_latency"`
}

// Compile-time interface checks
var _ mono.Module = (*Middleware)(nil)
var _ mono.MiddlewareModule = (*Middleware)(nil)

// New creates a new service logging middleware.
func New(logger types.Logger) *Middleware {
	return &Middleware{
		logger: logger.WithModule("servicelog"),
		stats:  make(map[string]*ServiceStats),
	}
}

// Name returns the middleware name.
func (m *Middleware) Name() string {
	return "servicelog"
}

func (m *Middleware) Start(_ context.Context) error {
	m.logger.Info("Service logging middleware started", "slow_threshold", SlowThreshold.String())
	return nil
}

func (m *Middleware) Stop(_ context.Context) error {
	for _, s := range m.Stats() {
		m.logger.Info("Service call summary",
			"service", s.Service,
			"calls", s.Calls,
			"failures", s.Failures,
			"total_latency", s.TotalLatency.String())
	}
	m.logger.Info("Service logging middleware stopped")
	return nil
}

// OnModuleLifecycle logs module lifecycle events and passes them through.
func (m *Middleware) OnModuleLifecycle(
	_ context.Context,
	event types.ModuleLifecycleEvent,
) types.ModuleLifecycleEvent {
	m.logger.Debug("Module lifecycle event", "module", event.ModuleName, "type", event.Type)
	return event
}

// OnServiceRegistration wraps request-reply handlers with call logging.
func (m *Middleware) OnServiceRegistration(
	_ context.Context,
	reg types.ServiceRegistration,
) types.ServiceRegistration {
	if reg.Type != types.ServiceTypeRequestReply || reg.RequestHandler == nil {
		return reg
	}

	service := reg.Name
	original := reg.RequestHandler

	reg.RequestHandler = func(ctx context.Context, req *types.Msg) ([]byte, error) {
		start := time.Now()
		resp, err := original(ctx, req)
		elapsed := time.Since(start)

		m.record(service, elapsed, err)
		switch {
		case err != nil:
			m.logger.Error("Service call failed", "service", service, "duration", elapsed.String(), "error", err)
		case elapsed > SlowThreshold:
			m.logger.Warn("Slow service call", "service", service, "duration", elapsed.String())
		default:
			m.logger.Debug("Service call", "service", service, "duration", elapsed.String())
		}
		return resp, err
	}

	return reg
}

// OnConfigurationChange passes through configuration changes unchanged.
func (m *Middleware) OnConfigurationChange(
	_ context.Context,
	event types.ConfigurationEvent,
) types.ConfigurationEvent {
	return event
}

// OnOutgoingMessage passes through outgoing messages unchanged.
func (m *Middleware) OnOutgoingMessage(
	octx types.OutgoingMessageContext,
) types.OutgoingMessageContext {
	return octx
}

// OnEventConsumerRegistration passes through event consumer registrations unchanged.
func (m *Middleware) OnEventConsumerRegistration(
	_ context.Context,
	entry types.EventConsumerEntry,
) types.EventConsumerEntry {
	return entry
}

// OnEventStreamConsumerRegistration passes through event stream consumer registrations unchanged.
func (m *Middleware) OnEventStreamConsumerRegistration(
	_ context.Context,
	entry types.EventStreamConsumerEntry,
) types.EventStreamConsumerEntry {
	return entry
}

func (m *Middleware) record(service string, elapsed time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stats[service]
	if !ok {
		s = &ServiceStats{Service: service}
		m.stats[service] = s
	}
	s.Calls++
	s.TotalLatency += elapsed
	if err != nil {
		s.Failures++
	}
}

// Stats returns a snapshot of the per-service counters, sorted by service name.
func (m *Middleware) Stats() []ServiceStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]ServiceStats, 0, len(m.stats))
	for _, s := range m.stats {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Service < result[j].Service })
	return result
}
