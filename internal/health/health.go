package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/logger"
)

// Statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency; a nil error means healthy
type CheckFunc func(ctx context.Context) error

// ComponentHealth represents the health of one dependency
type ComponentHealth struct {
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	Critical  bool          `json:"critical"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Report is the overall service health
type Report struct {
	Service    string                     `json:"service"`
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Uptime     time.Duration              `json:"uptime_seconds"`
}

type check struct {
	fn       CheckFunc
	critical bool
}

// Checker runs the registered dependency checks. A failing critical check
// makes the service unhealthy; any other failure degrades it.
type Checker struct {
	service   string
	timeout   time.Duration
	startTime time.Time

	mu     sync.RWMutex
	checks map[string]check

	grpc *health.Server
}

// NewChecker creates a new health checker
func NewChecker(service string) *Checker {
	return &Checker{
		service:   service,
		timeout:   3 * time.Second,
		startTime: time.Now(),
		checks:    make(map[string]check),
		grpc:      health.NewServer(),
	}
}

// Register adds a dependency check
func (h *Checker) Register(name string, critical bool, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: fn, critical: critical}
}

// CheckAll runs every check concurrently
func (h *Checker) CheckAll(ctx context.Context) Report {
	h.mu.RLock()
	checks := make(map[string]check, len(h.checks))
	for name, c := range h.checks {
		checks[name] = c
	}
	h.mu.RUnlock()

	components := make(map[string]ComponentHealth, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, c := range checks {
		wg.Add(1)
		go func(n string, c check) {
			defer wg.Done()
			result := h.run(ctx, n, c)

			mu.Lock()
			components[n] = result
			mu.Unlock()

			if result.Status != StatusHealthy {
				logger.Logger.Warn().
					Str("component", n).
					Str("error", result.Error).
					Msg("Health check failed")
			}
		}(name, c)
	}
	wg.Wait()

	report := Report{
		Service:    h.service,
		Status:     overallStatus(components),
		Components: components,
		Uptime:     time.Since(h.startTime),
	}
	h.publish(report.Status)
	return report
}

func (h *Checker) run(ctx context.Context, name string, c check) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := c.fn(ctx)
	result := ComponentHealth{
		Name:      name,
		Status:    StatusHealthy,
		Critical:  c.critical,
		Latency:   time.Since(start),
		Timestamp: time.Now(),
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	return result
}

func overallStatus(components map[string]ComponentHealth) string {
	status := StatusHealthy
	for _, c := range components {
		if c.Status == StatusHealthy {
			continue
		}
		if c.Critical {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}

// publish mirrors the status to the gRPC health service. Degraded still serves.
func (h *Checker) publish(status string) {
	serving := healthpb.HealthCheckResponse_SERVING
	if status == StatusUnhealthy {
		serving = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.grpc.SetServingStatus("", serving)
	h.grpc.SetServingStatus(h.service, serving)
}

// GRPCServer returns the gRPC health service kept in sync with CheckAll
func (h *Checker) GRPCServer() *health.Server {
	return h.grpc
}

// Names returns the registered check names in order
func (h *Checker) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RegisterRoutes registers /health
func (h *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Handle).Methods("GET")
}

// Handle handles GET /health
func (h *Checker) Handle(w http.ResponseWriter, r *http.Request) {
	report := h.CheckAll(r.Context())
	status := http.StatusOK
	if report.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	httpx.RespondJSON(w, status, report)
}

// Shutdown marks every service as not serving
func (h *Checker) Shutdown() {
	h.grpc.Shutdown()
}
