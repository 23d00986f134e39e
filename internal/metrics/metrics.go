package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/anonto42/nano-midea/forum/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MembershipUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_membership_updates_total",
		Help: "Membership push/pull operations applied, by set.",
	}, []string{"set", "action"})

	CounterAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_counter_adjustments_total",
		Help: "Note counter adjustments applied, by property and direction.",
	}, []string{"property", "direction"})

	Comments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_comments_total",
		Help: "Comments created or deleted.",
	}, []string{"op"})
)

// Direction labels a counter delta.
func Direction(delta int) string {
	if delta < 0 {
		return "down"
	}
	return "up"
}

// HTTPServer exposes /metrics on its own port.
type HTTPServer struct {
	srv *http.Server
}

// NewHTTPServer starts serving the default registry on addr.
func NewHTTPServer(addr string) (*HTTPServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}
	logger.For(context.Background()).WithField("addr", srv.Addr).Info("Starting metrics server")
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.For(context.Background()).WithError(err).Error("metrics server stopped")
		}
	}()

	return &HTTPServer{srv: srv}, nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
