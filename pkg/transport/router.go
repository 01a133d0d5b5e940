package transport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/observability"
)

// LinkPath is the only route the listener serves.
const LinkPath = "/link"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// Collector produces the payload served on [LinkPath].
type Collector interface {
	Collect(ctx context.Context) ir.Payload
}

// CollectorFunc adapts a function to [Collector].
type CollectorFunc func(ctx context.Context) ir.Payload

// Collect implements Collector.
func (f CollectorFunc) Collect(ctx context.Context) ir.Payload { return f(ctx) }

// NewRouter returns the listener's HTTP handler. GET /link answers with the
// JSON payload of c (status 200 for both payload shapes); every other
// request is answered with 404.
func NewRouter(c Collector, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(observe(logger))
	r.Use(middleware.Recoverer)

	r.Get(LinkPath, linkHandler(c, logger))
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
	return r
}

func linkHandler(c Collector, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := c.Collect(r.Context())
		data, err := ir.Marshal(payload)
		if err != nil {
			logger.Error("encode payload", "err", err, "request_id", RequestID(r.Context()))
			data, _ = ir.Marshal(ir.ErrorPayload(err.Error()))
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// RequestID returns the correlation id assigned to the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func observe(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path,
				"status", status, "duration", elapsed, "request_id", RequestID(r.Context()))
			observability.Transport().OnRequest(r.Context(), r.Method, r.URL.Path, status, elapsed)
		})
	}
}
