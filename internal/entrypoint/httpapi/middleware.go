package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type ctxKeyLog struct{}

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

// withAccessLog tags each request with an id, stores a request-scoped logger
// in the context and records the outcome.
func withAccessLog(log logrus.FieldLogger, requests metric.Int64Counter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		reqLog := log.WithFields(logrus.Fields{
			"http.req.path":   r.URL.Path,
			"http.req.method": r.Method,
			"http.req.id":     requestID,
		})
		ctx := context.WithValue(r.Context(), ctxKeyLog{}, logrus.FieldLogger(reqLog))
		rr := &responseRecorder{w: w}
		w.Header().Set("X-Request-Id", requestID)

		defer func() {
			status := rr.status
			if status == 0 {
				status = http.StatusOK
			}
			reqLog.WithFields(logrus.Fields{
				"http.resp.took_ms": time.Since(start).Milliseconds(),
				"http.resp.status":  status,
				"http.resp.bytes":   rr.b,
				"http.req.ua":       r.UserAgent(),
			}).Info("request complete")
			if requests != nil {
				requests.Add(ctx, 1, metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.String("status", strconv.Itoa(status)),
				))
			}
		}()
		next.ServeHTTP(rr, r.WithContext(ctx))
	})
}
