package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/julienv/daygate/internal/api/handlers"
	"github.com/julienv/daygate/internal/datectx"
	"github.com/julienv/daygate/internal/gateway"
	"github.com/julienv/daygate/internal/payments"
	"github.com/julienv/daygate/pkg/httputil"
	"github.com/julienv/daygate/pkg/logger"
)

// RouterDeps bundles everything the router mounts.
type RouterDeps struct {
	Registry  *gateway.Registry
	Analytics *handlers.AnalyticsHandler
	WellKnown *handlers.WellKnownHandler
	Tracker   payments.Tracker // nil disables payment recording
	Hub       *payments.Hub    // nil disables the live stream
	Logger    *logger.Logger
}

// NewRouter mounts every registered operation plus the non-JSON routes
// (health, CSV export, service descriptor, live payment stream).
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")
	r.HandleFunc("/.well-known/agent.json", deps.WellKnown.Descriptor).Methods("GET")
	r.HandleFunc("/icon.png", deps.WellKnown.Icon).Methods("GET")

	for _, op := range deps.Registry.Operations() {
		r.HandleFunc(op.Path, operationHandler(op, deps)).Methods(op.Method)
	}

	r.HandleFunc("/api/analytics/export", deps.Analytics.ExportCSV).Methods("GET")
	if deps.Hub != nil {
		r.HandleFunc("/api/analytics/stream", deps.Hub.Handle)
	}

	r.Use(loggingMiddleware(deps.Logger))
	r.Use(recoveryMiddleware(deps.Logger))

	return r
}

// operationHandler adapts one registered operation into an HTTP handler:
// extract raw input, validate against the schema, run the handler, record
// the payment on success, respond.
func operationHandler(op gateway.Operation, deps RouterDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := extractInput(r, op)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		in, err := op.Schema.Validate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		out, err := op.Handler(r.Context(), in)
		if err != nil {
			status, message := classifyError(err)
			deps.Logger.WithFields(map[string]interface{}{
				"operation": op.Key,
				"status":    status,
				"error":     err.Error(),
			}).Warn("Operation failed")
			respondError(w, status, message)
			return
		}

		if op.Priced() && deps.Tracker != nil {
			recordPayment(r, op, deps)
		}

		respondJSON(w, http.StatusOK, out)
	}
}

// recordPayment writes the ledger entry for a successful priced call and
// fans it out to stream subscribers. Ledger failures are logged, never
// surfaced; the caller already got their data.
func recordPayment(r *http.Request, op gateway.Operation, deps RouterDeps) {
	tx := payments.NewTransaction(op.Key, op.Price, deps.Analytics.Currency())
	if err := deps.Tracker.Record(r.Context(), tx); err != nil {
		deps.Logger.WithError(err).WithField("operation", op.Key).Error("Failed to record payment")
		return
	}
	if deps.Hub != nil {
		deps.Hub.Publish(tx)
	}
}

// extractInput pulls raw field values from the request: query parameters
// for GET, a JSON object body otherwise.
func extractInput(r *http.Request, op gateway.Operation) (map[string]interface{}, error) {
	if r.Method == http.MethodGet {
		raw := make(map[string]interface{}, len(op.Schema))
		q := r.URL.Query()
		for _, f := range op.Schema {
			if v := q.Get(f.Name); v != "" {
				raw[f.Name] = v
			}
		}
		return raw, nil
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, &gateway.ValidationError{Field: "body", Reason: "must be a JSON object"}
	}
	return raw, nil
}

// classifyError maps the error taxonomy onto HTTP statuses. Upstream
// detail stays in the logs; clients get the category.
func classifyError(err error) (int, string) {
	switch {
	case gateway.IsValidationError(err), errors.Is(err, datectx.ErrBadDate):
		return http.StatusBadRequest, err.Error()
	case httputil.IsTimeoutError(err):
		return http.StatusGatewayTimeout, "upstream provider timed out"
	case httputil.IsUpstreamError(err):
		return http.StatusBadGateway, "upstream provider request failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "daygate-api",
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs every request with its duration.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from handler panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					respondError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
