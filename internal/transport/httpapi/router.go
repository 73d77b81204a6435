// Package httpapi - REST-интерфейс каталога под префиксом /siproad-orders.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/metrics"
)

// BasePath - общий префикс маршрутов.
const BasePath = "/siproad-orders"

// NewRouter регистрирует маршруты каталога.
func NewRouter(h *Handler, m *metrics.CatalogMetrics) http.Handler {
	r := mux.NewRouter()
	s := r.PathPrefix(BasePath).Subrouter()

	s.HandleFunc("/products/update", h.updateProduct).Methods(http.MethodPatch)
	s.HandleFunc("/products/{companyId}", h.findProducts).Methods(http.MethodGet)
	s.HandleFunc("/products/{companyId}/{value}", h.findOneProductByValue).Methods(http.MethodGet)
	s.HandleFunc("/products/{id}", h.removeProduct).Methods(http.MethodDelete)

	s.HandleFunc("/companies/update", h.updateCompany).Methods(http.MethodPatch)
	s.HandleFunc("/companies", h.findCompanies).Methods(http.MethodGet)
	s.HandleFunc("/companies/{value}", h.findOneCompanyByValue).Methods(http.MethodGet)
	s.HandleFunc("/companies/{id}", h.removeCompany).Methods(http.MethodDelete)

	r.Use(metricsMiddleware(m))
	return logMiddleware(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func metricsMiddleware(m *metrics.CatalogMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.RecordHTTPRequest(route, r.Method, rec.status, time.Since(start))
		})
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"component":  "http",
			"method":     r.Method,
			"url":        r.URL.String(),
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
			"status":     rec.status,
			"runtime":    time.Since(start).Seconds(),
		}).Info("request handled")
	})
}
