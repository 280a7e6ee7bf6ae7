package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the expense routes plus /health and /metrics.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(instrument, h.accessLog, h.recoverPanics)

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/expenses", h.serve(h.RecordExpense)).Methods(http.MethodPost)
	r.HandleFunc("/expenses/{date}", h.serve(h.ExpensesOn)).Methods(http.MethodGet)

	return r
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// serve answers 500 for any error a handler returns. Handlers only return an
// error before they have written a response.
func (h *Handler) serve(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.log.WithError(err).WithFields(requestFields(r)).Error("ledger call failed")
			respondError(w, http.StatusInternalServerError, "Internal Server Error")
		}
	}
}
