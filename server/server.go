// Package server exposes a cache-aside coordinator over HTTP/JSON.
//
// Routes:
//
//	POST   /create              {"key":"k","value":"v"} -> {"status":"ok"}
//	GET    /read?key=k          -> {"value":"v"} | 404
//	DELETE /delete?key=k        -> {"status":"deleted"}
//	GET    /metrics             -> {"cache_size":N,"cache_hits":N,"cache_misses":N,...}
//	GET    /metrics/prometheus  -> Prometheus exposition (when Options.Gatherer is set)
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IvanBrykalov/kvcache/cacheaside"
)

// KV is the coordinator surface the handlers need.
type KV interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Stats() cacheaside.Stats
}

// Options configures the handler. Zero values are safe.
type Options struct {
	// Gatherer, when set, is served at /metrics/prometheus.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

type handler struct {
	kv  KV
	log *slog.Logger
}

// New returns an http.Handler serving kv.
func New(kv KV, opt Options) http.Handler {
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}
	h := &handler{kv: kv, log: opt.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /create", h.create)
	mux.HandleFunc("GET /read", h.read)
	mux.HandleFunc("DELETE /delete", h.delete)
	mux.HandleFunc("GET /metrics", h.metrics)
	if opt.Gatherer != nil {
		mux.Handle("GET /metrics/prometheus", promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

const maxBodyBytes = 1 << 20

type createRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(&req)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if err != nil || req.Key == "" || req.Value == "" {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.kv.Write(r.Context(), req.Key, req.Value); err != nil {
		h.serverError(w, r, "create", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) read(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key parameter")
		return
	}
	v, err := h.kv.Read(r.Context(), key)
	switch {
	case errors.Is(err, cacheaside.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		h.serverError(w, r, "read", err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"value": v})
	}
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key parameter")
		return
	}
	if err := h.kv.Delete(r.Context(), key); err != nil {
		h.serverError(w, r, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handler) metrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.kv.Stats())
}

func (h *handler) serverError(w http.ResponseWriter, r *http.Request, route string, err error) {
	h.log.ErrorContext(r.Context(), "request failed", "route", route, "error", err)
	writeError(w, http.StatusInternalServerError, "server error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
