// Package server exposes the solver over HTTP with JSON bodies.
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"setcover/config"
	"setcover/cover"
	"setcover/orlib"
	"setcover/report"
	"setcover/solver"
)

var log = logrus.WithField("prefix", "server")

// SubsetInput is one subset of a request. A missing cost means 1.
type SubsetInput struct {
	Indices []int    `json:"indices"`
	Cost    *float64 `json:"cost"`
}

// Request carries the problem either as explicit subsets over a
// universe or as the text of an instance file in one of the orlib
// formats. Config is applied over the server's defaults.
type Request struct {
	Universe int             `json:"universe"`
	Subsets  []SubsetInput   `json:"subsets"`
	Format   string          `json:"format"`
	Instance string          `json:"instance"`
	Config   json.RawMessage `json:"config"`
}

type Response struct {
	report.Summary
	Duplicates int    `json:"duplicates,omitempty"`
	Elapsed    string `json:"elapsed"`
}

const (
	DefaultMaxBody     = 64 << 20
	DefaultMaxUniverse = 1 << 22
)

type Handler struct {
	defaults    config.Config
	mux         *http.ServeMux
	maxBody     int64
	maxUniverse int
}

type Option func(*Handler)

// WithLimits bounds the request body in bytes and the universe size a
// request may ask for.
func WithLimits(maxBody int64, maxUniverse int) Option {
	return func(h *Handler) {
		h.maxBody = maxBody
		h.maxUniverse = maxUniverse
	}
}

func NewHandler(defaults config.Config, opts ...Option) *Handler {
	h := &Handler{
		defaults:    defaults,
		mux:         http.NewServeMux(),
		maxBody:     DefaultMaxBody,
		maxUniverse: DefaultMaxUniverse,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.mux.HandleFunc("/solve", h.solve)
	h.mux.HandleFunc("/health", health)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.mux.ServeHTTP(w, r)
}

func health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Error encoding response")
	}
}

func readRequest(w http.ResponseWriter, r *http.Request, limit int64) (*Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.WithError(err).Warn("Error closing body")
		}
	}()
	var req Request
	dec := json.NewDecoder(bytes.NewReader(bodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, errors.Wrap(err, "decode request")
	}
	return &req, nil
}

func (h *Handler) problem(req *Request) (*orlib.Instance, error) {
	if req.Instance != "" {
		format := req.Format
		if format == "" {
			format = orlib.FormatOR
		}
		return orlib.ParseLimited(format, "request", strings.NewReader(req.Instance), h.maxUniverse)
	}
	if req.Universe < 0 {
		return nil, errors.Errorf("negative universe %d", req.Universe)
	}
	if req.Universe > h.maxUniverse {
		return nil, errors.Errorf("universe %d exceeds limit %d", req.Universe, h.maxUniverse)
	}
	inst := &orlib.Instance{Family: cover.NewFamily(req.Universe)}
	for k, in := range req.Subsets {
		cost := 1.0
		if in.Cost != nil {
			cost = *in.Cost
		}
		s, err := cover.NewSubset(req.Universe, cost, in.Indices...)
		if err != nil {
			return nil, errors.Wrapf(err, "subset %d", k)
		}
		if inst.Family.Contains(s) {
			inst.Duplicates++
			continue
		}
		if err := inst.Family.Add(s); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (h *Handler) config(req *Request) (config.Config, error) {
	cfg := h.defaults
	cfg.Optimizations = append([]string(nil), h.defaults.Optimizations...)
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return cfg, errors.Wrap(err, "decode config")
		}
	}
	return cfg, cfg.Validate()
}

func (h *Handler) solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := readRequest(w, r, h.maxBody)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	inst, err := h.problem(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg, err := h.config(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := solver.New(cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	var result *cover.Family
	if cc, ok := c.(solver.ContextCoverer); ok {
		result, err = cc.CoverContext(r.Context(), inst.Family, nil)
	} else {
		result, err = c.Cover(inst.Family, nil)
	}
	if err != nil {
		log.WithError(err).Error("Error solving problem")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	elapsed := time.Since(start)
	log.WithFields(logrus.Fields{
		"universe": inst.Family.Universe(),
		"subsets":  inst.Family.Len(),
		"elapsed":  elapsed,
	}).Info("Problem solved")
	writeJSON(w, Response{
		Summary:    report.Summarize(inst.Family, result, c.Statistics()),
		Duplicates: inst.Duplicates,
		Elapsed:    elapsed.String(),
	})
}
