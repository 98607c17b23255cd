// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package proxy exposes the federated catalog over HTTP, so that clients
// unaware of the connector topology can query every configured provider
// with a single request.
package proxy

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/catalog"
)

var log = logging.Logger("dataspace/proxy")

const (
	QueryPath   = "/federated-catalog/query"
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"

	queryFailedMessage = "Unable to fetch federated catalogues"
)

type metrics struct {
	queries           *prometheus.CounterVec
	duration          prometheus.Histogram
	connectorFailures *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataspace",
			Subsystem: "federated_catalog",
			Name:      "queries_total",
			Help:      "Federated catalog queries served, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dataspace",
			Subsystem: "federated_catalog",
			Name:      "query_duration_seconds",
			Help:      "Time spent fanning a query out to every connector.",
			Buckets:   prometheus.DefBuckets,
		}),
		connectorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dataspace",
			Subsystem: "federated_catalog",
			Name:      "connector_failures_total",
			Help:      "Connectors that could not be queried, by BPN.",
		}, []string{"bpn"}),
	}
	reg.MustRegister(m.queries, m.duration, m.connectorFailures)
	return m
}

// Handler serves the federated catalog routes and its own metrics registry.
type Handler struct {
	svc        *catalog.CatalogService
	connectors []config.FederatedConnector
	registry   *prometheus.Registry
	metrics    *metrics
	router     *mux.Router
}

// NewHandler builds the router. An empty connector list falls back to the
// connectors configured on svc.
func NewHandler(svc *catalog.CatalogService, connectors []config.FederatedConnector) *Handler {
	reg := prometheus.NewRegistry()
	h := &Handler{
		svc:        svc,
		connectors: connectors,
		registry:   reg,
		metrics:    newMetrics(reg),
		router:     mux.NewRouter(),
	}

	h.router.HandleFunc(QueryPath, h.query).Methods(http.MethodPost)
	h.router.HandleFunc(HealthPath, health).Methods(http.MethodGet)
	h.router.Handle(MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { h.metrics.duration.Observe(time.Since(start).Seconds()) }()

	q, err := decodeQuery(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.svc.FederatedQuery(r.Context(), catalog.FederatedRequest{Connectors: h.connectors, Query: q})
	if err != nil {
		h.fail(w, err)
		return
	}
	for _, f := range res.Failures {
		h.metrics.connectorFailures.WithLabelValues(f.BPN).Inc()
	}
	h.metrics.queries.WithLabelValues("ok").Inc()

	// datasets are relayed as the providers sent them
	out := lo.Map(res.Datasets, func(ds dataspace.Dataset, _ int) any {
		if ds.Raw != nil {
			return ds.Raw
		}
		return ds
	})
	log.Infow("federated query served", "offset", q.Offset, "limit", q.Limit, "datasets", len(out), "failures", len(res.Failures))
	writeJSON(w, http.StatusOK, out)
}

// decodeQuery reads the optional QuerySpec body. A missing or empty body
// means the default window, and so does a body sent with a non-JSON
// Content-Type, which is ignored rather than rejected.
func decodeQuery(r *http.Request) (dataspace.QuerySpec, error) {
	var q dataspace.QuerySpec
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return q, nil
	}
	err := json.NewDecoder(r.Body).Decode(&q)
	if errors.Is(err, io.EOF) {
		return q, nil
	}
	return q, err
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.metrics.queries.WithLabelValues("error").Inc()
	log.Errorw("federated query failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   queryFailedMessage,
		"message": err.Error(),
	})
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnw("failed to write response", "error", err)
	}
}
