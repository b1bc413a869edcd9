package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credmarket_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "credmarket_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credmarket_transfers_total",
			Help: "Committed credit transfers by entry type",
		},
		[]string{"entry_type"},
	)

	CreditsMovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credmarket_credits_moved_total",
			Help: "Total credits moved between accounts",
		},
	)

	AccountsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credmarket_accounts_created_total",
			Help: "Total credit accounts created",
		},
	)

	VotesCastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credmarket_votes_cast_total",
			Help: "Committed vote mutations by outcome",
		},
		[]string{"status"},
	)

	ReportsFiledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credmarket_reports_filed_total",
			Help: "Total moderation reports filed",
		},
	)
)
