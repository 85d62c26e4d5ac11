package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawmart_mutations_total",
		Help: "Record mutation attempts by resource and outcome.",
	}, []string{"resource", "outcome"})

	AssetCleanupFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawmart_asset_cleanup_failures_total",
		Help: "Asset removals that failed during best-effort cleanup.",
	})

	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawmart_uploads_total",
		Help: "Images accepted through the upload endpoint.",
	})

	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawmart_logins_total",
		Help: "Successful logins, each of which upserts a local identity.",
	})
)
