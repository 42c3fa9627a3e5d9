package bot

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Conversation updates received, by kind.",
		},
		[]string{"kind"},
	)

	catalogCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_catalog_calls_total",
			Help: "Catalog API calls made by the bot, by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(updatesTotal, catalogCallsTotal)
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "api_error"
	default:
		return "server_error"
	}
}
