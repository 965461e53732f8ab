package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ListFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swapsync_list_fetches_total", Help: "Token list fetches by result"},
		[]string{"result"},
	)
	ListUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swapsync_list_updates_total", Help: "Pending list versions by bump and decision"},
		[]string{"bump", "decision"},
	)
	RefreshTimerArmed = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "swapsync_refresh_timer_armed", Help: "1 while the periodic list refresh is armed"},
	)
	QuoteTransformsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swapsync_quote_transforms_total", Help: "Quote to trade transformations by fill type and result"},
		[]string{"fill_type", "result"},
	)
)

func init() {
	prometheus.MustRegister(ListFetchesTotal, ListUpdatesTotal, RefreshTimerArmed, QuoteTransformsTotal)
}

// Handler exposes the default registry in the prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
