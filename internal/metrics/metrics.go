package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LevelsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ftops_levels_created_total", Help: "Price levels created via API or CLI"},
	)
	LevelsUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ftops_levels_updated_total", Help: "Price levels updated"},
	)
	LevelsDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ftops_levels_deleted_total", Help: "Price levels deleted"},
	)
	StrategyStartsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ftops_strategy_starts_total", Help: "Background strategy processes started"},
	)
	StrategyExitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ftops_strategy_exits_total", Help: "Background strategy process exits"},
		[]string{"status"},
	)
	StrategyUp = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "ftops_strategy_up", Help: "1 while the supervised strategy process is running"},
	)
)

func init() {
	prometheus.MustRegister(
		LevelsCreatedTotal, LevelsUpdatedTotal, LevelsDeletedTotal,
		StrategyStartsTotal, StrategyExitsTotal, StrategyUp,
	)
}
