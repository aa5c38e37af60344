package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики торгового ядра
// ============================================================

// EventsProcessed - количество обработанных событий чата по типам
var EventsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradebot",
		Subsystem: "session",
		Name:      "events_processed_total",
		Help:      "Total number of processed chat events",
	},
	[]string{"kind"},
)

// TransitionErrors - ошибки обработки событий по категориям таксономии
var TransitionErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradebot",
		Subsystem: "session",
		Name:      "transition_errors_total",
		Help:      "Total number of failed state transitions by error category",
	},
	[]string{"category"},
)

// TradesExecuted - исполненные сделки по стратегиям и результату
var TradesExecuted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tradebot",
		Subsystem: "trading",
		Name:      "trades_total",
		Help:      "Total number of executed trades",
	},
	[]string{"strategy", "result"},
)

// TradeDuration - длительность исполнения сделки (без прогресс-уведомлений)
var TradeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "tradebot",
		Subsystem: "trading",
		Name:      "trade_execution_seconds",
		Help:      "Trade execution duration in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	},
)

// ActiveExecutors - число работающих фоновых исполнителей сделок
var ActiveExecutors = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "tradebot",
		Subsystem: "trading",
		Name:      "active_trade_executors",
		Help:      "Number of currently running trade executors",
	},
)
