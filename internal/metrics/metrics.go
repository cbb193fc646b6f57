package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Game Metrics
var (
	SpinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinsTotal,
			Help: HelpTextSpinsTotal,
		},
		[]string{LabelBoost, LabelLines, LabelResult},
	)

	TroniumWagered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTroniumWagered,
			Help: HelpTextTroniumWagered,
		},
	)

	TroniumPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTroniumPaid,
			Help: HelpTextTroniumPaid,
		},
	)

	DamageDealt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDamageDealt,
			Help: HelpTextDamageDealt,
		},
	)

	MovesDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMovesDrawn,
			Help: HelpTextMovesDrawn,
		},
		[]string{LabelMove},
	)

	BattlesFinished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBattlesFinished,
			Help: HelpTextBattlesFinished,
		},
	)

	ObservedRTP = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameObservedRTP,
			Help: HelpTextObservedRTP,
		},
	)

	ExpectedPayout = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameExpectedPayout,
			Help: HelpTextExpectedPayout,
		},
	)

	SpinDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSpinDuration,
			Help:    HelpTextSpinDuration,
			Buckets: SpinLatencyBuckets,
		},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameWebSocketClients,
			Help: HelpTextWebSocketClients,
		},
	)
)

// rtpTracker 累计投注和派彩，用于计算实际RTP
var rtpTracker struct {
	sync.Mutex
	wagered int64
	paid    int64
}

// SpinSample 一次旋转的指标数据
type SpinSample struct {
	Boost   string
	Lines   int
	Cost    int64
	Payout  int64
	Damage  int64
	MoveIDs []string
	Win     bool
}

// RecordSpin 记录一次旋转
func RecordSpin(s SpinSample) {
	result := ResultLose
	if s.Win {
		result = ResultWin
	}
	SpinsTotal.WithLabelValues(s.Boost, strconv.Itoa(s.Lines), result).Inc()
	TroniumWagered.Add(float64(s.Cost))
	TroniumPaid.Add(float64(s.Payout))
	DamageDealt.Add(float64(s.Damage))
	for _, id := range s.MoveIDs {
		MovesDrawn.WithLabelValues(id).Inc()
	}

	rtpTracker.Lock()
	rtpTracker.wagered += s.Cost
	rtpTracker.paid += s.Payout
	if rtpTracker.wagered > 0 {
		ObservedRTP.Set(float64(rtpTracker.paid) / float64(rtpTracker.wagered))
	}
	rtpTracker.Unlock()
}

// RecordBattleFinished 记录击败反派
func RecordBattleFinished() {
	BattlesFinished.Inc()
}
