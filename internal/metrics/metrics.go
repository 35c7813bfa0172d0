package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector アプリケーションのメトリクス
// nil の Collector でも各メソッドは何もしない
type Collector struct {
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	MalformedFeaturesTotal prometheus.Counter
	LoadedPerformances     prometheus.Gauge
}

// NewCollector reg に登録したコレクターを作る
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"route"},
		),

		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_fetch_total",
				Help:      "Total number of upstream fetches by source and result",
			},
			[]string{"source", "result"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "source_fetch_duration_seconds",
				Help:      "Upstream fetch duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"source"},
		),

		CacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total payload cache hits",
		}),

		CacheMissesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total payload cache misses",
		}),

		MalformedFeaturesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_features_total",
			Help:      "Total map features whose geometry could not be decoded",
		}),

		LoadedPerformances: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_performances",
			Help:      "Number of performance records in the most recent load",
		}),
	}
}

// RecordAPIRequest APIリクエストを記録
func (c *Collector) RecordAPIRequest(route, method, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.APIRequestsTotal.WithLabelValues(route, method, status).Inc()
	c.APIRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordFetch 取得元ごとの結果（ok / error）と所要時間を記録
func (c *Collector) RecordFetch(source string, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.FetchTotal.WithLabelValues(source, result).Inc()
	c.FetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (c *Collector) RecordCacheHit() {
	if c == nil {
		return
	}
	c.CacheHitsTotal.Inc()
}

func (c *Collector) RecordCacheMiss() {
	if c == nil {
		return
	}
	c.CacheMissesTotal.Inc()
}

// RecordMalformedFeatures 形状を読めなかった地域の数を加算
func (c *Collector) RecordMalformedFeatures(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.MalformedFeaturesTotal.Add(float64(n))
}

// SetLoadedPerformances 直近の読み込み件数
func (c *Collector) SetLoadedPerformances(n int) {
	if c == nil {
		return
	}
	c.LoadedPerformances.Set(float64(n))
}
