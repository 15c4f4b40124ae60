package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector 记录重试与下载等待的指标,nil Collector 的方法都是空操作
type Collector struct {
	attempts     *prometheus.CounterVec
	exhausted    *prometheus.CounterVec
	errors       *prometheus.CounterVec
	downloadWait prometheus.Histogram
}

func NewCollector(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if namespace == "" {
		namespace = "rdriver"
	}
	c := &Collector{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_attempts_total",
			Help:      "Number of attempts made by retried actions.",
		}, []string{"action"}),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_exhausted_total",
			Help:      "Number of retried actions that used every attempt without success.",
		}, []string{"action"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_errors_total",
			Help:      "Number of actions that returned an error.",
		}, []string{"action"}),
		downloadWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_wait_seconds",
			Help:      "Time spent waiting for downloads to finish.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
	if reg != nil {
		for _, col := range []prometheus.Collector{c.attempts, c.exhausted, c.errors, c.downloadWait} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Collector) Attempt(action string) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(action).Inc()
}

func (c *Collector) Exhausted(action string) {
	if c == nil {
		return
	}
	c.exhausted.WithLabelValues(action).Inc()
}

func (c *Collector) Error(action string) {
	if c == nil {
		return
	}
	c.errors.WithLabelValues(action).Inc()
}

func (c *Collector) ObserveDownloadWait(d time.Duration) {
	if c == nil {
		return
	}
	c.downloadWait.Observe(d.Seconds())
}
