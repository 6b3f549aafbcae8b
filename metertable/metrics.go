// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metertable

import (
	"errors"

	"github.com/luxfi/metric"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultLabel = "result"
	hitResult   = "hit"
	missResult  = "miss"
	okResult    = "success"
	errResult   = "failure"
)

var (
	resultLabels = []string{resultLabel}
	hitLabels    = prometheus.Labels{resultLabel: hitResult}
	missLabels   = prometheus.Labels{resultLabel: missResult}
	okLabels     = prometheus.Labels{resultLabel: okResult}
	errLabels    = prometheus.Labels{resultLabel: errResult}
)

type tableMetrics struct {
	getCount *prometheus.CounterVec
	getTime  *prometheus.CounterVec

	setCount prometheus.Counter
	setTime  prometheus.Counter

	removeCount *prometheus.CounterVec

	persistCount *prometheus.CounterVec
	persistTime  prometheus.Counter

	len prometheus.Gauge
}

func newMetrics(namespace string, reg metric.Registerer) (*tableMetrics, error) {
	m := &tableMetrics{
		getCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "get_count",
				Help:      "number of get calls",
			},
			resultLabels,
		),
		getTime: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "get_time",
				Help:      "time spent (ns) in get calls",
			},
			resultLabels,
		),
		setCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "set_count",
			Help:      "number of set calls",
		}),
		setTime: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "set_time",
			Help:      "time spent (ns) in set calls",
		}),
		removeCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remove_count",
				Help:      "number of remove calls",
			},
			resultLabels,
		),
		persistCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_count",
				Help:      "number of persist calls",
			},
			resultLabels,
		),
		persistTime: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_time",
			Help:      "time spent (ns) in persist calls",
		}),
		len: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "len",
			Help:      "number of entries held in memory",
		}),
	}
	return m, errors.Join(
		reg.Register(m.getCount),
		reg.Register(m.getTime),
		reg.Register(m.setCount),
		reg.Register(m.setTime),
		reg.Register(m.removeCount),
		reg.Register(m.persistCount),
		reg.Register(m.persistTime),
		reg.Register(m.len),
	)
}
