// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metertable provides a table decorator that records prometheus
// metrics.
package metertable

import (
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/table"
)

var (
	_ table.Table[struct{}, struct{}] = (*Table[struct{}, struct{}])(nil)
	_ table.Persister                 = (*Table[struct{}, struct{}])(nil)
	_ table.Sizer                     = (*Table[struct{}, struct{}])(nil)
)

// Table wraps a table.Table with metrics. Like the tables it wraps, it is not
// safe for concurrent use.
type Table[K comparable, V any] struct {
	table.Table[K, V]
	metrics *tableMetrics
}

// New creates a new metered table wrapper.
func New[K comparable, V any](
	namespace string,
	registry metric.Registerer,
	t table.Table[K, V],
) (*Table[K, V], error) {
	metrics, err := newMetrics(namespace, registry)
	m := &Table[K, V]{
		Table:   t,
		metrics: metrics,
	}
	m.updateLen()
	return m, err
}

func (t *Table[K, V]) Set(key K, value V) (V, bool) {
	start := time.Now()
	prev, had := t.Table.Set(key, value)
	setDuration := time.Since(start)

	t.metrics.setCount.Inc()
	t.metrics.setTime.Add(float64(setDuration))
	t.updateLen()
	return prev, had
}

func (t *Table[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	value, has := t.Table.Get(key)
	getDuration := time.Since(start)

	if has {
		t.metrics.getCount.With(hitLabels).Inc()
		t.metrics.getTime.With(hitLabels).Add(float64(getDuration))
	} else {
		t.metrics.getCount.With(missLabels).Inc()
		t.metrics.getTime.With(missLabels).Add(float64(getDuration))
	}
	// A get may load a record into memory.
	t.updateLen()
	return value, has
}

func (t *Table[K, V]) Remove(key K) (V, bool) {
	prev, had := t.Table.Remove(key)
	if had {
		t.metrics.removeCount.With(hitLabels).Inc()
	} else {
		t.metrics.removeCount.With(missLabels).Inc()
	}
	t.updateLen()
	return prev, had
}

// Persist flushes the wrapped table if it is a table.Persister.
func (t *Table[K, V]) Persist() error {
	p, ok := t.Table.(table.Persister)
	if !ok {
		return nil
	}

	start := time.Now()
	err := p.Persist()
	t.metrics.persistTime.Add(float64(time.Since(start)))
	if err != nil {
		t.metrics.persistCount.With(errLabels).Inc()
		return err
	}
	t.metrics.persistCount.With(okLabels).Inc()
	return nil
}

// Len returns the wrapped table's in-memory size, or 0 if it does not report
// one.
func (t *Table[K, V]) Len() int {
	if s, ok := t.Table.(table.Sizer); ok {
		return s.Len()
	}
	return 0
}

func (t *Table[_, _]) updateLen() {
	t.metrics.len.Set(float64(t.Len()))
}
