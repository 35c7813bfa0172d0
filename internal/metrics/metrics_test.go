package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("perfmap", reg)

	c.RecordFetch("http", nil, 10*time.Millisecond)
	c.RecordFetch("http", errors.New("boom"), time.Millisecond)
	c.RecordFetch("http", nil, time.Millisecond)
	c.RecordCacheHit()
	c.RecordCacheMiss()
	c.RecordCacheMiss()
	c.RecordMalformedFeatures(2)
	c.RecordMalformedFeatures(0)
	c.SetLoadedPerformances(42)
	c.RecordAPIRequest("/api/map", "GET", "200", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.FetchTotal.WithLabelValues("http", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FetchTotal.WithLabelValues("http", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHitsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheMissesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.MalformedFeaturesTotal))
	assert.Equal(t, 42.0, testutil.ToFloat64(c.LoadedPerformances))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.APIRequestsTotal.WithLabelValues("/api/map", "GET", "200")))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordFetch("http", nil, time.Second)
		c.RecordCacheHit()
		c.RecordCacheMiss()
		c.RecordMalformedFeatures(1)
		c.SetLoadedPerformances(1)
		c.RecordAPIRequest("/", "GET", "200", time.Second)
	})
}
