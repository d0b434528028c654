package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.CacheWriteFailures.Inc()
	a.ScrapesTotal.WithLabelValues("static", "success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.CacheWriteFailures))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheWriteFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.ScrapesTotal.WithLabelValues("static", "success")))
}
