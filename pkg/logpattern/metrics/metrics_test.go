package metrics

import (
	"testing"

	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllCollectors(t *testing.T) {
	c := New()
	c.LinesParsed.Inc()
	c.CacheHits.Add(3)

	families, err := c.Registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
}

func TestWindowTimestamp(t *testing.T) {
	ts := model.TimeFromUnix(1705315800)
	assert.Equal(t, int64(1705315800), WindowTimestamp(ts))
}
