package cache

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/cc-tundra/logpattern/pkg/logpattern/clustering"
	"github.com/cc-tundra/logpattern/pkg/logpattern/pattern"
	"github.com/cc-tundra/logpattern/pkg/logpattern/tokenizer"
)

func learnOne(line string) *pattern.Set {
	members := []clustering.Member{{Tokens: tokenizer.Tokenize(line), Raw: line}}
	clusters := clustering.ClusterByExactSignature(members)
	ps := pattern.New()
	for _, c := range clusters {
		ps.Add(pattern.Synthesize(c))
	}
	return ps
}

func TestCacheMatch(t *testing.T) {
	ps := learnOne("2024-01-15 INFO message")
	c := New(ps)

	p, fields := c.Match("2024-01-15 INFO message")
	assert.NotNil(t, p)
	assert.NotNil(t, fields)
}

func TestCacheNoMatch(t *testing.T) {
	ps := learnOne("2024-01-15 INFO message")
	c := New(ps)

	p, fields := c.Match("completely different format")
	assert.Nil(t, p)
	assert.Nil(t, fields)
}

func TestCacheWithMetricsObservesHitsAndMisses(t *testing.T) {
	ps := learnOne("2024-01-15 INFO message")
	c := New(ps)

	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_hits"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_misses"})
	c.WithMetrics(hits, misses)

	c.Match("2024-01-15 INFO message")
	c.Match("nope")

	assert.Equal(t, 1.0, testutil.ToFloat64(hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(misses))
}
