package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisherDisabledWithEmptyAddr(t *testing.T) {
	pub, err := NewPublisher("", "drift.changes")
	require.NoError(t, err)
	assert.Nil(t, pub)
}

func TestPublishAllNoopOnNilPublisher(t *testing.T) {
	report := &Report{FormatChanges: []FormatChange{{Line: 1, FromPattern: "p_1", ToPattern: "p_2", Confidence: 0.9}}}
	assert.NoError(t, PublishAll(nil, report))
}

func TestCloseNoopOnNilPublisher(t *testing.T) {
	var pub *Publisher
	pub.Close()
}
