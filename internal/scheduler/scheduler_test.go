package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SpecFromInterval(t *testing.T) {
	s := New(nil, 6)
	assert.Equal(t, "@every 6h", s.spec)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("RESCORE_INTERVAL_HOURS", "12")
	assert.Equal(t, "@every 12h", NewFromEnv(nil).spec)

	t.Setenv("RESCORE_INTERVAL_HOURS", "")
	assert.Equal(t, "@every 24h", NewFromEnv(nil).spec)

	t.Setenv("RESCORE_INTERVAL_HOURS", "-3")
	assert.Equal(t, "@every 24h", NewFromEnv(nil).spec)

	t.Setenv("RESCORE_INTERVAL_HOURS", "not-a-number")
	assert.Equal(t, "@every 24h", NewFromEnv(nil).spec)
}
