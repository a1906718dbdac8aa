package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expediter/internal/kds"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.CommandProcessed("bump", kds.Applied)
	c.CommandProcessed("bump", kds.Applied)
	c.CommandProcessed("recall", kds.NotFound)
	c.OrderCompleted(4 * time.Minute)
	c.BoardGauges(5, 2, 1)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.commandsTotal.WithLabelValues("bump", "applied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.commandsTotal.WithLabelValues("recall", "not_found")))
	assert.Equal(t, float64(5), testutil.ToFloat64(c.ordersActive))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.ordersArchived))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.stockedOut))

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["expediter_commands_total"])
	assert.True(t, names["expediter_order_completion_seconds"])
}

func TestCollectorImplementsMetrics(t *testing.T) {
	var _ kds.Metrics = NewCollector()
}
