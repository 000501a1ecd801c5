package metrics_test

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoba/remindbot/internal/metrics"
)

func TestPrometheusRecorderCounts(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	rec.CountDispatch("sent")
	rec.CountDispatch("sent")
	rec.CountDispatch("disabled")
	rec.ObserveSendDuration(250 * time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	counter, err := testutil.GatherAndCount(reg, "remindbot_dispatch_total")
	require.NoError(t, err)
	assert.Equal(t, 2, counter) // two label values observed
}

func TestNoopRecorderIsSafe(t *testing.T) {
	t.Parallel()

	var rec metrics.NoopRecorder
	rec.CountDispatch("sent")
	rec.ObserveSendDuration(time.Second)
}
