package worker

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/metrics"
)

func newTestCatalog(t *testing.T) *program.Catalog {
	t.Helper()
	startAt := time.Now().Add(24 * time.Hour)
	sh, err := program.NewShowing("showing-1", startAt, program.NewSeats("A", 6))
	require.NoError(t, err)
	sh.Transition([]string{"A1", "A2"}, program.SeatBooked)
	p, err := program.NewProgram("program-1", "テスト上映作品", []*program.Showing{sh})
	require.NoError(t, err)
	catalog, err := program.NewCatalog([]*program.Program{p})
	require.NoError(t, err)
	return catalog
}

func TestNewAvailabilityReporter(t *testing.T) {
	catalog := newTestCatalog(t)
	interval := 15 * time.Second

	reporter := NewAvailabilityReporter(catalog, nil, nil, interval)

	assert.NotNil(t, reporter)
	assert.Equal(t, interval, reporter.interval)
	assert.Equal(t, 2*interval, reporter.cacheTTL)
	assert.NotNil(t, reporter.stopCh)
	assert.NotNil(t, reporter.doneCh)
}

func TestAvailabilityReporter_StopChannels(t *testing.T) {
	reporter := NewAvailabilityReporter(newTestCatalog(t), nil, nil, time.Second)

	// チャンネルが初期化されていることを確認
	assert.NotNil(t, reporter.stopCh)
	assert.NotNil(t, reporter.doneCh)

	// チャンネルがブロッキングされていないことを確認
	select {
	case <-reporter.stopCh:
		t.Fatal("stopCh should not be closed initially")
	default:
		// 期待通り
	}
}

func TestAvailabilityReporter_Report(t *testing.T) {
	t.Run("座席ゲージが更新される", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.NewWithRegistry(reg)
		reporter := NewAvailabilityReporter(newTestCatalog(t), m, nil, time.Second)

		reporter.report(context.Background())

		families, err := reg.Gather()
		require.NoError(t, err)

		values := map[string]float64{}
		for _, f := range families {
			for _, metric := range f.GetMetric() {
				values[f.GetName()] = metric.GetGauge().GetValue()
			}
		}
		assert.Equal(t, float64(4), values["available_seats"])
		assert.Equal(t, float64(2), values["booked_seats"])
	})

	t.Run("メトリクスもキャッシュもない場合は何もしない", func(t *testing.T) {
		reporter := NewAvailabilityReporter(newTestCatalog(t), nil, nil, time.Second)

		assert.NotPanics(t, func() {
			reporter.report(context.Background())
		})
	})
}

func TestAvailabilityReporter_StartStop(t *testing.T) {
	reporter := NewAvailabilityReporter(newTestCatalog(t), nil, nil, 10*time.Millisecond)

	go reporter.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	reporter.Stop()

	// Stop後はdoneChがクローズされている
	select {
	case <-reporter.doneCh:
		// 期待通り
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop")
	}
}
