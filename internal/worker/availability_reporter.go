package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	redisinfra "github.com/sanosuguru/go-cinema-seat-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/metrics"
)

// AvailabilityReporter は上映回ごとの空席・予約済み座席数を定期的に集計するワーカー
// メトリクスのゲージを更新し、Redisキャッシュが有効な場合は空席数を温める
// 読み取り専用であり、座席状態や台帳には一切手を触れない
type AvailabilityReporter struct {
	catalog  *program.Catalog
	metrics  *metrics.Metrics
	cache    *redisinfra.AvailabilityCache
	interval time.Duration
	cacheTTL time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAvailabilityReporter は新しいレポーターを作成
// metrics と cache はどちらも任意（nilの場合はその出力先をスキップ）
func NewAvailabilityReporter(
	catalog *program.Catalog,
	m *metrics.Metrics,
	cache *redisinfra.AvailabilityCache,
	interval time.Duration,
) *AvailabilityReporter {
	return &AvailabilityReporter{
		catalog:  catalog,
		metrics:  m,
		cache:    cache,
		interval: interval,
		cacheTTL: interval * 2,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はレポーターを開始
func (r *AvailabilityReporter) Start(ctx context.Context) {
	logger.Info("空席集計レポーター開始", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	// 起動直後に1回集計しておく
	r.report(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("空席集計レポーター停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("空席集計レポーター停止（シグナル受信）")
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

// Stop はレポーターを停止
func (r *AvailabilityReporter) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// report は全上映回の座席数を集計する
func (r *AvailabilityReporter) report(ctx context.Context) {
	for _, p := range r.catalog.Programs() {
		for _, sh := range p.Showings {
			available := sh.CountAvailable()
			booked := sh.SeatCount() - available

			if r.metrics != nil {
				r.metrics.AvailableSeats.WithLabelValues(sh.ID).Set(float64(available))
				r.metrics.BookedSeats.WithLabelValues(sh.ID).Set(float64(booked))
			}
			if r.cache != nil {
				if err := r.cache.SetAvailableCount(ctx, sh.ID, available, r.cacheTTL); err != nil {
					logger.Warn("空席数キャッシュの更新に失敗", zap.String("showing_id", sh.ID), zap.Error(err))
				}
			}
		}
	}
}
