package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	redisinfra "github.com/sanosuguru/go-cinema-seat-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/logger"
)

const (
	availabilityCacheTTL = 30 * time.Second
)

// CatalogService はカタログの読み取りパスを提供する
// 座席状態の読み取りは予約エンジンのロックを取らないため、結果整合のスナップショットになる
type CatalogService struct {
	catalog *program.Catalog
	cache   *redisinfra.AvailabilityCache
}

// NewCatalogService は新しいCatalogServiceを作成する
// cache は任意（nilの場合はキャッシュを使わない）
func NewCatalogService(catalog *program.Catalog, cache *redisinfra.AvailabilityCache) *CatalogService {
	return &CatalogService{catalog: catalog, cache: cache}
}

// ListPrograms は作品一覧を登録順で返す
func (s *CatalogService) ListPrograms(ctx context.Context) ([]*program.Program, error) {
	return s.catalog.Programs(), nil
}

// GetShowingSeats は上映回の座席マップを親作品とともに返す
func (s *CatalogService) GetShowingSeats(ctx context.Context, showingID string) (*program.Program, *program.Showing, error) {
	return s.catalog.FindShowing(showingID)
}

// CountAvailableSeats は上映回の空席数を返す
// キャッシュヒット時はキャッシュ値を、ミス時は座席マップから数えてキャッシュを温める
func (s *CatalogService) CountAvailableSeats(ctx context.Context, showingID string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, showingID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("showing_id", showingID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	_, showing, err := s.catalog.FindShowing(showingID)
	if err != nil {
		return 0, err
	}
	count := showing.CountAvailable()

	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, showingID, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return count, nil
}
