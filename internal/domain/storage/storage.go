package storage

import (
	"context"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
)

// Store は永続化コラボレーターのインターフェース
// ドメイン層がインフラ層（ファイル・RDB等）に依存しないようにするための抽象化であり、
// 予約エンジンはどの実装に対しても同一に動作する
type Store interface {
	// LoadCatalog は永続化された作品・上映回・座席を読み込む
	LoadCatalog(ctx context.Context) ([]*program.Program, error)

	// SaveCatalog は作品・上映回・座席の全体を保存する
	SaveCatalog(ctx context.Context, programs []*program.Program) error

	// LoadLedger は永続化された予約台帳を読み込む
	LoadLedger(ctx context.Context) ([]*booking.Booking, error)

	// SaveLedger は予約台帳の全体を保存する
	SaveLedger(ctx context.Context, bookings []*booking.Booking) error

	// SeedIfEmpty は永続化済み状態が存在しない場合に既定のカタログを投入する
	SeedIfEmpty(ctx context.Context) error
}
