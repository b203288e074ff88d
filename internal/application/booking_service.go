package application

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/storage"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/metrics"
)

// BookingService は座席状態と予約台帳を更新する唯一のコンポーネント
//
// 同一上映回に対する予約・キャンセルは上映回ロックで直列化され、
// 空席確認・座席遷移・台帳更新・永続化を1つのクリティカルセクションとして実行する
// 異なる上映回の操作は互いにブロックしない
type BookingService struct {
	catalog *program.Catalog
	ledger  *booking.Ledger
	store   storage.Store
	locks   *showingLocks
	metrics *metrics.Metrics

	// persistMu は保存処理を直列化する
	// スナップショットは保存の直前に取得するため、古い状態が新しい状態を上書きすることはない
	persistMu sync.Mutex
}

// NewBookingService は新しいBookingServiceを作成する
// metrics は任意（nilの場合は記録しない）
func NewBookingService(catalog *program.Catalog, ledger *booking.Ledger, store storage.Store, m *metrics.Metrics) *BookingService {
	return &BookingService{
		catalog: catalog,
		ledger:  ledger,
		store:   store,
		locks:   newShowingLocks(),
		metrics: m,
	}
}

// CreateBookingInput は予約作成の入力
type CreateBookingInput struct {
	CustomerName string
	ShowingID    string
	SeatIDs      []string
}

// CreateBooking は予約を作成する
//
// 指定座席のいずれかが予約できない場合は SeatsUnavailableError を返し、
// 座席状態は一切変更しない。成功時は全座席を booked に遷移し台帳へ追記したうえで
// 永続化まで完了させる。永続化に失敗した場合はメモリ上の変更を巻き戻してから失敗を報告する
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*booking.Booking, error) {
	b := booking.NewBooking(input.CustomerName, input.ShowingID, input.SeatIDs)
	if err := b.Validate(); err != nil {
		s.record("create", "invalid")
		return nil, err
	}

	_, showing, err := s.catalog.FindShowing(input.ShowingID)
	if err != nil {
		s.record("create", "not_found")
		return nil, err
	}

	unlock := s.locks.lock(showing.ID)
	defer unlock()

	// 空席確認と座席遷移は同一ロック内で行うため、確認時点の状態がそのまま遷移の前提になる
	if unavailable := showing.Unavailable(b.SeatIDs); len(unavailable) > 0 {
		s.record("create", "conflict")
		return nil, &booking.SeatsUnavailableError{Seats: unavailable}
	}

	showing.Transition(b.SeatIDs, program.SeatBooked)
	if err := s.ledger.Append(b); err != nil {
		showing.Transition(b.SeatIDs, program.SeatAvailable)
		s.record("create", "error")
		return nil, err
	}

	if err := s.persist(ctx); err != nil {
		// ロールバックしてから失敗を報告する
		s.ledger.Remove(b.ID)
		showing.Transition(b.SeatIDs, program.SeatAvailable)
		s.record("create", "error")
		return nil, fmt.Errorf("永続化に失敗: %w", err)
	}

	s.record("create", "success")
	logger.Info("予約を作成",
		zap.String("booking_id", b.ID),
		zap.String("showing_id", b.ShowingID),
		zap.Strings("seat_ids", b.SeatIDs),
	)
	return b, nil
}

// CancelBooking は予約をキャンセルし、座席を解放する
//
// 台帳からの削除が主であり、上映回や座席が解決できない場合（データ欠損）でも
// キャンセル自体は成立させ、復元できない座席は警告ログを残してスキップする
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := s.ledger.Find(id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(b.ShowingID)
	defer unlock()

	// ロック取得待ちの間に先行リクエストがキャンセル済みの可能性があるため取り直す
	b, pos, err := s.ledger.Remove(id)
	if err != nil {
		return nil, err
	}

	_, showing, findErr := s.catalog.FindShowing(b.ShowingID)
	if findErr != nil {
		logger.Warn("キャンセル対象の上映回が見つからないため座席復元をスキップ",
			zap.String("booking_id", b.ID),
			zap.String("showing_id", b.ShowingID),
		)
	} else if missing := showing.Transition(b.SeatIDs, program.SeatAvailable); len(missing) > 0 {
		logger.Warn("座席マップに存在しない座席の復元をスキップ",
			zap.String("booking_id", b.ID),
			zap.Strings("seat_ids", missing),
		)
	}

	if err := s.persist(ctx); err != nil {
		// ロールバック: 座席を確保し直し、予約を台帳の元の位置へ戻す
		if findErr == nil {
			showing.Transition(b.SeatIDs, program.SeatBooked)
		}
		s.ledger.Restore(b, pos)
		s.record("cancel", "error")
		return nil, fmt.Errorf("永続化に失敗: %w", err)
	}

	s.record("cancel", "success")
	logger.Info("予約をキャンセル",
		zap.String("booking_id", b.ID),
		zap.String("showing_id", b.ShowingID),
	)
	return b, nil
}

// ListBookings は予約一覧を挿入順で返す
// customerFilter が空でない場合は顧客名の部分一致（大文字小文字を区別しない）で絞り込む
func (s *BookingService) ListBookings(ctx context.Context, customerFilter string) ([]*booking.Booking, error) {
	return s.ledger.ListByCustomer(customerFilter), nil
}

// persist は座席状態と予約台帳を保存する
// 2つのドキュメントは同一瞬間のスナップショットとは限らない
// 正は台帳であり、読み込み時に storage.Reconcile が座席状態を台帳から再導出する
func (s *BookingService) persist(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.store.SaveCatalog(ctx, s.catalog.Programs()); err != nil {
		return err
	}
	return s.store.SaveLedger(ctx, s.ledger.List())
}

func (s *BookingService) record(operation, status string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(operation, status).Inc()
	}
}
