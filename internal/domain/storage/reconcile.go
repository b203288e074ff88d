package storage

import (
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/logger"
)

// Reconcile は予約台帳を正として座席状態を再導出する
// カタログと台帳は別ドキュメントとして保存されるため、保存の合間に障害が起きると
// 両者の示す座席状態がずれうる。起動時に全座席をいったん空席へ戻し、
// 台帳上の予約が占める座席だけを確保済みへ遷移させることでずれを解消する
func Reconcile(catalog *program.Catalog, ledger *booking.Ledger) {
	for _, p := range catalog.Programs() {
		for _, sh := range p.Showings {
			seats := sh.Seats()
			ids := make([]string, 0, len(seats))
			for _, se := range seats {
				ids = append(ids, se.ID)
			}
			sh.Transition(ids, program.SeatAvailable)
		}
	}

	for _, b := range ledger.List() {
		_, sh, err := catalog.FindShowing(b.ShowingID)
		if err != nil {
			logger.Warn("台帳の予約がカタログに存在しない上映回を参照している",
				zap.String("booking_id", b.ID),
				zap.String("showing_id", b.ShowingID))
			continue
		}
		if missing := sh.Transition(b.SeatIDs, program.SeatBooked); len(missing) > 0 {
			logger.Warn("台帳の予約がカタログに存在しない座席を参照している",
				zap.String("booking_id", b.ID),
				zap.Strings("seat_ids", missing))
		}
	}
}
