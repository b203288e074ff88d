package booking

import (
	"time"

	"github.com/google/uuid"
)

// Booking は予約エンティティを表す
// 作成後は不変であり、許される遷移はキャンセルによる台帳からの削除のみ
type Booking struct {
	ID           string
	CustomerName string
	ShowingID    string
	SeatIDs      []string
	CreatedAt    time.Time
}

// NewBooking は新しい予約を作成する
// IDは台帳の生存期間を通じて一意になるようUUIDで採番する
func NewBooking(customerName, showingID string, seatIDs []string) *Booking {
	ids := make([]string, len(seatIDs))
	copy(ids, seatIDs)
	return &Booking{
		ID:           uuid.New().String(),
		CustomerName: customerName,
		ShowingID:    showingID,
		SeatIDs:      ids,
		CreatedAt:    time.Now(),
	}
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.CustomerName == "" {
		return ErrCustomerNameRequired
	}
	if b.ShowingID == "" {
		return ErrShowingIDRequired
	}
	if len(b.SeatIDs) == 0 {
		return ErrSeatIDsRequired
	}
	seen := make(map[string]struct{}, len(b.SeatIDs))
	for _, id := range b.SeatIDs {
		if id == "" {
			return ErrSeatIDsRequired
		}
		if _, ok := seen[id]; ok {
			return ErrDuplicateSeatIDs
		}
		seen[id] = struct{}{}
	}
	return nil
}
