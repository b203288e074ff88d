package booking

import (
	"strings"
	"sync"
)

// Ledger は現在有効な予約の台帳
// 予約の存在に関する唯一の情報源であり、挿入順を保持する
// 座席状態との整合は予約エンジンが両者を同一クリティカルセクションで更新することで保たれる
type Ledger struct {
	mu       sync.RWMutex
	bookings []*Booking
	byID     map[string]*Booking
}

// NewLedger は予約一覧から台帳を構築する
func NewLedger(bookings []*Booking) (*Ledger, error) {
	l := &Ledger{
		bookings: make([]*Booking, 0, len(bookings)),
		byID:     make(map[string]*Booking, len(bookings)),
	}
	for _, b := range bookings {
		if err := l.Append(b); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Append は予約を台帳の末尾に追加する
func (l *Ledger) Append(b *Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byID[b.ID]; ok {
		return ErrBookingAlreadyExists
	}
	l.bookings = append(l.bookings, b)
	l.byID[b.ID] = b
	return nil
}

// Remove は予約を台帳から削除し、削除した予約と台帳上の位置を返す
// 位置は Restore で元の並びに戻すために使う
func (l *Ledger) Remove(id string) (*Booking, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.byID[id]
	if !ok {
		return nil, 0, ErrBookingNotFound
	}
	delete(l.byID, id)
	pos := 0
	for i, cur := range l.bookings {
		if cur.ID == id {
			pos = i
			l.bookings = append(l.bookings[:i], l.bookings[i+1:]...)
			break
		}
	}
	return b, pos, nil
}

// Restore は削除した予約を元の位置へ戻す
// 台帳の並びは作成順を表すため、末尾への再追加ではなく位置を保って挿入する
func (l *Ledger) Restore(b *Booking, pos int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byID[b.ID]; ok {
		return ErrBookingAlreadyExists
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.bookings) {
		pos = len(l.bookings)
	}
	l.bookings = append(l.bookings, nil)
	copy(l.bookings[pos+1:], l.bookings[pos:])
	l.bookings[pos] = b
	l.byID[b.ID] = b
	return nil
}

// Find は予約IDから予約を取得する
func (l *Ledger) Find(id string) (*Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.byID[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// ListByCustomer は顧客名の部分一致（大文字小文字を区別しない）で予約を絞り込む
// フィルタが空の場合は全予約を挿入順で返す
func (l *Ledger) ListByCustomer(filter string) []*Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if filter == "" {
		out := make([]*Booking, len(l.bookings))
		copy(out, l.bookings)
		return out
	}
	needle := strings.ToLower(filter)
	out := make([]*Booking, 0)
	for _, b := range l.bookings {
		if strings.Contains(strings.ToLower(b.CustomerName), needle) {
			out = append(out, b)
		}
	}
	return out
}

// List は全予約のスナップショットを挿入順で返す
func (l *Ledger) List() []*Booking {
	return l.ListByCustomer("")
}

// Len は台帳上の予約件数を返す
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bookings)
}
