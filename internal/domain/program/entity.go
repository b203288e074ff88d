package program

import (
	"fmt"
	"sync"
	"time"
)

// SeatStatus は座席の状態を表す
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
)

// Seat は1上映回の座席を表す
// 座席IDは上映回の中で一意である
type Seat struct {
	ID     string
	Status SeatStatus
}

// NewSeats は prefix-連番 形式の座席を count 席分生成する
func NewSeats(prefix string, count int) []*Seat {
	seats := make([]*Seat, 0, count)
	for i := 1; i <= count; i++ {
		seats = append(seats, &Seat{
			ID:     fmt.Sprintf("%s%d", prefix, i),
			Status: SeatAvailable,
		})
	}
	return seats
}

// Showing は上映回エンティティを表す
// 座席マップは作成時に固定され、以降増減しない
type Showing struct {
	ID      string
	StartAt time.Time

	// mu は座席状態を保護する
	// 予約エンジンの上映回ロックとは独立に、読み取りパスのスナップショット整合を担う
	mu    sync.RWMutex
	seats []*Seat
	index map[string]*Seat
}

// NewShowing は新しい上映回を作成する
func NewShowing(id string, startAt time.Time, seats []*Seat) (*Showing, error) {
	if id == "" {
		return nil, ErrShowingIDRequired
	}
	if len(seats) == 0 {
		return nil, ErrSeatsRequired
	}
	index := make(map[string]*Seat, len(seats))
	for _, se := range seats {
		if se.ID == "" {
			return nil, ErrSeatIDRequired
		}
		if _, ok := index[se.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeat, se.ID)
		}
		index[se.ID] = se
	}
	return &Showing{ID: id, StartAt: startAt, seats: seats, index: index}, nil
}

// Seats は座席の現在状態のコピーを座席順で返す
func (s *Showing) Seats() []Seat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Seat, len(s.seats))
	for i, se := range s.seats {
		out[i] = *se
	}
	return out
}

// SeatCount は座席数を返す
func (s *Showing) SeatCount() int {
	return len(s.seats)
}

// CountAvailable は予約可能な座席数を返す
func (s *Showing) CountAvailable() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, se := range s.seats {
		if se.Status == SeatAvailable {
			count++
		}
	}
	return count
}

// SeatsStatus は指定座席の状態を返す
// 存在しない座席IDが含まれる場合は ErrSeatNotFound を返す
func (s *Showing) SeatsStatus(seatIDs []string) (map[string]SeatStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	statuses := make(map[string]SeatStatus, len(seatIDs))
	for _, id := range seatIDs {
		se, ok := s.index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSeatNotFound, id)
		}
		statuses[id] = se.Status
	}
	return statuses, nil
}

// AreAllAvailable は指定座席がすべて存在し、かつ予約可能かを返す
func (s *Showing) AreAllAvailable(seatIDs []string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range seatIDs {
		se, ok := s.index[id]
		if !ok || se.Status != SeatAvailable {
			return false
		}
	}
	return true
}

// Unavailable は指定座席のうち予約できないものをリクエスト順で返す
// 存在しない座席IDも予約不可として扱う
func (s *Showing) Unavailable(seatIDs []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var unavailable []string
	for _, id := range seatIDs {
		se, ok := s.index[id]
		if !ok || se.Status != SeatAvailable {
			unavailable = append(unavailable, id)
		}
	}
	return unavailable
}

// Transition は指定座席の状態を一括で変更する
// 事前条件の検証は呼び出し側（予約エンジン）の責務であり、ここでは行わない
// 存在しない座席IDは変更をスキップし、そのID一覧を返す
func (s *Showing) Transition(seatIDs []string, status SeatStatus) (missing []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range seatIDs {
		se, ok := s.index[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		se.Status = status
	}
	return missing
}

// Program は作品エンティティを表す
// 上映回を専有し、上映回は必ず1つの作品に属する
type Program struct {
	ID       string
	Title    string
	Showings []*Showing
}

// NewProgram は新しい作品を作成する
func NewProgram(id, title string, showings []*Showing) (*Program, error) {
	if id == "" {
		return nil, ErrProgramIDRequired
	}
	if title == "" {
		return nil, ErrTitleRequired
	}
	return &Program{ID: id, Title: title, Showings: showings}, nil
}
