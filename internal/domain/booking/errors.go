package booking

import (
	"errors"
	"strings"
)

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound      = errors.New("予約が見つかりません")
	ErrBookingAlreadyExists = errors.New("同じIDの予約が既に存在します")
	ErrCustomerNameRequired = errors.New("顧客名は必須です")
	ErrShowingIDRequired    = errors.New("上映回IDは必須です")
	ErrSeatIDsRequired      = errors.New("座席IDは1つ以上必要です")
	ErrDuplicateSeatIDs     = errors.New("座席IDが重複しています")
)

// SeatsUnavailableError は予約できない座席がある場合のエラー
// 競合した座席ID一覧を保持し、呼び出し側は別の座席を選び直してリトライできる
type SeatsUnavailableError struct {
	Seats []string
}

func (e *SeatsUnavailableError) Error() string {
	return "指定された座席は予約できません: " + strings.Join(e.Seats, ", ")
}

// IsInvalidInput は呼び出し側の入力不備（リトライ不可）によるエラーかを返す
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrCustomerNameRequired) ||
		errors.Is(err, ErrShowingIDRequired) ||
		errors.Is(err, ErrSeatIDsRequired) ||
		errors.Is(err, ErrDuplicateSeatIDs)
}
