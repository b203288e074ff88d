package program

import "errors"

// Program ドメインのエラー定義
var (
	ErrProgramNotFound   = errors.New("作品が見つかりません")
	ErrShowingNotFound   = errors.New("上映回が見つかりません")
	ErrSeatNotFound      = errors.New("座席が見つかりません")
	ErrProgramIDRequired = errors.New("作品IDは必須です")
	ErrShowingIDRequired = errors.New("上映回IDは必須です")
	ErrSeatIDRequired    = errors.New("座席IDは必須です")
	ErrTitleRequired     = errors.New("タイトルは必須です")
	ErrSeatsRequired     = errors.New("座席は1席以上必要です")
	ErrDuplicateSeat     = errors.New("座席IDが重複しています")
	ErrDuplicateShowing  = errors.New("上映回IDが重複しています")
)
