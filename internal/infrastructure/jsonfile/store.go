package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/storage"
)

const (
	catalogFile = "catalog.json"
	ledgerFile  = "ledger.json"
)

// Store はJSONファイルを永続化先とするストア
// 書き込みは一時ファイルへの書き出しとrenameによる差し替えで行い、
// 途中失敗で既存ファイルが壊れないようにする
type Store struct {
	dir string
}

// NewStore は指定ディレクトリ配下にJSONファイルストアを作成する
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("データディレクトリ作成に失敗: %w", err)
	}
	return &Store{dir: dir}, nil
}

type seatRow struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type showingRow struct {
	ID      string    `json:"id"`
	StartAt time.Time `json:"start_at"`
	Seats   []seatRow `json:"seats"`
}

type programRow struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Showings []showingRow `json:"showings"`
}

type catalogDoc struct {
	Programs []programRow `json:"programs"`
}

type bookingRow struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	ShowingID    string    `json:"showing_id"`
	SeatIDs      []string  `json:"seat_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

type ledgerDoc struct {
	Bookings []bookingRow `json:"bookings"`
}

func toProgramRow(p *program.Program) programRow {
	row := programRow{ID: p.ID, Title: p.Title, Showings: make([]showingRow, 0, len(p.Showings))}
	for _, sh := range p.Showings {
		seats := sh.Seats()
		sr := showingRow{ID: sh.ID, StartAt: sh.StartAt, Seats: make([]seatRow, 0, len(seats))}
		for _, se := range seats {
			sr.Seats = append(sr.Seats, seatRow{ID: se.ID, Status: string(se.Status)})
		}
		row.Showings = append(row.Showings, sr)
	}
	return row
}

func (r programRow) toEntity() (*program.Program, error) {
	showings := make([]*program.Showing, 0, len(r.Showings))
	for _, sr := range r.Showings {
		seats := make([]*program.Seat, 0, len(sr.Seats))
		for _, se := range sr.Seats {
			seats = append(seats, &program.Seat{ID: se.ID, Status: program.SeatStatus(se.Status)})
		}
		sh, err := program.NewShowing(sr.ID, sr.StartAt, seats)
		if err != nil {
			return nil, err
		}
		showings = append(showings, sh)
	}
	return program.NewProgram(r.ID, r.Title, showings)
}

// LoadCatalog は作品・上映回・座席をファイルから読み込む
// ファイルが存在しない場合は空のカタログを返す
func (s *Store) LoadCatalog(ctx context.Context) ([]*program.Program, error) {
	var doc catalogDoc
	ok, err := s.readDoc(catalogFile, &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	programs := make([]*program.Program, 0, len(doc.Programs))
	for _, row := range doc.Programs {
		p, err := row.toEntity()
		if err != nil {
			return nil, fmt.Errorf("カタログの復元に失敗: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, nil
}

// SaveCatalog は作品・上映回・座席の全体をファイルへ保存する
func (s *Store) SaveCatalog(ctx context.Context, programs []*program.Program) error {
	doc := catalogDoc{Programs: make([]programRow, 0, len(programs))}
	for _, p := range programs {
		doc.Programs = append(doc.Programs, toProgramRow(p))
	}
	return s.writeDoc(catalogFile, doc)
}

// LoadLedger は予約台帳をファイルから読み込む
// ファイルが存在しない場合は空の台帳を返す
func (s *Store) LoadLedger(ctx context.Context) ([]*booking.Booking, error) {
	var doc ledgerDoc
	ok, err := s.readDoc(ledgerFile, &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	bookings := make([]*booking.Booking, 0, len(doc.Bookings))
	for _, row := range doc.Bookings {
		bookings = append(bookings, &booking.Booking{
			ID:           row.ID,
			CustomerName: row.CustomerName,
			ShowingID:    row.ShowingID,
			SeatIDs:      row.SeatIDs,
			CreatedAt:    row.CreatedAt,
		})
	}
	return bookings, nil
}

// SaveLedger は予約台帳の全体をファイルへ保存する
func (s *Store) SaveLedger(ctx context.Context, bookings []*booking.Booking) error {
	doc := ledgerDoc{Bookings: make([]bookingRow, 0, len(bookings))}
	for _, b := range bookings {
		doc.Bookings = append(doc.Bookings, bookingRow{
			ID:           b.ID,
			CustomerName: b.CustomerName,
			ShowingID:    b.ShowingID,
			SeatIDs:      b.SeatIDs,
			CreatedAt:    b.CreatedAt,
		})
	}
	return s.writeDoc(ledgerFile, doc)
}

// SeedIfEmpty はカタログファイルが存在しない場合に既定のカタログを投入する
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(s.dir, catalogFile)); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("カタログファイルの確認に失敗: %w", err)
	}
	programs, err := storage.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("初期カタログ生成に失敗: %w", err)
	}
	if err := s.SaveCatalog(ctx, programs); err != nil {
		return err
	}
	return s.SaveLedger(ctx, nil)
}

// readDoc はJSONドキュメントを読み込む
// ファイルが存在しない場合は (false, nil) を返す
func (s *Store) readDoc(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%s の読み込みに失敗: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%s の解析に失敗: %w", name, err)
	}
	return true, nil
}

// writeDoc はJSONドキュメントをアトミックに書き込む
func (s *Store) writeDoc(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%s のシリアライズに失敗: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("一時ファイル作成に失敗: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s の書き込みに失敗: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s の書き込みに失敗: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s の差し替えに失敗: %w", name, err)
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
