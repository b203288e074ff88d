package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/storage"
)

// Store はPostgreSQLを永続化先とするストア
//
// 予約エンジンは全体スナップショットの読み書きしか要求しないため、
// 保存はトランザクション内での全行入れ替えで実装する
// 直列化は呼び出し側（予約エンジンの永続化ロック）が担う
type Store struct {
	db *sqlx.DB
}

// NewStore は新しいPostgreSQLストアを作成する
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type programDBRow struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	Position int    `db:"position"`
}

type showingDBRow struct {
	ID        string    `db:"id"`
	ProgramID string    `db:"program_id"`
	StartAt   time.Time `db:"start_at"`
	Position  int       `db:"position"`
}

type seatDBRow struct {
	ShowingID string `db:"showing_id"`
	ID        string `db:"id"`
	Status    string `db:"status"`
	Position  int    `db:"position"`
}

type bookingDBRow struct {
	ID           string         `db:"id"`
	CustomerName string         `db:"customer_name"`
	ShowingID    string         `db:"showing_id"`
	SeatIDs      pq.StringArray `db:"seat_ids"`
	CreatedAt    time.Time      `db:"created_at"`
	Position     int            `db:"position"`
}

// LoadCatalog は作品・上映回・座席を読み込む
func (s *Store) LoadCatalog(ctx context.Context) ([]*program.Program, error) {
	var programRows []programDBRow
	if err := s.db.SelectContext(ctx, &programRows,
		`SELECT id, title, position FROM programs ORDER BY position`); err != nil {
		return nil, fmt.Errorf("作品の読み込みに失敗: %w", err)
	}

	var showingRows []showingDBRow
	if err := s.db.SelectContext(ctx, &showingRows,
		`SELECT id, program_id, start_at, position FROM showings ORDER BY program_id, position`); err != nil {
		return nil, fmt.Errorf("上映回の読み込みに失敗: %w", err)
	}

	var seatRows []seatDBRow
	if err := s.db.SelectContext(ctx, &seatRows,
		`SELECT showing_id, id, status, position FROM seats ORDER BY showing_id, position`); err != nil {
		return nil, fmt.Errorf("座席の読み込みに失敗: %w", err)
	}

	seatsByShowing := make(map[string][]*program.Seat)
	for _, row := range seatRows {
		seatsByShowing[row.ShowingID] = append(seatsByShowing[row.ShowingID],
			&program.Seat{ID: row.ID, Status: program.SeatStatus(row.Status)})
	}

	showingsByProgram := make(map[string][]*program.Showing)
	for _, row := range showingRows {
		sh, err := program.NewShowing(row.ID, row.StartAt, seatsByShowing[row.ID])
		if err != nil {
			return nil, fmt.Errorf("上映回の復元に失敗: %w", err)
		}
		showingsByProgram[row.ProgramID] = append(showingsByProgram[row.ProgramID], sh)
	}

	programs := make([]*program.Program, 0, len(programRows))
	for _, row := range programRows {
		p, err := program.NewProgram(row.ID, row.Title, showingsByProgram[row.ID])
		if err != nil {
			return nil, fmt.Errorf("作品の復元に失敗: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, nil
}

// SaveCatalog は作品・上映回・座席の全体を保存する
func (s *Store) SaveCatalog(ctx context.Context, programs []*program.Program) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"seats", "showings", "programs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("%s の入れ替えに失敗: %w", table, err)
		}
	}

	for pi, p := range programs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO programs (id, title, position) VALUES ($1, $2, $3)`,
			p.ID, p.Title, pi); err != nil {
			return fmt.Errorf("作品の保存に失敗: %w", err)
		}
		for si, sh := range p.Showings {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO showings (id, program_id, start_at, position) VALUES ($1, $2, $3, $4)`,
				sh.ID, p.ID, sh.StartAt, si); err != nil {
				return fmt.Errorf("上映回の保存に失敗: %w", err)
			}
			if err := insertSeats(ctx, tx, sh.ID, sh.Seats()); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

// insertSeats はマルチバリューINSERTで座席を一括保存する
func insertSeats(ctx context.Context, tx *sqlx.Tx, showingID string, seats []program.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (showing_id, id, status, position) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	placeholders := make([]string, 0, len(seats))
	for i, se := range seats {
		base := i * 4
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4))
		args = append(args, showingID, se.ID, string(se.Status), i)
	}
	query += strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("座席の保存に失敗: %w", err)
	}
	return nil
}

// LoadLedger は予約台帳を読み込む
func (s *Store) LoadLedger(ctx context.Context) ([]*booking.Booking, error) {
	var rows []bookingDBRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, customer_name, showing_id, seat_ids, created_at, position FROM bookings ORDER BY position`); err != nil {
		return nil, fmt.Errorf("予約台帳の読み込みに失敗: %w", err)
	}
	bookings := make([]*booking.Booking, 0, len(rows))
	for _, row := range rows {
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

// SaveLedger は予約台帳の全体を保存する
func (s *Store) SaveLedger(ctx context.Context, bookings []*booking.Booking) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("予約台帳の入れ替えに失敗: %w", err)
	}
	for i, b := range bookings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (id, customer_name, showing_id, seat_ids, created_at, position) VALUES ($1, $2, $3, $4, $5, $6)`,
			b.ID, b.CustomerName, b.ShowingID, pq.Array(b.SeatIDs), b.CreatedAt, i); err != nil {
			return fmt.Errorf("予約の保存に失敗: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

// SeedIfEmpty は作品が1件も存在しない場合に既定のカタログを投入する
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM programs`); err != nil {
		return fmt.Errorf("カタログの確認に失敗: %w", err)
	}
	if count > 0 {
		return nil
	}
	programs, err := storage.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("初期カタログ生成に失敗: %w", err)
	}
	return s.SaveCatalog(ctx, programs)
}

var _ storage.Store = (*Store)(nil)
