package handler

import (
	"context"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/application"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
)

// CatalogServiceInterface はカタログ読み取りサービスのインターフェース
type CatalogServiceInterface interface {
	ListPrograms(ctx context.Context) ([]*program.Program, error)
	GetShowingSeats(ctx context.Context, showingID string) (*program.Program, *program.Showing, error)
	CountAvailableSeats(ctx context.Context, showingID string) (int, error)
}

// BookingServiceInterface は予約エンジンのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	CancelBooking(ctx context.Context, id string) (*booking.Booking, error)
	ListBookings(ctx context.Context, customerFilter string) ([]*booking.Booking, error)
}
