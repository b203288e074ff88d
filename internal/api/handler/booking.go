package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/api"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/application"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	CustomerName string   `json:"customer_name" validate:"required" example:"田中太郎"`
	ShowingID    string   `json:"showing_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	SeatIDs      []string `json:"seat_ids" validate:"required,min=1" example:"A1,A2"`
}

type BookingResponse struct {
	ID           string   `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CustomerName string   `json:"customer_name" example:"田中太郎"`
	ShowingID    string   `json:"showing_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SeatIDs      []string `json:"seat_ids" example:"A1,A2"`
	CreatedAt    string   `json:"created_at" example:"2025-12-06T10:00:00+09:00"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		CustomerName: b.CustomerName,
		ShowingID:    b.ShowingID,
		SeatIDs:      b.SeatIDs,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary 予約を作成
// @Description 指定座席をすべて確保して予約を作成します（部分的な確保は行いません）
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が既に予約済み"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		CustomerName: req.CustomerName,
		ShowingID:    req.ShowingID,
		SeatIDs:      req.SeatIDs,
	})
	if err != nil {
		var unavailable *booking.SeatsUnavailableError
		switch {
		case errors.As(err, &unavailable):
			return c.JSON(http.StatusConflict, api.ErrorResponse{
				Error: unavailable.Error(),
				Code:  http.StatusConflict,
				Seats: unavailable.Seats,
			})
		case errors.Is(err, program.ErrShowingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case booking.IsInvalidInput(err):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// List godoc
// @Summary 予約一覧を取得
// @Description 予約の一覧を作成順で取得します。customerで顧客名の部分一致絞り込みができます
// @Tags bookings
// @Produce json
// @Param customer query string false "顧客名フィルタ（大文字小文字を区別しない部分一致）"
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.service.ListBookings(c.Request().Context(), c.QueryParam("customer"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約を台帳から削除し、座席を解放します
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} api.ErrorResponse
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	id := c.Param("id")
	b, err := h.service.CancelBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"id": b.ID})
}
