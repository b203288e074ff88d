package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
)

type ProgramHandler struct {
	service CatalogServiceInterface
}

func NewProgramHandler(s CatalogServiceInterface) *ProgramHandler {
	return &ProgramHandler{service: s}
}

type ShowingSummary struct {
	ID             string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	StartAt        string `json:"start_at" example:"2025-12-31T18:00:00+09:00"`
	SeatCount      int    `json:"seat_count" example:"36"`
	AvailableSeats int    `json:"available_seats" example:"34"`
}

type ProgramResponse struct {
	ID       string           `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title    string           `json:"title" example:"スペース・オデッセイ 完全版"`
	Showings []ShowingSummary `json:"showings"`
}

func toProgramResponse(p *program.Program) ProgramResponse {
	resp := ProgramResponse{
		ID:       p.ID,
		Title:    p.Title,
		Showings: make([]ShowingSummary, 0, len(p.Showings)),
	}
	for _, sh := range p.Showings {
		resp.Showings = append(resp.Showings, ShowingSummary{
			ID:             sh.ID,
			StartAt:        sh.StartAt.Format(time.RFC3339),
			SeatCount:      sh.SeatCount(),
			AvailableSeats: sh.CountAvailable(),
		})
	}
	return resp
}

type SeatResponse struct {
	ID     string `json:"id" example:"A1"`
	Status string `json:"status" example:"available"`
}

type ShowingSeatsResponse struct {
	Title     string         `json:"title" example:"スペース・オデッセイ 完全版"`
	ShowingID string         `json:"showing_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	StartAt   string         `json:"start_at" example:"2025-12-31T18:00:00+09:00"`
	Seats     []SeatResponse `json:"seats"`
}

// List godoc
// @Summary 作品一覧を取得
// @Description 作品と上映回の一覧を取得します
// @Tags programs
// @Produce json
// @Success 200 {array} ProgramResponse
// @Router /programs [get]
func (h *ProgramHandler) List(c echo.Context) error {
	programs, err := h.service.ListPrograms(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]ProgramResponse, len(programs))
	for i, p := range programs {
		resp[i] = toProgramResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetShowingSeats godoc
// @Summary 上映回の座席マップを取得
// @Description 指定上映回の座席とその状態を取得します
// @Tags showings
// @Produce json
// @Param id path string true "上映回ID"
// @Success 200 {object} ShowingSeatsResponse
// @Failure 404 {object} map[string]string
// @Router /showings/{id}/seats [get]
func (h *ProgramHandler) GetShowingSeats(c echo.Context) error {
	showingID := c.Param("id")
	p, showing, err := h.service.GetShowingSeats(c.Request().Context(), showingID)
	if err != nil {
		if errors.Is(err, program.ErrShowingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	seats := showing.Seats()
	resp := ShowingSeatsResponse{
		Title:     p.Title,
		ShowingID: showing.ID,
		StartAt:   showing.StartAt.Format(time.RFC3339),
		Seats:     make([]SeatResponse, 0, len(seats)),
	}
	for _, se := range seats {
		resp.Seats = append(resp.Seats, SeatResponse{ID: se.ID, Status: string(se.Status)})
	}
	return c.JSON(http.StatusOK, resp)
}

// Availability godoc
// @Summary 上映回の空席数を取得
// @Description 指定上映回の空席数を取得します（キャッシュされた値の場合があります）
// @Tags showings
// @Produce json
// @Param id path string true "上映回ID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Router /showings/{id}/availability [get]
func (h *ProgramHandler) Availability(c echo.Context) error {
	showingID := c.Param("id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), showingID)
	if err != nil {
		if errors.Is(err, program.ErrShowingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"available": count})
}
