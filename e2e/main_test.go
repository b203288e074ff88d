package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/api"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/api/handler"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/application"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/infrastructure/jsonfile"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/logger"
)

// TestServer はE2Eテスト用のサーバー
// JSONファイルストアを使い、外部ミドルウェアなしで完結する
type TestServer struct {
	Echo  *echo.Echo
	Store *jsonfile.Store
}

// NewTestServer はテスト用サーバーを作成
// A1〜A36の座席を持つ上映回 showing-1, showing-2 を投入する
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	logger.Set(zap.NewNop())

	store, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)

	startAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	sh1, err := program.NewShowing("showing-1", startAt, program.NewSeats("A", 36))
	require.NoError(t, err)
	sh2, err := program.NewShowing("showing-2", startAt.Add(3*time.Hour), program.NewSeats("A", 36))
	require.NoError(t, err)
	p, err := program.NewProgram("program-1", "スペース・オデッセイ 完全版", []*program.Showing{sh1, sh2})
	require.NoError(t, err)
	catalog, err := program.NewCatalog([]*program.Program{p})
	require.NoError(t, err)
	ledger, err := booking.NewLedger(nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveCatalog(ctx, catalog.Programs()))
	require.NoError(t, store.SaveLedger(ctx, nil))

	bookingService := application.NewBookingService(catalog, ledger, store, nil)
	catalogService := application.NewCatalogService(catalog, nil)

	programHandler := handler.NewProgramHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	healthHandler := handler.NewHealthHandler()

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e)

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.GET("/programs", programHandler.List)
	v1.GET("/showings/:id/seats", programHandler.GetShowingSeats)
	v1.GET("/showings/:id/availability", programHandler.Availability)
	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.List)
	v1.DELETE("/bookings/:id", bookingHandler.Cancel)

	return &TestServer{Echo: e, Store: store}
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}
