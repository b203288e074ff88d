package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/api"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/api/handler"
	apimiddleware "github.com/sanosuguru/go-cinema-seat-booking/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/application"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/config"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/storage"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/infrastructure/jsonfile"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-cinema-seat-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-seat-booking/internal/worker"
)

const availabilityReportInterval = 15 * time.Second

func main() {
	// .env があれば読み込む（なくても続行）
	_ = godotenv.Load()

	cfg := config.Load()

	// ロガー初期化
	log := logger.NewLogger(os.Getenv("APP_ENV"))
	logger.Set(log)
	defer logger.Sync()

	// メトリクス初期化
	m := metrics.Init()

	ctx := context.Background()

	// 永続化ストアの選択
	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("ストア初期化に失敗", zap.Error(err))
	}

	// 初回起動時のシード投入と状態復元
	if err := store.SeedIfEmpty(ctx); err != nil {
		logger.Fatal("初期データ投入に失敗", zap.Error(err))
	}
	programs, err := store.LoadCatalog(ctx)
	if err != nil {
		logger.Fatal("カタログ読み込みに失敗", zap.Error(err))
	}
	catalog, err := program.NewCatalog(programs)
	if err != nil {
		logger.Fatal("カタログ構築に失敗", zap.Error(err))
	}
	bookings, err := store.LoadLedger(ctx)
	if err != nil {
		logger.Fatal("予約台帳読み込みに失敗", zap.Error(err))
	}
	ledger, err := booking.NewLedger(bookings)
	if err != nil {
		logger.Fatal("予約台帳構築に失敗", zap.Error(err))
	}
	// 台帳を正として座席状態を再導出し、保存タイミング差によるずれを解消する
	storage.Reconcile(catalog, ledger)

	// 空席数キャッシュ（任意）
	var cache *redisinfra.AvailabilityCache
	if cfg.Redis.Enabled {
		client := redisinfra.NewClient(&cfg.Redis)
		if err := redisinfra.Ping(ctx, client); err != nil {
			logger.Warn("Redis接続に失敗したためキャッシュなしで続行", zap.Error(err))
		} else {
			cache = redisinfra.NewAvailabilityCache(client)
		}
	}

	// サービス初期化
	bookingService := application.NewBookingService(catalog, ledger, store, m)
	catalogService := application.NewCatalogService(catalog, cache)

	// ハンドラー初期化
	programHandler := handler.NewProgramHandler(catalogService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	healthHandler := handler.NewHealthHandler()

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.GET("/programs", programHandler.List)
	v1.GET("/showings/:id/seats", programHandler.GetShowingSeats)
	v1.GET("/showings/:id/availability", programHandler.Availability)
	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.List)
	v1.DELETE("/bookings/:id", bookingHandler.Cancel)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	// 空席集計ワーカー起動
	workerCtx, workerCancel := context.WithCancel(ctx)
	reporter := worker.NewAvailabilityReporter(catalog, m, cache, availabilityReportInterval)
	go reporter.Start(workerCtx)

	// サーバー起動
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	go func() {
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}

// newStore は設定に応じた永続化ストアを構築する
func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(db.DB, cfg.Store.MigrationsPath); err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	case "file":
		return jsonfile.NewStore(cfg.Store.DataDir)
	default:
		return nil, fmt.Errorf("未知のストアバックエンド: %s", cfg.Store.Backend)
	}
}
