package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/config"
	"PerfMap-App/internal/database"
	"PerfMap-App/internal/domain/geo"
	"PerfMap-App/internal/domain/repository"
	"PerfMap-App/internal/handler"
	"PerfMap-App/internal/infrastructure/api"
	"PerfMap-App/internal/infrastructure/cache"
	pgdb "PerfMap-App/internal/infrastructure/database"
	"PerfMap-App/internal/infrastructure/firestore"
	"PerfMap-App/internal/infrastructure/mapdata"
	"PerfMap-App/internal/metrics"
	repoImpl "PerfMap-App/internal/repository"
	"PerfMap-App/internal/usecase"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("設定の読み込みに失敗")
	}
	logger.SetLevel(cfg.LogrusLevel())
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector("perfmap", reg)

	loc := cfg.Location()

	performanceRepo, sourceHealth, closeSource, err := buildPerformanceRepository(ctx, cfg, loc, collector, logger)
	if err != nil {
		logger.WithError(err).Fatal("公演データソースの初期化に失敗")
	}
	defer closeSource()

	var mapRepo repository.MapRepository
	if cfg.MapDataURL != "" {
		mapRepo = mapdata.NewHTTPMapRepository(cfg.MapDataURL, cfg.HTTPTimeout, collector, logger)
	} else {
		mapRepo = mapdata.NewFileMapRepository(cfg.MapDataPath, collector, logger)
	}

	mapViewUseCase := usecase.NewMapViewUseCase(mapRepo, performanceRepo, geo.NewProjector(geo.DefaultViewport), logger)
	performanceUseCase := usecase.NewPerformanceUseCase(performanceRepo, loc, time.Now, logger)

	router := handler.NewRouter(handler.RouterDeps{
		MapHandler:         handler.NewMapHandler(mapViewUseCase, logger),
		PerformanceHandler: handler.NewPerformanceHandler(performanceUseCase, logger),
		Logger:             logger,
		Metrics:            collector,
		Gatherer:           reg,
		Source:             cfg.PerformanceSource,
		HealthCheck:        sourceHealth,
		PprofEnabled:       cfg.PprofEnabled,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"source": cfg.PerformanceSource,
		}).Info("🚀 PerfMap-App server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("サーバーの起動に失敗")
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 シャットダウンします")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("シャットダウンに失敗")
	}
}

// buildPerformanceRepository PERFORMANCE_SOURCE に応じた取得元とヘルスチェックを作る
// http と firestore はヘルスチェックなし（nil）
func buildPerformanceRepository(ctx context.Context, cfg *config.Config, loc *time.Location, collector *metrics.Collector, logger *logrus.Logger) (repository.PerformanceRepository, handler.HealthCheckFunc, func(), error) {
	noop := func() {}

	switch cfg.PerformanceSource {
	case config.SourceHTTP:
		payloadCache := openPayloadCache(ctx, cfg, logger)
		return api.NewPerformanceClient(cfg.PerformanceAPIBaseURL, cfg.HTTPTimeout, loc, payloadCache, collector, logger), nil, noop, nil

	case config.SourceSupabase:
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, nil, noop, err
		}
		logger.WithField("url", client.URL()).Info("✅ Supabase connection successful!")
		health := func(context.Context) error { return client.HealthCheck() }
		return repoImpl.NewSupabasePerformanceRepository(client, loc, collector, logger), health, noop, nil

	case config.SourcePostgres:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			var err error
			dsn, err = pgdb.BuildSupabaseDSN(cfg.SupabaseURL, cfg.SupabaseDBPassword)
			if err != nil {
				return nil, nil, noop, err
			}
		}
		client, err := pgdb.NewPostgreSQLClient(ctx, dsn)
		if err != nil {
			return nil, nil, noop, err
		}
		logger.Info("✅ PostgreSQL connection successful!")
		closer := func() {
			if err := client.Close(); err != nil {
				logger.WithError(err).Warn("PostgreSQL接続のクローズに失敗")
			}
		}
		return repoImpl.NewPostgresPerformanceRepository(client, loc, collector, logger), client.HealthCheck, closer, nil

	case config.SourceFirestore:
		client, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.GoogleCredentials, logger)
		if err != nil {
			return nil, nil, noop, err
		}
		closer := func() {
			if err := client.Close(); err != nil {
				logger.WithError(err).Warn("Firestoreクライアントのクローズに失敗")
			}
		}
		return repoImpl.NewFirestorePerformanceRepository(client.GetClient(), loc, collector, logger), nil, closer, nil
	}

	return nil, nil, noop, fmt.Errorf("未対応のPERFORMANCE_SOURCE: %s", cfg.PerformanceSource)
}

// openPayloadCache REDIS_ADDR が未設定か接続できなければキャッシュなし
func openPayloadCache(ctx context.Context, cfg *config.Config, logger *logrus.Logger) repository.PayloadCache {
	client := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if client == nil {
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).WithField("addr", cfg.RedisAddr).Warn("⚠️ Redisに接続できません。キャッシュなしで起動します")
		_ = client.Close()
		return nil
	}

	logger.WithFields(logrus.Fields{"addr": cfg.RedisAddr, "ttl": cfg.CacheTTL}).Info("✅ Redis payload cache enabled")
	return cache.NewRedisPayloadCache(client, cfg.CacheTTL)
}
