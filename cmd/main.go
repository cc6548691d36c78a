package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sharath018/temple-registry/config"
	"github.com/sharath018/temple-registry/database"
	"github.com/sharath018/temple-registry/internal/auditlog"
	"github.com/sharath018/temple-registry/internal/media"
	"github.com/sharath018/temple-registry/internal/metrics"
	"github.com/sharath018/temple-registry/internal/notification"
	"github.com/sharath018/temple-registry/internal/temple"
	"github.com/sharath018/temple-registry/middleware"
	"github.com/sharath018/temple-registry/routes"
	"github.com/sharath018/temple-registry/utils"
)

// @title Temple Registry API
// @version 1.0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Storage
	templeRepo, auditRepo := openStorage(cfg)
	auditSvc := auditlog.NewService(auditRepo)

	// Init Redis
	redisClient, err := utils.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Redis unavailable, continuing without cache")
		redisClient = nil
	}

	// Media store
	store, uploadDir := openMediaStore(ctx, cfg)

	janitor := media.NewJanitor(store, media.JanitorOptions{Metrics: m})
	// Detached from ctx so Close can drain pending deletions on shutdown.
	janitor.Start(context.Background(), cfg.CleanupWorkers)
	go recordCleanupWarnings(ctx, janitor, auditSvc)

	// Kafka carries deletions between replicas when configured; the janitor
	// consumes them locally either way.
	var cleanup media.CleanupQueue = janitor
	var kafkaQueue *media.KafkaCleanupQueue
	var kafkaConsumer *media.KafkaCleanupConsumer
	if len(cfg.KafkaBrokers) > 0 {
		if err := utils.InitializeKafka(cfg.KafkaBrokers, cfg.KafkaCleanupTopic); err != nil {
			log.Warn().Err(err).Msg("⚠️ Kafka topic setup failed")
		}
		kafkaQueue = media.NewKafkaCleanupQueue(cfg.KafkaBrokers, cfg.KafkaCleanupTopic)
		kafkaConsumer = media.NewKafkaCleanupConsumer(cfg.KafkaBrokers, cfg.KafkaCleanupTopic, cfg.KafkaGroupID, janitor)
		go kafkaConsumer.Run(ctx)
		cleanup = kafkaQueue
	}

	coordinator := media.NewCoordinator(store, cleanup, media.CoordinatorOptions{
		MaxUploadBytes: cfg.MaxUploadBytes,
		Concurrency:    cfg.UploadConcurrency,
		Metrics:        m,
	})

	// 🔥 Init Firebase
	var notifier temple.Notifier = notification.NopNotifier{}
	if err := utils.InitFirebase(cfg.FCMCredentialsPath, cfg.FCMProjectID); err != nil {
		log.Info().Err(err).Msg("ℹ️ Continuing without Firebase (push notifications will be disabled)")
	} else if utils.IsFCMEnabled() {
		notifier = notification.NewFCMNotifier(utils.FirebaseClient)
	}

	// Services
	templeSvc := temple.NewService(templeRepo, coordinator, auditSvc)
	templeSvc.Notifier = notifier
	templeSvc.Metrics = m
	if redisClient != nil {
		templeSvc.Cache = temple.NewRedisCache(redisClient, cfg.CacheTTL)
	}

	// Setup Gin router
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.MaxMultipartMemory = cfg.MaxUploadBytes * 4

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, routes.Deps{
		Config:    cfg,
		Temples:   temple.NewHandler(templeSvc, cfg.MaxUploadBytes),
		Audit:     auditlog.NewHandler(auditSvc),
		Registry:  reg,
		Redis:     redisClient,
		UploadDir: uploadDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("db", cfg.DBDriver).Str("media", cfg.MediaDriver).Msg("🚀 Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ HTTP shutdown failed")
	}

	if kafkaQueue != nil {
		if err := kafkaQueue.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ kafka writer close failed")
		}
	}
	if kafkaConsumer != nil {
		if err := kafkaConsumer.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ kafka reader close failed")
		}
	}
	janitor.Close()
	if redisClient != nil {
		redisClient.Close()
	}
	log.Info().Msg("✅ Shutdown complete")
}

func openStorage(cfg *config.Config) (temple.Repository, auditlog.Repository) {
	if cfg.DBDriver == "memory" {
		log.Warn().Msg("⚠️ Using in-memory storage, data is lost on restart")
		return temple.NewMemoryRepository(), auditlog.NewMemoryRepository()
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Database connection failed")
	}
	migrate(db)
	return temple.NewRepository(db), auditlog.NewRepository(db)
}

func migrate(db *gorm.DB) {
	log.Info().Msg("🔄 Running database migrations...")
	if err := db.AutoMigrate(&temple.Temple{}, &auditlog.AuditLog{}); err != nil {
		log.Fatal().Err(err).Msg("❌ DB AutoMigrate failed")
	}
	log.Info().Msg("✅ Database migrations completed")
}

func openMediaStore(ctx context.Context, cfg *config.Config) (media.Store, string) {
	if cfg.MediaDriver == "minio" {
		store, err := media.NewMinIOStore(ctx, media.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			PublicURL: cfg.MinIOPublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("❌ MinIO init failed")
		}
		log.Info().Str("bucket", cfg.MinIOBucket).Msg("✅ MinIO media store ready")
		return store, ""
	}

	store, err := media.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create upload directory")
	}
	log.Info().Str("dir", cfg.UploadDir).Msg("📁 Local media store ready")
	return store, cfg.UploadDir
}

// recordCleanupWarnings turns abandoned deletions into audit entries so
// orphaned assets can be found later.
func recordCleanupWarnings(ctx context.Context, j *media.Janitor, as auditlog.Service) {
	for {
		select {
		case <-ctx.Done():
			return
		case w := <-j.Warnings():
			details := map[string]interface{}{
				"public_id": w.Job.PublicID,
				"url":       w.Job.URL,
				"reason":    w.Job.Reason,
				"attempts":  w.Attempts,
			}
			if w.Err != nil {
				details["error"] = w.Err.Error()
			}
			entry := auditlog.Entry{Action: "MEDIA_CLEANUP_FAILED", Details: details, Status: auditlog.StatusFailure}
			if err := as.Record(ctx, entry); err != nil {
				log.Warn().Err(err).Msg("audit log write failed")
			}
		}
	}
}
