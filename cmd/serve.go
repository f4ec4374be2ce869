package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shareplaces/backend/api/core"
	"github.com/shareplaces/backend/cache"
	"github.com/shareplaces/backend/config"
	"github.com/shareplaces/backend/database"
	placesrepo "github.com/shareplaces/backend/database/repo/places"
	usersrepo "github.com/shareplaces/backend/database/repo/users"
	"github.com/shareplaces/backend/internal/auth"
	"github.com/shareplaces/backend/internal/geocode"
	"github.com/shareplaces/backend/internal/janitor"
	"github.com/shareplaces/backend/internal/mail"
	"github.com/shareplaces/backend/internal/services/orphans"
	svcPlaces "github.com/shareplaces/backend/internal/services/places"
	svcUsers "github.com/shareplaces/backend/internal/services/users"
	"github.com/shareplaces/backend/storage"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if err := os.MkdirAll(cfg.UploadTempDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store, err := storage.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Storage provider: %s", store.Name())

	cacheProvider, err := cache.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	log.Printf("Cache provider: %s", cacheProvider.Name())

	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn, cfg.JWTResetExpiresIn)
	if err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	// 清理上次运行残留的上传临时文件
	jan := janitor.New(cfg.UploadTempDir)
	jan.SweepStale(24 * time.Hour)

	geocoder := geocode.NewCachedResolver(
		geocode.NewClient(cfg.GeocoderEndpoint, cfg.GeocoderAPIKey, cfg.GeocoderTimeout),
		cacheProvider,
		cfg.GeocoderCacheTTL,
	)

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		SenderName:  cfg.SMTPSenderName,
		DialTimeout: cfg.SMTPDialTimeout,
	})

	usersRepo := usersrepo.NewRepository(db)
	placesRepo := placesrepo.NewRepository(db)

	placesService := svcPlaces.NewService(placesRepo, usersRepo, geocoder, store, jan, cfg.StorageTimeout)
	usersService := svcUsers.NewService(usersRepo, jwtService, store, jan, mailer, cfg.StorageTimeout)

	// 后台回收写库失败遗留的孤儿 blob
	orphanScanner := orphans.NewScanner(usersRepo, placesRepo, store, cfg.OrphanScanInterval, cfg.OrphanScanConcurrency)
	orphanScanner.Start()

	deps := &core.ServerDependencies{
		DB:            db,
		Store:         store,
		Cache:         cacheProvider,
		JWTService:    jwtService,
		Janitor:       jan,
		UsersRepo:     usersRepo,
		PlacesService: placesService,
		UsersService:  usersService,
	}

	// 启动gin
	server, cleanup := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cleanup != nil {
		cleanup()
	}

	if cfg.OrphanScanInterval > 0 {
		orphanScanner.Stop()
	}

	if err := cacheProvider.Close(); err != nil {
		log.Printf("Error closing cache: %v", err)
	}
	if err := database.Close(db); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited successfully")
}
