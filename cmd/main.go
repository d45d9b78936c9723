package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"pothole-tracker/config"
	"pothole-tracker/internal/api/telegram"
	"pothole-tracker/internal/api/web"
	"pothole-tracker/internal/container"
	"pothole-tracker/internal/domain/port"
	"pothole-tracker/internal/infrastructure/imagecodec"
	"pothole-tracker/internal/infrastructure/storage"
	"pothole-tracker/internal/infrastructure/vision"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	style, err := vision.ParseStyle(cfg.BoxColor, cfg.Label)
	if err != nil {
		log.Fatalf("Invalid POTHOLE_BOX_COLOR: %v", err)
	}

	detector, err := vision.New(cfg.DetectorBackend, cfg.Detection, style)
	if err != nil {
		log.Fatalf("Failed to create detector: %v", err)
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create image store: %v", err)
	}

	ledger, err := storage.NewCSVLedger(cfg.ReportsFile)
	if err != nil {
		log.Fatalf("Failed to open reports ledger: %v", err)
	}
	log.Printf("Detector %s, reports in %s", cfg.DetectorBackend, ledger.Path())

	// Собираем сервисы приложения
	appContainer := container.New(container.Deps{
		Users:    storage.NewMemoryUserRepository(),
		Detector: detector,
		Codec:    imagecodec.Codec{Quality: imagecodec.DefaultQuality},
		Images:   images,
		Ledger:   ledger,
	})

	var wg sync.WaitGroup

	if cfg.HTTPAddr != "" {
		server, err := web.NewServer(appContainer.ReportService, cfg.OutputDir)
		if err != nil {
			log.Fatalf("Failed to create web server: %v", err)
		}
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("Web server listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Web server error: %v", err)
				stop()
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Web server shutdown: %v", err)
			}
		}()
	}

	if cfg.TelegramToken != "" {
		// Создаём бота
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Println("Bot is running...")
			if err := bot.Run(ctx); err != nil {
				log.Printf("Bot error: %v", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")
	wg.Wait()
}

func newImageStore(ctx context.Context, cfg *config.Config) (port.ImageStore, error) {
	if cfg.ImageStore == config.ImageStoreS3 {
		s3, err := storage.NewS3ImageStore(ctx, storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Secure:    cfg.S3.Secure,
		}, cfg.KeepHistory)
		if err != nil {
			return nil, err
		}
		log.Printf("Annotated images are uploaded to bucket %s", cfg.S3.Bucket)
		return s3, nil
	}

	files, err := storage.NewFileImageStore(cfg.OutputDir, cfg.KeepHistory)
	if err != nil {
		return nil, err
	}
	log.Printf("Annotated images are saved to %s", files.Dir())
	return files, nil
}
