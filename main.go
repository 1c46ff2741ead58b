// main.go
package main

import (
	"context"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tunehound/tunehound/pkg/acrcloud"
	"github.com/tunehound/tunehound/pkg/audio"
	"github.com/tunehound/tunehound/pkg/config"
	"github.com/tunehound/tunehound/pkg/db"
	"github.com/tunehound/tunehound/pkg/health"
	"github.com/tunehound/tunehound/pkg/logging"
	"github.com/tunehound/tunehound/pkg/queue"
	"github.com/tunehound/tunehound/pkg/repository"
	"github.com/tunehound/tunehound/pkg/storage"
	"github.com/tunehound/tunehound/pkg/telegram"
	"github.com/tunehound/tunehound/pkg/telegram/handler"
	"github.com/tunehound/tunehound/pkg/telegram/middleware"
	"github.com/tunehound/tunehound/pkg/telegram/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger, err := logging.New(ctx, cfg.GoogleCloudProject, "tunehound")
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Close()

	if err := os.MkdirAll(cfg.DownloadsDir, 0o755); err != nil {
		log.Fatalf("downloads dir: %v", err)
	}

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	songs := repository.NewSongRepository(gdb)
	history := repository.NewHistoryRepository(gdb)
	users := repository.NewUserRepository(gdb)

	// Redis is optional: without it the bot just runs without rate limiting
	// and without the reply cache.
	var store *storage.Client
	if cfg.RedisAddress != "" {
		store, err = storage.NewClient(cfg.RedisAddress)
		if err != nil {
			log.Fatalf("redis init failed: %v", err)
		}
		defer store.Close()
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("telegram init failed: %v", err)
	}
	logger.Infof("authorized as @%s", api.Self.UserName)

	deps := service.RecognitionDeps{
		Converter:  audio.NewConverter(cfg.DownloadsDir, logger),
		Prober:     audio.NewProber(),
		Recognizer: acrcloud.NewClient(cfg.ACRHost, cfg.ACRAccessKey, cfg.ACRSecret, cfg.ACRTimeout, cfg.ACRMatchLen),
		Songs:      songs,
		History:    history,
		Transport:  telegram.NewFileTransport(api),
		Sender:     api,
		Logger:     logger,
	}
	if store != nil {
		deps.Cache = store
	}
	recognition := service.NewRecognitionService(deps)

	// With a Cloud project the recognition queue lives in Pub/Sub and
	// survives restarts; otherwise an in-process pool does the work.
	var dispatcher queue.Dispatcher
	if cfg.GoogleCloudProject != "" {
		ps, err := queue.NewPubSubDispatcher(ctx, cfg.GoogleCloudProject, cfg.TaskTopic, recognition.HandleTask, logger)
		if err != nil {
			log.Fatalf("pubsub init failed: %v", err)
		}
		go func() {
			if err := ps.Receive(ctx); err != nil {
				logger.Errorf("pubsub receive stopped: %v", err)
			}
		}()
		dispatcher = ps
	} else {
		dispatcher = queue.NewLocalDispatcher(cfg.WorkerCount, recognition.HandleTask)
	}
	defer dispatcher.Close()

	historySvc := service.NewHistoryService(history, songs, logger)
	searchSvc := service.NewSearchService(history, songs, logger)
	messages := service.NewMessageService(api, users, dispatcher, historySvc, searchSvc, logger)

	var limiter *middleware.RateLimiter
	if store != nil {
		limiter = middleware.NewRateLimiter(store)
	}

	if port := os.Getenv("PORT"); port != "" {
		go func() {
			if err := health.Serve(":" + port); err != nil {
				logger.Errorf("health server stopped: %v", err)
			}
		}()
	}

	bot := telegram.NewBot(api,
		handler.NewMessageHandler(messages, limiter),
		handler.NewCallbackHandler(api, historySvc, logger),
	)
	logger.Infof("starting update loop")
	bot.Start()
}
