package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JustM3Sunny/kuku/internal/audit"
	"github.com/JustM3Sunny/kuku/internal/config"
	"github.com/JustM3Sunny/kuku/internal/handler"
	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
	"github.com/JustM3Sunny/kuku/internal/service/ai"
	"github.com/JustM3Sunny/kuku/internal/service/dispatch"
	sessionstore "github.com/JustM3Sunny/kuku/internal/service/session"
	"github.com/JustM3Sunny/kuku/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Catalogs are validated up front; a bad seed rejects startup.
	var arkModels []string
	if cfg.Ark.Enabled() {
		arkModels = cfg.Ark.Models
	}
	providers, err := provider.NewCatalog(provider.Seed(arkModels))
	if err != nil {
		log.Fatalf("invalid provider catalog: %v", err)
	}
	personas, err := persona.NewCatalog(persona.Seed())
	if err != nil {
		log.Fatalf("invalid persona catalog: %v", err)
	}

	registry := ai.NewRegistry()
	if cfg.Groq.Enabled() {
		registry.Register(ai.NewGroqClient(cfg.Groq.APIKey, cfg.Groq.BaseURL, providers))
		log.Println("Groq client initialized successfully")
	} else {
		log.Println("GROQ_API_KEY not set, skipping Groq client")
	}
	if cfg.Gemini.Enabled() {
		geminiClient, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey, providers)
		if err != nil {
			log.Printf("warning: failed to initialize Gemini client: %v", err)
			log.Println("continuing without Gemini functionality")
		} else {
			registry.Register(geminiClient)
			log.Println("Gemini client initialized successfully")
		}
	} else {
		log.Println("GEMINI_API_KEY not set, skipping Gemini client")
	}
	if cfg.Ark.Enabled() {
		registry.Register(ai.NewArkClient(ai.ArkConfig{
			APIKey:    cfg.Ark.APIKey,
			AccessKey: cfg.Ark.AccessKey,
			SecretKey: cfg.Ark.SecretKey,
			BaseURL:   cfg.Ark.BaseURL,
			Region:    cfg.Ark.Region,
		}, providers))
		log.Println("Ark client initialized successfully")
	}
	if len(registry.IDs()) == 0 {
		log.Println("warning: no provider credentials configured, chat replies will be unavailable")
	}

	store := sessionstore.NewStore(providers, personas)

	var sink audit.Sink = audit.LogSink{}
	var botClient *telegram.Client
	if cfg.Telegram.Enabled() {
		botClient = telegram.NewClient(cfg.Telegram.APIBase(), 90*time.Second)
		if cfg.Telegram.AdminChatID != 0 {
			sink = telegram.NewAdminSink(botClient, cfg.Telegram.AdminChatID)
			log.Println("Admin audit forwarding enabled")
		}
	}

	responder := ai.NewResponder(store, personas, registry, sink)
	dispatcher := dispatch.New(store, providers, personas, registry, responder, sink)

	if botClient != nil {
		poller := telegram.NewPoller(botClient, dispatcher, cfg.Telegram.PollTimeout, cfg.Telegram.KeepAlive)
		go func() {
			log.Println("Bot is running...")
			if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("telegram poller stopped: %v", err)
			}
		}()
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram transport")
	}

	router := handler.NewRouter(providers, personas, dispatcher)
	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("kuku backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
