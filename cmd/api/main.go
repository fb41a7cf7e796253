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

	"github.com/presscoach/backend/internal/agent"
	"github.com/presscoach/backend/internal/config"
	"github.com/presscoach/backend/internal/gateway/gemini"
	"github.com/presscoach/backend/internal/handler"
	"github.com/presscoach/backend/internal/model/interview"
	"github.com/presscoach/backend/internal/model/persona"
	interviewService "github.com/presscoach/backend/internal/service/interview"
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

	gateway, err := gemini.New(ctx, cfg.Gemini)
	if err != nil {
		log.Fatalf("failed to initialize gemini gateway: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())

	svc := interviewService.New(interviewService.Deps{
		Personas: personaStore,
		NewQuestioner: func(p persona.Persona, settings interview.Settings) interviewService.Questioner {
			return agent.NewJournalist(gateway, p, settings, cfg.Interview.UsageLog)
		},
		Evaluator:     agent.NewEvaluator(gateway),
		Identity:      agent.NewIdentityGenerator(gateway, gateway),
		Transcriber:   gateway,
		TranscriptDir: cfg.Interview.TranscriptDir,
	})

	router := handler.NewRouter(personaStore, svc, cfg.Interview.StartupFile)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("PressCoach backend listening on %s", serverCfg.Addr)
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
