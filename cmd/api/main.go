package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repoflow/internal/config"
	"repoflow/internal/githubrepo"
	"repoflow/internal/ingest"
	"repoflow/internal/llm"
	"repoflow/internal/persist"
	"repoflow/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	llmClient := buildLLMClient(ctx, cfg)
	if llmClient != nil {
		defer llmClient.Close()
	}

	adapter := buildPersistAdapter(cfg)
	handler := &server.IngestHandler{
		Pipeline: ingest.New(&githubrepo.GitFetcher{}, llmClient),
		Persist:  adapter,
	}

	srv := server.New(cfg.Port, server.NewMux(handler))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server: %v", err)
		}
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// buildLLMClient returns the Gemini client wrapped in the middleware chain,
// or nil when no API key is configured. A nil client makes the pipeline
// fall back to template diagrams instead of failing the request.
func buildLLMClient(ctx context.Context, cfg *config.Config) llm.Client {
	if cfg.LLM.APIKey == "" {
		log.Printf("GEMINI_API_KEY not set; diagram synthesis will use fallback templates")
		return nil
	}
	base, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		log.Printf("gemini client: %v; falling back to template diagrams", err)
		return nil
	}

	tiers := llm.NewTierLimiter(llm.TierConfig{
		AnonymousPerMinute: cfg.RateTiers.AnonymousPerMinute,
		SignedInPerMinute:  cfg.RateTiers.SignedInPerMinute,
	})

	mws := []llm.Middleware{
		llm.WithLogging(nil),
		llm.KeyGate(tiers),
		llm.WithTimeout(cfg.LLM.Timeout),
	}
	if cfg.LLM.RPS > 0 {
		mws = append(mws, llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst))
	}
	return llm.Wrap(base, mws...)
}

// buildPersistAdapter wires the durable stores when they are configured.
// Missing pieces degrade to ephemeral persistence rather than refusing to
// start.
func buildPersistAdapter(cfg *config.Config) *persist.Adapter {
	adapter := &persist.Adapter{}

	if cfg.Artifact.Enabled {
		blobs, err := persist.NewS3Store(persist.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			log.Printf("artifact store: %v; durable persistence disabled", err)
		} else {
			adapter.Blobs = blobs
		}
	} else {
		log.Printf("artifact store endpoint not set; durable persistence disabled")
	}

	if cfg.ProjectDB != "" {
		projects, err := persist.NewPostgresProjectStore(cfg.ProjectDB)
		if err != nil {
			log.Printf("project store: %v; falling back to in-memory projects", err)
			adapter.Projects = persist.NewMemoryProjectStore()
		} else {
			adapter.Projects = projects
		}
	} else if adapter.Blobs != nil {
		adapter.Projects = persist.NewMemoryProjectStore()
	}

	return adapter
}
