package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/juuwaah/kotoba-akinator/internal/api"
	"github.com/juuwaah/kotoba-akinator/internal/app"
	"github.com/juuwaah/kotoba-akinator/internal/config"
	"github.com/juuwaah/kotoba-akinator/internal/ws"
	staticserver "github.com/juuwaah/kotoba-akinator/static"
)

var version = "dev" // Set at build time via -ldflags

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Kotoba Akinator - Japanese vocabulary guessing game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)
  --debug         Log oracle calls and other debug output

Environment Variables:
  PORT                Port to listen on (default: 8080)
  DEFAULT_PROVIDER    AI provider: "openai", "groq" or "ollama" (default: openai)
  DEFAULT_MODEL       AI model to use (default: gpt-4o)
  OPENAI_API_KEY      OpenAI API key (required for OpenAI provider)
  OPENAI_BASE_URL     Custom OpenAI API base URL (optional)
  GROQ_API_KEY        Groq API key (required for Groq provider)
  OLLAMA_HOST         Ollama host URL (default: http://localhost:11434)
  ORACLE_TIMEOUT      Timeout per AI call (default: 30s)
  SESSION_STORE       "memory" or "sqlite" (default: memory)
  SQLITE_PATH         SQLite database path (default: ./akinator.db)
  SESSION_TTL         Idle time before a session is dropped (default: 2h)
  VOCAB_FILE          JSON vocabulary file (default: embedded list)
  VOCAB_CACHE_TTL     How long to cache the vocabulary file (default: 10m)
  RATE_LIMIT_RPS      Requests per second per client (default: 2)
  RATE_LIMIT_BURST    Burst size per client (default: 5)
  ADMIN_USER          Admin username for basic auth
  ADMIN_PASS          Admin password for basic auth
  EXPORT_ENABLED      Export finished games to file (default: false)
  EXPORT_FILE         Path to export transcripts (default: ./akinator-transcripts.txt)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Kotoba Akinator %s\n", version)
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)

	cfg := config.Load()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mgr, st, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build game")
	}
	defer st.Close()
	go mgr.RunSweeper(ctx, time.Minute)

	gin.SetMode(gin.ReleaseMode)
	apiServer := api.New(mgr, api.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AdminUser:      cfg.AdminUser,
		AdminPass:      cfg.AdminPass,
		SessionTTL:     cfg.SessionTTL,
	})
	r := api.NewRouter(apiServer)
	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				apiServer.Limiter().Prune(time.Hour)
			}
		}
	}()

	sock := ws.New(mgr, apiServer.Limiter(), cfg.OracleTimeout*2)
	io := sock.Mount(r)
	defer io.Close()

	// Serve frontend for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received, shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http server shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("version", version).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server shutdown complete")
}
