// Command plotweaver is the main entry point for the PlotWeaver creative
// writing assistant server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/TETEnot/plotweaver/internal/api"
	"github.com/TETEnot/plotweaver/internal/character"
	"github.com/TETEnot/plotweaver/internal/compose"
	"github.com/TETEnot/plotweaver/internal/config"
	"github.com/TETEnot/plotweaver/internal/health"
	"github.com/TETEnot/plotweaver/internal/observe"
	"github.com/TETEnot/plotweaver/internal/story"
	"github.com/TETEnot/plotweaver/internal/world"
	"github.com/TETEnot/plotweaver/pkg/provider/llm"
	"github.com/TETEnot/plotweaver/pkg/provider/llm/anyllm"
	"github.com/TETEnot/plotweaver/pkg/provider/llm/mock"
	oai "github.com/TETEnot/plotweaver/pkg/provider/llm/openai"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	haveConfigFile := true
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Run on defaults + environment; a config file is not required.
			haveConfigFile = false
			cfg, err = config.LoadFromReader(strings.NewReader(""))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "plotweaver: %v\n", err)
			return 1
		}
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	levelVar := new(slog.LevelVar)
	levelVar.Set(logLevel(cfg.Server.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
	slog.SetDefault(logger)

	slog.Info("plotweaver starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
		"test_mode", cfg.Generation.TestMode,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Observability ─────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "plotweaver",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── State managers ────────────────────────────────────────────────────────
	worldMgr, err := world.NewManager(cfg.Data.WorldDir)
	if err != nil {
		slog.Error("failed to load world data", "err", err)
		return 1
	}
	storyMgr, err := story.NewManager(cfg.Data.StoryDir)
	if err != nil {
		slog.Error("failed to load story data", "err", err)
		return 1
	}
	charMgr, err := character.NewManager(cfg.Data.MemoryFile)
	if err != nil {
		slog.Error("failed to load character memory", "err", err)
		return 1
	}
	slog.Info("creative state loaded",
		"settings", worldMgr.SettingCount(),
		"events", worldMgr.EventCount(),
		"plot_threads", worldMgr.ThreadCount(),
		"stories", storyMgr.StoryCount(),
		"characters", charMgr.Count(),
	)

	if err := observe.RegisterStoreGauges(otel.GetMeterProvider(), func() observe.StoreSizes {
		return observe.StoreSizes{
			Settings:   worldMgr.SettingCount(),
			Events:     worldMgr.EventCount(),
			Threads:    worldMgr.ThreadCount(),
			Stories:    storyMgr.StoryCount(),
			Characters: charMgr.Count(),
		}
	}); err != nil {
		slog.Warn("failed to register store gauges", "err", err)
	}

	// ── Generation backend ────────────────────────────────────────────────────
	provider, err := buildProvider(cfg)
	if err != nil {
		slog.Error("failed to build generation backend", "err", err)
		return 1
	}
	info := provider.ModelInfo()
	slog.Info("generation backend selected", "provider", info.Provider, "model", info.Model)

	facade := compose.New(provider, worldMgr, storyMgr, charMgr, metrics)

	// ── Config hot reload ─────────────────────────────────────────────────────
	if haveConfigFile {
		watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
			d := config.Diff(old, new)
			if d.LogLevelChanged {
				levelVar.Set(logLevel(d.NewLogLevel))
				slog.Info("log level changed", "level", d.NewLogLevel)
			}
			if d.ProviderChanged {
				slog.Warn("generation provider changed in config; restart required to apply")
			}
		})
		if err != nil {
			slog.Warn("config watcher unavailable", "err", err)
		} else {
			defer watcher.Stop()
		}
	}

	// ── HTTP surface ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.NewServer(worldMgr, storyMgr, charMgr, facade).Register(mux)

	healthHandler := health.New(
		func(ctx context.Context) bool { return facade.Ready(ctx) == nil },
		cfg.Generation.TestMode,
		health.Checker{Name: "backend", Check: facade.Ready},
	)
	healthHandler.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := observe.Middleware(metrics)(mux)

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printStartupSummary(cfg, info)
	slog.Info("server ready — press Ctrl+C to shut down")

	// ── Serve until signalled ─────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tls := cfg.Server.TLS; tls != nil {
			err = srv.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping…")
		shCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// buildProvider selects the generation backend: the deterministic mock in
// test mode, a registered real backend otherwise, and an always-unready
// stand-in when nothing is configured (the API then reports 503 for
// generation while the stored-state endpoints keep working).
func buildProvider(cfg *config.Config) (llm.Provider, error) {
	if cfg.Generation.TestMode {
		return &mock.Engine{}, nil
	}

	entry := cfg.Generation.Provider
	if entry.Name == "" {
		return &mock.Engine{ReadyErr: llm.ErrNotReady}, nil
	}

	reg := config.NewRegistry()
	registerBuiltinProviders(reg)
	return reg.CreateLLM(entry)
}

// registerBuiltinProviders wires all built-in backend factories into reg.
func registerBuiltinProviders(reg *config.Registry) {
	// Remote APIs share the same pattern: optional APIKey + optional BaseURL.
	for _, providerName := range []string{
		"anthropic", "gemini", "deepseek", "mistral", "groq", "llamafile",
	} {
		reg.RegisterLLM(providerName, func(entry config.ProviderEntry) (llm.Provider, error) {
			var opts []anyllmlib.Option
			if entry.APIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(providerName, entry.Model, opts...)
		})
	}

	// openai goes through the dedicated SDK client for organisation and
	// timeout support.
	reg.RegisterLLM("openai", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []oai.Option
		if entry.BaseURL != "" {
			opts = append(opts, oai.WithBaseURL(entry.BaseURL))
		}
		return oai.New(entry.APIKey, entry.Model, opts...)
	})

	// Local servers use BaseURL for the address, not an API key.
	reg.RegisterLLM("ollama", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.NewOllama(entry.Model, opts...)
	})
	reg.RegisterLLM("llamacpp", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.NewLlamaCpp(entry.Model, opts...)
	})

	reg.RegisterLLM("mock", func(config.ProviderEntry) (llm.Provider, error) {
		return &mock.Engine{}, nil
	})
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, info llm.ModelInfo) {
	backend := info.Provider
	if info.Model != "" {
		backend += " / " + info.Model
	}
	mode := "live"
	if cfg.Generation.TestMode {
		mode = "test (mock backend)"
	}

	fmt.Println("╔════════════════════════════════════════╗")
	fmt.Println("║       PlotWeaver — startup summary     ║")
	fmt.Println("╠════════════════════════════════════════╣")
	printLine("Backend", backend)
	printLine("Mode", mode)
	printLine("World data", cfg.Data.WorldDir)
	printLine("Story data", cfg.Data.StoryDir)
	printLine("Memory file", cfg.Data.MemoryFile)
	printLine("Listen addr", cfg.Server.ListenAddr)
	fmt.Println("╚════════════════════════════════════════╝")
}

func printLine(label, value string) {
	if value == "" {
		value = "(not configured)"
	}
	if len(value) > 22 {
		value = value[:19] + "…"
	}
	fmt.Printf("║  %-12s : %-22s ║\n", label, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func logLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
