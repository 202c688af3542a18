// CLAUDE:SUMMARY CLI entry point for expertry — MCP over stdio or streamable HTTP, plus one-shot list/consult/version/instructions modes.
// Command expertry serves a directory of expert knowledge files over MCP.
//
// Usage:
//
//	expertry -config expertry.yaml         # run with config file
//	expertry -dir ./experts                # serve MCP on stdio
//	expertry -dir ./experts -http :8085    # serve MCP over streamable HTTP
//	expertry -dir ./experts -list          # list experts and exit
//	expertry -dir ./experts -consult py    # print one expert and exit
//	expertry -dir ./experts -version       # print fingerprint and exit
//	expertry -dir ./experts -instructions  # print onboarding document and exit
package main

import (
	"context"
	"encoding/json"
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

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/expertry/registry"
	"github.com/hazyhaar/expertry/watch"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to expertry.yaml config file")
	dir := flag.String("dir", env("EXPERTRY_DIR", ""), "experts directory")
	httpAddr := flag.String("http", env("EXPERTRY_HTTP", ""), "serve MCP over streamable HTTP on this address instead of stdio")
	logLevel := flag.String("log-level", env("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	list := flag.Bool("list", false, "list experts and exit")
	consult := flag.String("consult", "", "comma-separated expert ids to consult (exit after output)")
	version := flag.Bool("version", false, "print collection fingerprint and exit")
	instructions := flag.Bool("instructions", false, "print the onboarding document and exit")
	callerVersion := flag.String("caller-version", "", "cached instructions version, used with -instructions")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// Stderr: stdout belongs to the stdio MCP transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, options{
		configPath:    *configPath,
		dir:           *dir,
		httpAddr:      *httpAddr,
		list:          *list,
		consult:       *consult,
		version:       *version,
		instructions:  *instructions,
		callerVersion: *callerVersion,
	}); err != nil {
		logger.Error("expertry: fatal", "error", err)
		os.Exit(1)
	}
}

type options struct {
	configPath    string
	dir           string
	httpAddr      string
	list          bool
	consult       string
	version       bool
	instructions  bool
	callerVersion string
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	cfg, err := resolveConfig(opts.configPath, opts.dir)
	if err != nil {
		return err
	}

	reg, err := registry.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	// One-shot: list.
	if opts.list {
		entries, err := reg.List(ctx)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		return writeJSON(entries)
	}

	// One-shot: consult.
	if opts.consult != "" {
		ids := strings.Split(opts.consult, ",")
		for i := range ids {
			ids[i] = strings.TrimSpace(ids[i])
		}
		if len(ids) == 1 {
			e, err := reg.Consult(ctx, ids[0])
			if err != nil {
				return err
			}
			_, err = fmt.Println(e.Content)
			return err
		}
		results, err := reg.ConsultMany(ctx, ids)
		if err != nil {
			return fmt.Errorf("consult: %w", err)
		}
		out := make([]map[string]string, 0, len(results))
		for _, res := range results {
			entry := map[string]string{"id": res.ID}
			if res.Err != nil {
				entry["error"] = res.Err.Error()
			} else {
				entry["content"] = res.Expert.Content
			}
			out = append(out, entry)
		}
		return writeJSON(out)
	}

	// One-shot: version.
	if opts.version {
		info, err := reg.Version(ctx)
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
		return writeJSON(info)
	}

	// One-shot: instructions.
	if opts.instructions {
		doc, err := reg.Instructions(ctx, opts.callerVersion)
		if err != nil {
			return fmt.Errorf("instructions: %w", err)
		}
		_, err = fmt.Println(doc)
		return err
	}

	// Serving mode.
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "expertry",
		Version: "1.0.0",
	}, nil)
	reg.RegisterMCP(srv)

	startWatcher(ctx, logger, reg, cfg.ExpertsDir)

	if opts.httpAddr != "" {
		return serveHTTP(ctx, logger, srv, opts.httpAddr)
	}

	logger.Info("expertry: serving MCP on stdio", "dir", cfg.ExpertsDir)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

// startWatcher logs collection changes while serving. Watch failures are
// not fatal: the registry rescans per request anyway.
func startWatcher(ctx context.Context, logger *slog.Logger, reg *registry.Registry, dir string) {
	detector := func(ctx context.Context) (string, error) {
		info, err := reg.Version(ctx)
		if err != nil {
			return "", err
		}
		return info.Fingerprint, nil
	}

	w, err := watch.New(dir, detector, watch.Options{Logger: logger})
	if err != nil {
		logger.Warn("expertry: change watching disabled", "error", err)
		return
	}
	go func() {
		_ = w.OnChange(ctx, func(old, current string) error {
			logger.Info("expert collection changed", "old_version", old, "version", current)
			return nil
		})
	}()
}

func serveHTTP(ctx context.Context, logger *slog.Logger, srv *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/mcp", handler)

	httpSrv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("expertry: serving MCP over HTTP", "addr", addr, "path", "/mcp")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http: %w", err)
	}
	return nil
}

func resolveConfig(configPath, dir string) (*registry.Config, error) {
	if configPath != "" {
		cfg, err := registry.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if dir != "" {
			cfg.ExpertsDir = dir
		}
		return cfg, nil
	}
	cfg := &registry.Config{}
	if dir != "" {
		cfg.ExpertsDir = dir
	}
	return cfg, nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
