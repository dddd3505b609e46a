package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agristock/agristock/internal/api"
	"github.com/agristock/agristock/internal/auth"
	"github.com/agristock/agristock/internal/config"
	"github.com/agristock/agristock/internal/db"
	"github.com/agristock/agristock/internal/ledger"
	"github.com/agristock/agristock/internal/notify"
	"github.com/agristock/agristock/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := runToken(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runServe(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runToken mints a signed staff token for a staff member, for handing to
// field devices. The account system that would normally do this lives
// outside this service.
func runToken(args []string) error {
	fs := flag.NewFlagSet("agristock token", flag.ContinueOnError)

	var configPath, secret, name, role string
	var staffID int64
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&secret, "secret", "", "")
	fs.Int64Var(&staffID, "id", 0, "")
	fs.StringVar(&name, "name", "", "")
	fs.StringVar(&role, "role", "field", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: agristock token -id <staff-id> [flags]

Flags:
  -id <id>          staff ID to embed in the token (required)
  -name <name>      staff name
  -role <role>      staff role: admin, coordinator, or field (default: field)
  -secret <secret>  JWT signing secret
  -config <path>    TOML config file to read the secret from
`)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if secret == "" && configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		secret = cfg.Auth.JWTSecret
	}
	if secret == "" {
		return fmt.Errorf("a signing secret is required (-secret or -config)")
	}
	if staffID <= 0 {
		return fmt.Errorf("a positive staff ID is required (-id)")
	}

	token, err := auth.GenerateToken(secret, staffID, name, role)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Println(token)
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("agristock", flag.ContinueOnError)

	var configPath, dbPath, addr, logPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: agristock [flags]

Flags:
  -c, -config <path>      TOML config file (default: built-in defaults)
  -d, -db <path>          SQLite database path (default: agristock.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Subcommands:
  token                   mint a signed staff token
`)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags override the config file.
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	closeLog, err := setupLogger(logPath)
	if err != nil {
		return err
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Tokens minted against a generated secret die with the process.
	if cfg.Auth.JWTSecret == "" {
		secret, err := generateSecret()
		if err != nil {
			return fmt.Errorf("generating JWT secret: %w", err)
		}
		cfg.Auth.JWTSecret = secret
		slog.Warn("no JWT secret configured, generated an ephemeral one")
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", cfg.Database.Path)

	// Change events: in-process bus, optionally mirrored to Kafka.
	bus := notify.NewBus()
	if len(cfg.Notify.KafkaBrokers) > 0 {
		sink := notify.NewKafkaSink(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic, slog.Default())
		defer sink.Close()
		bus.Subscribe(sink.Notify)
		slog.Info("kafka sink enabled",
			"brokers", cfg.Notify.KafkaBrokers, "topic", cfg.Notify.KafkaTopic)
	}

	ledgerStore := store.New(database)
	engine := ledger.NewEngine(ledgerStore, bus, slog.Default())
	lending := ledger.NewLending(ledgerStore, bus, slog.Default())
	approvals := ledger.NewApprovals(ledgerStore, slog.Default())

	apiRouter := api.NewRouter(api.Deps{
		DB:        database,
		Engine:    engine,
		Lending:   lending,
		Approvals: approvals,
		JWTSecret: cfg.Auth.JWTSecret,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// generateSecret creates a random hex JWT signing secret.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
