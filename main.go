package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/boothpulse/auth"
	"github.com/danielhkuo/boothpulse/cliparse"
	"github.com/danielhkuo/boothpulse/db"
	"github.com/danielhkuo/boothpulse/middleware"
	"github.com/danielhkuo/boothpulse/models"
	"github.com/danielhkuo/boothpulse/router"
)

func main() {
	// Load .env if present; real env vars take precedence
	_ = godotenv.Load()

	setupLogging()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Bootstrap admin account if configured
	if cfg.AdminEmail != "" {
		if err := seedAdmin(dbConn, cfg); err != nil {
			slog.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// setupLogging picks the slog handler: human-readable text on a terminal,
// JSON when output is piped or collected
func setupLogging() {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}
}

// seedAdmin creates the bootstrap admin account if no user exists with the
// configured email. Idempotent across restarts.
func seedAdmin(dbConn *sql.DB, cfg cliparse.Config) error {
	var exists bool
	if err := dbConn.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, cfg.AdminEmail).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	passwordHash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = dbConn.Exec(`
		INSERT INTO users (id, name, email, phone, password_hash, role, constituency_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULL, $4, $5, NULL, $6, $7)
	`, uuid.NewString(), "Admin", cfg.AdminEmail, passwordHash, models.RoleAdmin, now, now)
	if err != nil {
		return err
	}

	slog.Info("admin account bootstrapped", "email", cfg.AdminEmail)
	return nil
}
