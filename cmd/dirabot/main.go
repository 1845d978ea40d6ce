package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dira2050/dirabot/internal/api"
	"github.com/dira2050/dirabot/internal/bot"
	"github.com/dira2050/dirabot/internal/cloudapi"
	"github.com/dira2050/dirabot/internal/messaging"
	"github.com/dira2050/dirabot/internal/store"
	"github.com/dira2050/dirabot/internal/twiliowhatsapp"
	"github.com/dira2050/dirabot/internal/util"
	"github.com/dira2050/dirabot/internal/whatsapp"
)

const (
	// DefaultStateDir is the default directory for dirabot state data.
	DefaultStateDir = "/var/lib/dirabot"
	// DefaultDBFileName is the default SQLite database filename.
	DefaultDBFileName = "dirabot.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	svc, err := buildMessagingService(flags)
	if err != nil {
		slog.Error("Failed to initialize messaging service", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One-shot send mode for manual testing, then exit.
	if *flags.sendTo != "" {
		to, err := svc.ValidateAndCanonicalizeRecipient(*flags.sendTo)
		if err != nil {
			slog.Error("Invalid -send-to recipient", "error", err)
			os.Exit(1)
		}
		if err := svc.SendMessage(ctx, to, *flags.sendBody); err != nil {
			slog.Error("One-shot send failed", "error", err, "to", to)
			os.Exit(1)
		}
		slog.Info("One-shot message sent", "to", to)
		return
	}

	handler := bot.NewHandler(st, svc)

	if err := svc.Start(ctx); err != nil {
		slog.Error("Failed to start messaging service", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := svc.Stop(); err != nil {
			slog.Error("Failed to stop messaging service", "error", err)
		}
	}()

	// In-process transports deliver inbound messages on a channel rather
	// than through the webhook.
	go handler.Run(ctx)

	server := api.NewServer(handler, st, svc,
		api.WithAddr(*flags.apiAddr),
		api.WithVerifyToken(*flags.verifyToken),
	)

	slog.Info("Bootstrapping dirabot", "transport", *flags.transport, "api_addr", *flags.apiAddr)
	if err := server.Start(ctx); err != nil {
		slog.Error("dirabot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("dirabot exited successfully")
}

// Config holds environment configuration.
type Config struct {
	StateDir      string
	DatabaseURL   string
	APIAddr       string
	Transport     string
	VerifyToken   string
	AccessToken   string
	PhoneNumberID string
	WhatsAppDSN   string
	TwilioSID     string
	TwilioToken   string
	TwilioFrom    string
}

// Flags holds command line flag values.
type Flags struct {
	dbDSN         *string
	apiAddr       *string
	transport     *string
	verifyToken   *string
	accessToken   *string
	phoneNumberID *string
	waDSN         *string
	qrOutput      *string
	numeric       *bool
	sendTo        *string
	sendBody      *string
}

// initializeLogger sets up structured logging. DIRABOT_DEBUG switches on
// debug-level output.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("DIRABOT_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and a
// .env file when present.
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	config := Config{
		StateDir:      util.GetEnv("DIRABOT_STATE_DIR", DefaultStateDir),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		APIAddr:       util.GetEnv("API_ADDR", ":8080"),
		Transport:     util.GetEnv("DIRABOT_TRANSPORT", "cloud"),
		VerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		AccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppDSN:   os.Getenv("WHATSAPP_DB_DSN"),
		TwilioSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:    os.Getenv("TWILIO_FROM_NUMBER"),
	}

	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No DATABASE_URL provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}
	if config.WhatsAppDSN == "" {
		config.WhatsAppDSN = filepath.Join(config.StateDir, "whatsmeow.db")
	}

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults.
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		dbDSN:         flag.String("db-dsn", config.DatabaseURL, "database DSN (SQLite path or PostgreSQL URL)"),
		apiAddr:       flag.String("addr", config.APIAddr, "API listen address"),
		transport:     flag.String("transport", config.Transport, "message transport: cloud, whatsmeow, or twilio"),
		verifyToken:   flag.String("verify-token", config.VerifyToken, "webhook verification token"),
		accessToken:   flag.String("access-token", config.AccessToken, "Cloud API access token"),
		phoneNumberID: flag.String("phone-number-id", config.PhoneNumberID, "Cloud API phone number ID"),
		waDSN:         flag.String("whatsmeow-dsn", config.WhatsAppDSN, "whatsmeow session database DSN"),
		qrOutput:      flag.String("qr-output", "", "write whatsmeow login QR code to this file"),
		numeric:       flag.Bool("numeric-code", false, "use a numeric whatsmeow pairing code instead of a QR code"),
		sendTo:        flag.String("send-to", "", "send one message to this number and exit"),
		sendBody:      flag.String("send-body", "Karibu DIRA 2050!", "body for the -send-to message"),
	}
	flag.Parse()
	return flags
}

// buildStore opens the session store, picking the backend from the DSN shape.
func buildStore(flags Flags) (store.Store, error) {
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// buildMessagingService constructs the selected transport.
func buildMessagingService(flags Flags) (messaging.Service, error) {
	switch *flags.transport {
	case "whatsmeow":
		waOpts := []whatsapp.Option{whatsapp.WithDBDSN(*flags.waDSN)}
		if *flags.qrOutput != "" {
			waOpts = append(waOpts, whatsapp.WithQRCodeOutput(*flags.qrOutput))
		}
		if *flags.numeric {
			waOpts = append(waOpts, whatsapp.WithNumericCode())
		}
		client, err := whatsapp.NewClient(waOpts...)
		if err != nil {
			return nil, err
		}
		return messaging.NewWhatsAppService(client), nil

	case "twilio":
		client, err := twiliowhatsapp.NewClient()
		if err != nil {
			return nil, err
		}
		return messaging.NewTwilioService(client), nil

	default:
		client, err := cloudapi.NewClient(
			cloudapi.WithAccessToken(*flags.accessToken),
			cloudapi.WithPhoneNumberID(*flags.phoneNumberID),
		)
		if err != nil {
			return nil, err
		}
		return messaging.NewCloudService(client), nil
	}
}
