package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"spadesk/internal/api"
	"spadesk/internal/availability"
	"spadesk/internal/catalog"
	"spadesk/internal/chat"
	"spadesk/internal/config"
	"spadesk/internal/db"
	"spadesk/internal/google"
	"spadesk/internal/notify"
	"spadesk/internal/repository"
	"spadesk/internal/service"
	"spadesk/internal/validation"
)

const shutdownTimeout = 15 * time.Second

func serve(parent context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn, log); err != nil {
		return err
	}

	services, err := repository.NewServiceRepository(conn).ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load services: %w", err)
	}
	cat := catalog.New(services)
	log.Info("Service catalog loaded", "services", cat.Len())

	calc, err := newCalculator(cfg)
	if err != nil {
		return err
	}

	sender, err := service.NewSenderService(cfg.Spa)
	if err != nil {
		return err
	}
	notifier := service.NewNotifyService(sender, cfg.Spa.ManagerEmail, cfg.Spa.Address, cfg.Spa.Location, cfg.NotifyTimeout, log)
	wireNotifications(ctx, cfg, notifier, log)

	responder, err := newResponder(cfg, cat, log)
	if err != nil {
		return err
	}

	v := validation.New()
	bookings := service.NewBookingService(repository.NewBookingRepository(conn), cat, calc, notifier, v, log)
	inquiries := service.NewInquiryService(repository.NewInquiryRepository(conn), notifier, responder, v, log)
	chats := service.NewChatService(repository.NewChatRepository(conn), responder, v, log)

	jobs := service.NewJobService(repository.NewJobRepository(conn), cfg.Spa.Location.String(), log)
	scheduler, err := jobs.Schedule(ctx, cfg.CompletionCron)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	router := api.NewRouter(api.Routes{
		Health:      api.NewHealthHandler(conn, log),
		User:        api.NewUserHandler(bookings, inquiries, log),
		Services:    api.NewServicesHandler(cat, log),
		Admin:       api.NewAdminHandler(inquiries, chats, log),
		Chat:        api.NewChatHandler(chats, cfg.CORSOrigins, log),
		ChatLimiter: api.NewRateLimiter(cfg.ChatRatePerMinute, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Wrap(router, cfg.CORSOrigins, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server running", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newCalculator(cfg *config.Config) (*availability.Calculator, error) {
	open, err := availability.ParseClock(cfg.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.EnvOpenTime, err)
	}
	closing, err := availability.ParseClock(cfg.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.EnvCloseTime, err)
	}
	hours := availability.BusinessHours{Open: open, Close: closing, ClosedDays: cfg.ClosedDays}
	return availability.NewCalculator(hours, cfg.SlotIntervalMinutes, cfg.BufferMinutes, cfg.Spa.Location, time.Now), nil
}

// wireNotifications attaches every integration that is configured. Any
// left nil reports "not configured" in booking responses.
func wireNotifications(ctx context.Context, cfg *config.Config, n *service.NotifyService, log *slog.Logger) {
	if cfg.SendGridConfigured() {
		n.Mailer = notify.NewEmailSender(notify.EmailConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, log)
	} else {
		log.Warn("SendGrid not configured, emails disabled")
	}

	if cfg.TwilioConfigured() {
		n.SMS = notify.NewSMSSender(notify.SMSConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
		}, log)
	} else {
		log.Warn("Twilio not configured, SMS disabled")
	}

	httpClient, err := google.HTTPClient(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleTokenFile)
	if err != nil {
		log.Warn("Google not configured, calendar and spreadsheet disabled", "error", err)
		return
	}

	calendarClient, err := google.NewCalendarClient(ctx, log, cfg.GoogleCalendarID, googleOptions(httpClient)...)
	if err != nil {
		log.Error("Could not create calendar client", "error", err)
	} else {
		n.Calendar = calendarClient
	}

	if cfg.GoogleSheetsID == "" {
		log.Warn("GOOGLE_SHEETS_ID not set, spreadsheet disabled")
		return
	}
	sheetsClient, err := google.NewSheetsClient(ctx, log, cfg.GoogleSheetsID, googleOptions(httpClient)...)
	if err != nil {
		log.Error("Could not create sheets client", "error", err)
		return
	}
	n.Sheets = sheetsClient
}

func googleOptions(httpClient *http.Client) []option.ClientOption {
	return []option.ClientOption{option.WithHTTPClient(httpClient)}
}

// newResponder returns nil when no API key is set; chat then always uses
// the fallback reply and inquiries get no drafted answer.
func newResponder(cfg *config.Config, cat *catalog.Catalog, log *slog.Logger) (chat.Responder, error) {
	if cfg.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY not set, chat uses the fallback reply")
		return nil, nil
	}

	data := chat.KnowledgeData{
		SpaName:    cfg.Spa.Name,
		Address:    cfg.Spa.Address,
		Phone:      cfg.Spa.Phone,
		Email:      cfg.Spa.ManagerEmail,
		Hours:      cfg.OpenTime + " - " + cfg.CloseTime,
		ClosedDays: weekdayList(cfg.ClosedDays),
	}
	for _, s := range cat.List("") {
		data.Services = append(data.Services, chat.KnowledgeService{
			Name:     s.Name,
			Duration: s.Duration,
			Price:    s.Price,
			Category: s.Category,
		})
	}
	system, err := chat.Knowledge(data)
	if err != nil {
		return nil, err
	}

	return chat.NewOpenAIResponder(chat.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.AIModel,
		MaxTokens:   cfg.MaxTokens,
		Temperature: 0.7,
		Timeout:     cfg.ChatTimeout,
	}, system, log), nil
}

func weekdayList(days []time.Weekday) string {
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
