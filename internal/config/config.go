package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	Spa Spa

	OpenTime            string
	CloseTime           string
	ClosedDays          []time.Weekday
	SlotIntervalMinutes int
	BufferMinutes       int

	NotifyTimeout time.Duration

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleTokenFile    string
	GoogleCalendarID   string
	GoogleSheetsID     string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	AIModel       string
	MaxTokens     int
	ChatTimeout   time.Duration

	ChatRatePerMinute int
	CompletionCron    string
}

// Spa holds the business identity used in outgoing messages.
type Spa struct {
	Name         string
	Address      string
	Phone        string
	ManagerEmail string
	Location     *time.Location
}

// Load reads the process environment. Call godotenv.Load first if a .env
// file should be honoured.
func Load() (*Config, error) {
	env := &envReader{}
	cfg := &Config{
		Port:        getEnvStr(EnvPort, DefaultPort),
		DatabaseURL: getEnvStr(EnvDatabaseURL, ""),
		LogLevel:    getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat:   getEnvStr(EnvLogFormat, DefaultLogFormat),
		CORSOrigins: getEnvList(EnvCORSOrigins, []string{"*"}),

		Spa: Spa{
			Name:         getEnvStr(EnvSpaName, DefaultSpaName),
			Address:      getEnvStr(EnvSpaAddress, DefaultSpaAddress),
			Phone:        getEnvStr(EnvSpaPhone, DefaultSpaPhone),
			ManagerEmail: getEnvStr(EnvSpaManagerEmail, DefaultSpaManagerEmail),
		},

		OpenTime:            getEnvStr(EnvOpenTime, DefaultOpenTime),
		CloseTime:           getEnvStr(EnvCloseTime, DefaultCloseTime),
		SlotIntervalMinutes: env.num(EnvSlotIntervalMinutes, DefaultSlotIntervalMinutes),
		BufferMinutes:       env.num(EnvBufferMinutes, DefaultBufferMinutes),

		NotifyTimeout: env.duration(EnvNotifyTimeout, DefaultNotifyTimeout),

		SendGridAPIKey:    getEnvStr(EnvSendGridAPIKey, ""),
		SendGridFromEmail: getEnvStr(EnvSendGridFromEmail, ""),
		SendGridFromName:  getEnvStr(EnvSendGridFromName, ""),

		TwilioAccountSID: getEnvStr(EnvTwilioAccountSID, ""),
		TwilioAuthToken:  getEnvStr(EnvTwilioAuthToken, ""),
		TwilioFromNumber: getEnvStr(EnvTwilioFromNumber, ""),

		GoogleClientID:     getEnvStr(EnvGoogleClientID, ""),
		GoogleClientSecret: getEnvStr(EnvGoogleClientSecret, ""),
		GoogleTokenFile:    getEnvStr(EnvGoogleTokenFile, DefaultGoogleTokenFile),
		GoogleCalendarID:   getEnvStr(EnvGoogleCalendarID, DefaultGoogleCalendarID),
		GoogleSheetsID:     getEnvStr(EnvGoogleSheetsID, ""),

		OpenAIAPIKey:  getEnvStr(EnvOpenAIAPIKey, ""),
		OpenAIBaseURL: getEnvStr(EnvOpenAIBaseURL, DefaultOpenAIBaseURL),
		AIModel:       getEnvStr(EnvAIModel, DefaultAIModel),
		MaxTokens:     env.num(EnvMaxTokens, DefaultMaxTokens),
		ChatTimeout:   env.duration(EnvChatTimeout, DefaultChatTimeout),

		ChatRatePerMinute: env.num(EnvChatRatePerMinute, DefaultChatRatePerMinute),
		CompletionCron:    getEnvStr(EnvCompletionCron, DefaultCompletionCron),
	}

	errs := env.errs

	if cfg.SendGridFromName == "" {
		cfg.SendGridFromName = cfg.Spa.Name
	}

	loc, err := time.LoadLocation(getEnvStr(EnvSpaTimezone, DefaultSpaTimezone))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvSpaTimezone, err))
		loc = time.UTC
	}
	cfg.Spa.Location = loc

	days, err := ParseWeekdays(getEnvStr(EnvClosedDays, DefaultClosedDays))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvClosedDays, err))
	}
	cfg.ClosedDays = days

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, fmt.Errorf("%s not set", EnvDatabaseURL))
	}
	if c.SlotIntervalMinutes <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvSlotIntervalMinutes, c.SlotIntervalMinutes))
	}
	if c.BufferMinutes < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", EnvBufferMinutes, c.BufferMinutes))
	}
	if c.NotifyTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", EnvNotifyTimeout))
	}
	if c.ChatRatePerMinute <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvChatRatePerMinute, c.ChatRatePerMinute))
	}
	open, errOpen := time.Parse("15:04", c.OpenTime)
	if errOpen != nil {
		errs = append(errs, fmt.Errorf("%s must be HH:MM, got %q", EnvOpenTime, c.OpenTime))
	}
	closing, errClose := time.Parse("15:04", c.CloseTime)
	if errClose != nil {
		errs = append(errs, fmt.Errorf("%s must be HH:MM, got %q", EnvCloseTime, c.CloseTime))
	}
	if errOpen == nil && errClose == nil && !closing.After(open) {
		errs = append(errs, fmt.Errorf("%s (%s) must be after %s (%s)", EnvCloseTime, c.CloseTime, EnvOpenTime, c.OpenTime))
	}
	return errors.Join(errs...)
}

// SendGridConfigured reports whether email channels can be built.
func (c *Config) SendGridConfigured() bool {
	return c.SendGridAPIKey != "" && c.SendGridFromEmail != ""
}

func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

// ParseWeekdays accepts a comma separated list of English day names or
// their three letter abbreviations. An empty string means no closed days.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || part == "none" {
			continue
		}
		day, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	return days, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

func getEnvStr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// envReader parses typed values and keeps every parse failure so Load
// can report all bad keys at once.
type envReader struct {
	errs []error
}

func (r *envReader) num(key string, def int) int {
	v := getEnvStr(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a whole number, got %q", key, v))
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := getEnvStr(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a duration such as 15s, got %q", key, v))
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := getEnvStr(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
