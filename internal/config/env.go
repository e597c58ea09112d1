package config

import "time"

const (
	EnvPort        = "PORT"
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
	EnvCORSOrigins = "CORS_ORIGINS"

	EnvSpaName         = "SPA_NAME"
	EnvSpaAddress      = "SPA_ADDRESS"
	EnvSpaPhone        = "SPA_PHONE"
	EnvSpaManagerEmail = "SPA_MANAGER_EMAIL"
	EnvSpaTimezone     = "SPA_TIMEZONE"

	EnvOpenTime            = "OPEN_TIME"
	EnvCloseTime           = "CLOSE_TIME"
	EnvClosedDays          = "CLOSED_DAYS"
	EnvSlotIntervalMinutes = "SLOT_INTERVAL_MINUTES"
	EnvBufferMinutes       = "BUFFER_MINUTES"

	EnvNotifyTimeout = "NOTIFY_TIMEOUT"

	EnvSendGridAPIKey    = "SENDGRID_API_KEY"
	EnvSendGridFromEmail = "SENDGRID_FROM_EMAIL"
	EnvSendGridFromName  = "SENDGRID_FROM_NAME"

	EnvTwilioAccountSID = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken  = "TWILIO_AUTH_TOKEN"
	EnvTwilioFromNumber = "TWILIO_FROM_NUMBER"

	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvGoogleTokenFile    = "GOOGLE_TOKEN_FILE"
	EnvGoogleCalendarID   = "GOOGLE_CALENDAR_ID"
	EnvGoogleSheetsID     = "GOOGLE_SHEETS_ID"

	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvAIModel       = "AI_MODEL"
	EnvMaxTokens     = "MAX_TOKENS"
	EnvChatTimeout   = "CHAT_TIMEOUT"

	EnvChatRatePerMinute = "CHAT_RATE_PER_MINUTE"
	EnvCompletionCron    = "COMPLETION_CRON"
)

const (
	DefaultPort      = "8000"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultSpaName         = "Luxury Spa & Wellness"
	DefaultSpaAddress      = "123 Wellness Street, City, State 12345"
	DefaultSpaPhone        = "+1 (555) 123-4567"
	DefaultSpaManagerEmail = "manager@yourspa.com"
	DefaultSpaTimezone     = "America/New_York"

	DefaultOpenTime            = "09:00"
	DefaultCloseTime           = "18:00"
	DefaultClosedDays          = "sunday"
	DefaultSlotIntervalMinutes = 60
	DefaultBufferMinutes       = 0

	DefaultNotifyTimeout = 15 * time.Second

	DefaultGoogleTokenFile  = "token-spa.json"
	DefaultGoogleCalendarID = "primary"

	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultAIModel       = "gpt-3.5-turbo"
	DefaultMaxTokens     = 1000
	DefaultChatTimeout   = 30 * time.Second

	DefaultChatRatePerMinute = 20
	DefaultCompletionCron    = "@every 15m"
)
