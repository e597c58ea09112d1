package entities

type BookingRequest struct {
	ClientName      string  `json:"client_name" validate:"notblank,max=100"`
	ClientEmail     string  `json:"client_email" validate:"required,email,max=255"`
	ClientPhone     string  `json:"client_phone" validate:"required,phone"`
	ServiceName     string  `json:"service_name" validate:"notblank"`
	AppointmentDate string  `json:"appointment_date" validate:"required,isodate"` // YYYY-MM-DD
	AppointmentTime string  `json:"appointment_time" validate:"required,hhmm"`    // HH:MM
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

type BookingConfirmation struct {
	Success             bool             `json:"success"`
	BookingID           int              `json:"booking_id"`
	ConfirmationCode    string           `json:"confirmation_code"`
	AppointmentDatetime string           `json:"appointment_datetime"`
	ServiceName         string           `json:"service_name"`
	TotalPrice          float64          `json:"total_price"`
	Status              string           `json:"status"`
	Message             string           `json:"message"`
	Notifications       []ChannelOutcome `json:"notifications"`
}

type BookingResponse struct {
	ID               int     `json:"id"`
	ConfirmationCode string  `json:"confirmation_code"`
	ClientName       string  `json:"client_name"`
	ClientEmail      string  `json:"client_email"`
	ClientPhone      string  `json:"client_phone"`
	ServiceName      string  `json:"service_name"`
	ServiceDuration  int     `json:"service_duration"`
	AppointmentDate  string  `json:"appointment_date"`
	AppointmentTime  string  `json:"appointment_time"`
	TotalPrice       float64 `json:"total_price"`
	Status           string  `json:"status"`
	SpecialRequests  *string `json:"special_requests,omitempty"`
	CalendarEventID  *string `json:"google_calendar_event_id,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// ChannelOutcome is the result of one notification channel.
type ChannelOutcome struct {
	Channel string `json:"channel"`
	OK      bool   `json:"ok"`
	Ref     string `json:"ref,omitempty"`
	Error   string `json:"error,omitempty"`
}
