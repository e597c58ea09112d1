package entities

type InquiryRequest struct {
	Name    string  `json:"name" validate:"notblank,max=100"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Subject string  `json:"subject" validate:"notblank,max=200"`
	Message string  `json:"message" validate:"notblank,max=5000"`
}

type InquiryConfirmation struct {
	Success       bool             `json:"success"`
	InquiryID     int              `json:"inquiry_id"`
	Status        string           `json:"status"`
	AIResponse    *string          `json:"ai_response,omitempty"`
	Message       string           `json:"message"`
	Notifications []ChannelOutcome `json:"notifications"`
}

type InquiryResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Subject     string  `json:"subject"`
	Message     string  `json:"message"`
	Status      string  `json:"status"`
	AIResponse  *string `json:"ai_response,omitempty"`
	CreatedAt   string  `json:"created_at"`
	RespondedAt *string `json:"responded_at,omitempty"`
}

type InquiryReply struct {
	ResponseMessage string `json:"response_message" validate:"notblank,max=5000"`
}

type InquiriesList struct {
	Total     int64             `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
	Inquiries []InquiryResponse `json:"inquiries"`
}
