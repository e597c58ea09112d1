package entities

// BookingEmailData feeds the booking confirmation templates.
type BookingEmailData struct {
	SpaName          string
	SpaAddress       string
	SpaPhone         string
	ClientName       string
	ClientEmail      string
	ClientPhone      string
	ConfirmationCode string
	ServiceName      string
	Duration         int
	DateFormatted    string
	TimeFormatted    string
	TotalPrice       string
	SpecialRequests  string
	CurrentYear      int
}

// InquiryEmailData feeds the inquiry acknowledgement and alert templates.
type InquiryEmailData struct {
	SpaName     string
	SpaPhone    string
	InquiryID   int
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	Response    string
	CurrentYear int
}
