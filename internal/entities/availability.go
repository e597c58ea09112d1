package entities

type AvailabilityResponse struct {
	Date           string   `json:"date"`
	ServiceName    string   `json:"service_name"`
	AvailableSlots []string `json:"available_slots"`
}
