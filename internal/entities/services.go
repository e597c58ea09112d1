package entities

type ServiceResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

type ServiceCategory struct {
	Category string            `json:"category"`
	Services []ServiceResponse `json:"services"`
}
