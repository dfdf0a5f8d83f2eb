package models

// Address is stored embedded (restaurants, orders, deliveries) or as JSON
// (customer saved addresses).
type Address struct {
	Label     string   `json:"label,omitempty"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state,omitempty"`
	ZipCode   string   `json:"zip_code,omitempty"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// IsZero reports whether no street or city was given.
func (a Address) IsZero() bool {
	return a.Street == "" && a.City == ""
}
