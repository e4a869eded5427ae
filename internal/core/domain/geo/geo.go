package geo

// Location is a resolved place: either the result of forward geocoding a
// name, or of reverse geocoding a coordinate pair.
type Location struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// LocateRequest asks for a free-text passage to be resolved to coordinates:
// a place name is extracted from the text, then geocoded.
type LocateRequest struct {
	Text string `json:"text" validate:"required"`
}
