package models

// Category represents a menu category shown on the home screen.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
	Position int    `json:"position"`
}

// Banner represents a promotional banner in the home carousel.
type Banner struct {
	ID       string `json:"id"`
	Image    string `json:"image"`
	Link     string `json:"link,omitempty"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}
