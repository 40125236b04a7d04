package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/prabhata303-del/Dd/internal/models"
)

// PincodeAll marks a record as available in every delivery area.
const PincodeAll = "ALL"

// Defaults substituted for missing fields during normalization.
const (
	defaultDishName  = "Unnamed Dish"
	defaultCategory  = "General"
	defaultDishImage = "https://storage.googleapis.com/dd-assets/dish-placeholder.png"
)

// flexFloat decodes JSON numbers and numeric strings. Records written by
// older clients store numbers as strings; anything unparseable reads as 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// rawDish tolerates the looser shapes stored dish records carry.
type rawDish struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Pincode     string          `json:"pincode"`
	Price       json.RawMessage `json:"price"`
	Discount    flexFloat       `json:"discount"`
	Rating      flexFloat       `json:"rating"`
	Available   *bool           `json:"available"`
}

type rawCategory struct {
	Name     string    `json:"name"`
	Image    string    `json:"image"`
	Position flexFloat `json:"position"`
}

type rawBanner struct {
	Image    string    `json:"image"`
	Link     string    `json:"link"`
	Position flexFloat `json:"position"`
	Active   *bool     `json:"active"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizePrice expands a price record into the structured form. A bare
// number p reads as {final: p, restaurant: p, adminFee: 0}.
func normalizePrice(raw json.RawMessage) models.Price {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return models.Price{}
	}
	if trimmed[0] == '{' {
		var sp struct {
			Final      flexFloat `json:"final"`
			Restaurant flexFloat `json:"restaurant"`
			AdminFee   flexFloat `json:"adminFee"`
		}
		if err := json.Unmarshal(trimmed, &sp); err != nil {
			return models.Price{}
		}
		return models.Price{
			Final:      float64(sp.Final),
			Restaurant: float64(sp.Restaurant),
			AdminFee:   float64(sp.AdminFee),
		}
	}
	var f flexFloat
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return models.Price{}
	}
	p := float64(f)
	return models.Price{Final: p, Restaurant: p}
}

func normalizeDish(id string, r rawDish) models.Dish {
	d := models.Dish{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		Category:    r.Category,
		Pincode:     r.Pincode,
		Price:       normalizePrice(r.Price),
		Discount:    float64(r.Discount),
		Rating:      float64(r.Rating),
		Available:   true,
	}
	if d.Name == "" {
		d.Name = defaultDishName
	}
	if d.Category == "" {
		d.Category = defaultCategory
	}
	if d.Pincode == "" {
		d.Pincode = PincodeAll
	}
	if d.Image == "" {
		d.Image = defaultDishImage
	}
	if d.Discount < 0 {
		d.Discount = 0
	}
	if d.Discount > 100 {
		d.Discount = 100
	}
	if r.Available != nil {
		d.Available = *r.Available
	}
	d.CustomerPrice = round2(d.Price.Final * (1 - d.Discount/100))
	return d
}

func normalizeDishes(records map[string]rawDish) []models.Dish {
	dishes := make([]models.Dish, 0, len(records))
	for id, r := range records {
		dishes = append(dishes, normalizeDish(id, r))
	}
	sort.Slice(dishes, func(i, j int) bool {
		if dishes[i].Name != dishes[j].Name {
			return dishes[i].Name < dishes[j].Name
		}
		return dishes[i].ID < dishes[j].ID
	})
	return dishes
}

// FilterByPincode keeps dishes deliverable to the requested pincode. An
// empty request keeps everything; dishes marked ALL are always kept;
// otherwise only exact matches pass.
func FilterByPincode(dishes []models.Dish, pincode string) []models.Dish {
	if pincode == "" {
		return dishes
	}
	out := make([]models.Dish, 0, len(dishes))
	for _, d := range dishes {
		if d.Pincode == PincodeAll || d.Pincode == pincode {
			out = append(out, d)
		}
	}
	return out
}

func normalizeCategories(records map[string]rawCategory) []models.Category {
	categories := make([]models.Category, 0, len(records))
	for id, r := range records {
		c := models.Category{
			ID:       id,
			Name:     r.Name,
			Image:    r.Image,
			Position: int(r.Position),
		}
		if c.Name == "" {
			c.Name = defaultCategory
		}
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Position != categories[j].Position {
			return categories[i].Position < categories[j].Position
		}
		return categories[i].Name < categories[j].Name
	})
	return categories
}

// normalizeBanners drops inactive banners and orders the rest for the
// carousel.
func normalizeBanners(records map[string]rawBanner) []models.Banner {
	banners := make([]models.Banner, 0, len(records))
	for id, r := range records {
		active := true
		if r.Active != nil {
			active = *r.Active
		}
		if !active || r.Image == "" {
			continue
		}
		banners = append(banners, models.Banner{
			ID:       id,
			Image:    r.Image,
			Link:     r.Link,
			Position: int(r.Position),
			Active:   true,
		})
	}
	sort.Slice(banners, func(i, j int) bool {
		if banners[i].Position != banners[j].Position {
			return banners[i].Position < banners[j].Position
		}
		return banners[i].ID < banners[j].ID
	})
	return banners
}
