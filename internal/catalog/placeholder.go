package catalog

import "github.com/prabhata303-del/Dd/internal/models"

// Fixed payloads served when the backend read fails. The client always has
// something to render; the failure itself is only logged.
var placeholderDishes = []models.Dish{
	{
		ID:            "placeholder-1",
		Name:          "Masala Dosa",
		Description:   "Crisp dosa with spiced potato filling, served with chutney and sambar.",
		Image:         defaultDishImage,
		Category:      "South Indian",
		Pincode:       PincodeAll,
		Price:         models.Price{Final: 120, Restaurant: 100, AdminFee: 20},
		Discount:      0,
		CustomerPrice: 120,
		Rating:        4.5,
		Available:     true,
	},
	{
		ID:            "placeholder-2",
		Name:          "Paneer Butter Masala",
		Description:   "Cottage cheese simmered in a rich tomato and butter gravy.",
		Image:         defaultDishImage,
		Category:      "North Indian",
		Pincode:       PincodeAll,
		Price:         models.Price{Final: 220, Restaurant: 190, AdminFee: 30},
		Discount:      10,
		CustomerPrice: 198,
		Rating:        4.3,
		Available:     true,
	},
	{
		ID:            "placeholder-3",
		Name:          "Veg Biryani",
		Description:   "Fragrant basmati rice layered with vegetables and saffron.",
		Image:         defaultDishImage,
		Category:      "Biryani",
		Pincode:       PincodeAll,
		Price:         models.Price{Final: 180, Restaurant: 150, AdminFee: 30},
		Discount:      0,
		CustomerPrice: 180,
		Rating:        4.1,
		Available:     true,
	},
}

var placeholderCategories = []models.Category{
	{ID: "placeholder-1", Name: "South Indian", Position: 1},
	{ID: "placeholder-2", Name: "North Indian", Position: 2},
	{ID: "placeholder-3", Name: "Biryani", Position: 3},
}

var placeholderBanners = []models.Banner{
	{ID: "placeholder-1", Image: defaultDishImage, Position: 1, Active: true},
}

// PlaceholderDishes returns a copy of the fallback menu.
func PlaceholderDishes() []models.Dish {
	out := make([]models.Dish, len(placeholderDishes))
	copy(out, placeholderDishes)
	return out
}

// PlaceholderCategories returns a copy of the fallback category list.
func PlaceholderCategories() []models.Category {
	out := make([]models.Category, len(placeholderCategories))
	copy(out, placeholderCategories)
	return out
}

// PlaceholderBanners returns a copy of the fallback banner list.
func PlaceholderBanners() []models.Banner {
	out := make([]models.Banner, len(placeholderBanners))
	copy(out, placeholderBanners)
	return out
}
