package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prabhata303-del/Dd/internal/models"
)

func TestNormalizeDishCustomerPrice(t *testing.T) {
	d := normalizeDish("d1", rawDish{
		Name:     "Thali",
		Price:    json.RawMessage(`{"final":200,"restaurant":170,"adminFee":30}`),
		Discount: 25,
	})

	assert.Equal(t, 150.0, d.CustomerPrice, "customerPrice must be final * (1 - discount/100)")
	assert.Equal(t, 200.0, d.Price.Final)
	assert.Equal(t, 30.0, d.Price.AdminFee)
}

func TestNormalizeDishCustomerPriceRounds(t *testing.T) {
	d := normalizeDish("d1", rawDish{
		Name:     "Filter Coffee",
		Price:    json.RawMessage(`47.4`),
		Discount: 10,
	})

	assert.Equal(t, 42.66, d.CustomerPrice)
}

func TestNormalizeDishScalarPrice(t *testing.T) {
	d := normalizeDish("d1", rawDish{Name: "Vada", Price: json.RawMessage(`99.5`)})

	assert.Equal(t, models.Price{Final: 99.5, Restaurant: 99.5, AdminFee: 0}, d.Price)
	assert.Equal(t, 99.5, d.CustomerPrice)
}

func TestNormalizeDishNumericStrings(t *testing.T) {
	var r rawDish
	raw := []byte(`{"name":"Idli","price":"120","discount":"10","rating":"4.2"}`)
	if err := json.Unmarshal(raw, &r); err != nil {
		t.Fatalf("unmarshal raw dish: %v", err)
	}
	d := normalizeDish("d1", r)

	assert.Equal(t, 120.0, d.Price.Final)
	assert.Equal(t, 10.0, d.Discount)
	assert.Equal(t, 4.2, d.Rating)
	assert.Equal(t, 108.0, d.CustomerPrice)
}

func TestNormalizeDishDefaults(t *testing.T) {
	d := normalizeDish("d1", rawDish{})

	assert.Equal(t, defaultDishName, d.Name)
	assert.Equal(t, defaultCategory, d.Category)
	assert.Equal(t, PincodeAll, d.Pincode)
	assert.Equal(t, defaultDishImage, d.Image)
	assert.True(t, d.Available)
	assert.Zero(t, d.CustomerPrice)
}

func TestNormalizeDishClampsDiscount(t *testing.T) {
	over := normalizeDish("d1", rawDish{Price: json.RawMessage(`100`), Discount: 150})
	assert.Equal(t, 100.0, over.Discount)
	assert.Equal(t, 0.0, over.CustomerPrice)

	under := normalizeDish("d2", rawDish{Price: json.RawMessage(`100`), Discount: -5})
	assert.Equal(t, 0.0, under.Discount)
	assert.Equal(t, 100.0, under.CustomerPrice)
}

func TestNormalizeDishUnavailable(t *testing.T) {
	no := false
	d := normalizeDish("d1", rawDish{Name: "Dosa", Available: &no})
	assert.False(t, d.Available)
}

func TestNormalizeDishesSortsByName(t *testing.T) {
	dishes := normalizeDishes(map[string]rawDish{
		"b": {Name: "Vada"},
		"a": {Name: "Idli"},
		"c": {Name: "Idli"},
	})

	assert.Equal(t, []string{"Idli", "Idli", "Vada"}, []string{dishes[0].Name, dishes[1].Name, dishes[2].Name})
	assert.Equal(t, "a", dishes[0].ID, "equal names must tie-break on id")
}

func TestFilterByPincode(t *testing.T) {
	dishes := []models.Dish{
		{ID: "everywhere", Pincode: PincodeAll},
		{ID: "local", Pincode: "560001"},
		{ID: "elsewhere", Pincode: "560002"},
	}

	got := FilterByPincode(dishes, "560001")
	ids := make([]string, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"everywhere", "local"}, ids,
		"ALL is always deliverable, other pincodes need an exact match")

	assert.Len(t, FilterByPincode(dishes, ""), 3, "empty request pincode keeps everything")
}

func TestNormalizeCategoriesSortsByPosition(t *testing.T) {
	categories := normalizeCategories(map[string]rawCategory{
		"c2": {Name: "North Indian", Position: 2},
		"c1": {Name: "South Indian", Position: 1},
	})

	assert.Equal(t, "South Indian", categories[0].Name)
	assert.Equal(t, "North Indian", categories[1].Name)
}

func TestNormalizeBannersDropsInactiveAndImageless(t *testing.T) {
	off := false
	banners := normalizeBanners(map[string]rawBanner{
		"b1": {Image: "https://cdn/b1.png", Position: 2},
		"b2": {Image: "https://cdn/b2.png", Position: 1},
		"b3": {Image: "https://cdn/b3.png", Active: &off},
		"b4": {},
	})

	assert.Len(t, banners, 2)
	assert.Equal(t, "b2", banners[0].ID)
	assert.Equal(t, "b1", banners[1].ID)
}
