package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreePutAndGet(t *testing.T) {
	var doc tree

	doc.put("", map[string]interface{}{
		"dishes": map[string]interface{}{
			"d1": map[string]interface{}{"name": "Masala Dosa"},
		},
	})

	assert.Equal(t, "Masala Dosa", doc.get("dishes/d1/name"))
	assert.Nil(t, doc.get("dishes/d2"), "missing record should read as nil")
	assert.Nil(t, doc.get("dishes/d1/name/deeper"), "descending through a scalar should read as nil")
}

func TestTreePutReplacesSubtree(t *testing.T) {
	var doc tree
	doc.put("orders/o1", map[string]interface{}{"status": "pending", "total": 120.0})
	doc.put("orders/o1", map[string]interface{}{"status": "accepted"})

	assert.Equal(t, "accepted", doc.get("orders/o1/status"))
	assert.Nil(t, doc.get("orders/o1/total"), "put must replace the whole subtree")
}

func TestTreePatchMergesChildren(t *testing.T) {
	var doc tree
	doc.put("orders/o1", map[string]interface{}{"status": "pending", "total": 120.0})
	doc.patch("orders/o1", map[string]interface{}{"status": "accepted", "driverId": "drv1"})

	assert.Equal(t, "accepted", doc.get("orders/o1/status"))
	assert.Equal(t, 120.0, doc.get("orders/o1/total"), "patch must keep untouched children")
	assert.Equal(t, "drv1", doc.get("orders/o1/driverId"))
}

func TestTreeNullDeletesAndPrunes(t *testing.T) {
	var doc tree
	doc.put("users/u1/wishlist/d1", map[string]interface{}{"dishId": "d1"})
	doc.put("users/u1/wishlist/d1", nil)

	assert.Nil(t, doc.get("users/u1/wishlist/d1"))
	assert.Nil(t, doc.get("users/u1"), "emptied ancestors should be pruned")
	assert.JSONEq(t, `null`, string(doc.marshal("")))
}

func TestTreeMarshalMissingIsNull(t *testing.T) {
	var doc tree
	doc.put("settings", map[string]interface{}{"storeOpen": true})

	assert.JSONEq(t, `{"storeOpen":true}`, string(doc.marshal("settings")))
	assert.Equal(t, "null", string(doc.marshal("banners")))
}
