package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/depositdefender/internal/domain"
)

func TestEveryRoomTypeHasTemplate(t *testing.T) {
	for _, rt := range RoomTypes() {
		tmpl, ok := Lookup(rt)
		require.True(t, ok, rt)
		assert.Equal(t, rt, tmpl.RoomType)
		assert.NotEmpty(t, tmpl.Categories, rt)
		assert.True(t, rt.Valid())
	}
	assert.Len(t, RoomTypes(), 7)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("garage")
	assert.False(t, ok)
	assert.Zero(t, TotalItems("garage"))
}

func TestCounts(t *testing.T) {
	tests := []struct {
		rt       domain.RoomType
		total    int
		required int
	}{
		{domain.RoomKitchen, 19, 16},
		{domain.RoomBathroom, 14, 12},
		{domain.RoomDining, 8, 4},
		{domain.RoomOutdoor, 9, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.rt), func(t *testing.T) {
			assert.Equal(t, tt.total, TotalItems(tt.rt))
			assert.Equal(t, tt.required, RequiredItems(tt.rt))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Living Room", DisplayName(domain.RoomLiving))
	assert.Equal(t, "Outdoor Spaces", DisplayName(domain.RoomOutdoor))
	assert.Equal(t, "attic", DisplayName("attic"))
}

func TestItems(t *testing.T) {
	items := Items(domain.RoomKitchen, "room-1", false)
	require.Len(t, items, TotalItems(domain.RoomKitchen))
	assert.Equal(t, "room-1", items[0].RoomID)
	assert.Equal(t, "Appliances", items[0].Category)
	assert.Equal(t, "Refrigerator", items[0].Item)
	assert.False(t, items[0].IsChecked)
	assert.Empty(t, items[0].ID)

	required := Items(domain.RoomKitchen, "room-1", true)
	assert.Len(t, required, RequiredItems(domain.RoomKitchen))
	for _, it := range required {
		assert.NotEqual(t, "Microwave", it.Item)
	}

	assert.Empty(t, Items(domain.RoomOutdoor, "room-2", true))
}

func TestRoomTypesReturnsCopy(t *testing.T) {
	a := RoomTypes()
	a[0] = "changed"
	assert.Equal(t, domain.RoomKitchen, RoomTypes()[0])
}
