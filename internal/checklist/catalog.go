// Package checklist holds the built-in inspection checklist for each room
// type. The catalog is static and read-only.
package checklist

import "github.com/vbonduro/depositdefender/internal/domain"

type Entry struct {
	Item        string
	Description string
	Required    bool
}

type Category struct {
	Name    string
	Entries []Entry
}

type Template struct {
	RoomType   domain.RoomType
	Categories []Category
}

var roomOrder = []domain.RoomType{
	domain.RoomKitchen,
	domain.RoomBathroom,
	domain.RoomBedroom,
	domain.RoomLiving,
	domain.RoomDining,
	domain.RoomCommonArea,
	domain.RoomOutdoor,
}

var displayNames = map[domain.RoomType]string{
	domain.RoomKitchen:    "Kitchen",
	domain.RoomBathroom:   "Bathroom",
	domain.RoomBedroom:    "Bedroom",
	domain.RoomLiving:     "Living Room",
	domain.RoomDining:     "Dining Room",
	domain.RoomCommonArea: "Common Areas",
	domain.RoomOutdoor:    "Outdoor Spaces",
}

// Lookup returns the checklist for a room type and whether one exists.
func Lookup(rt domain.RoomType) (Template, bool) {
	t, ok := templates[rt]
	return t, ok
}

// RoomTypes lists every room type in catalog order.
func RoomTypes() []domain.RoomType {
	out := make([]domain.RoomType, len(roomOrder))
	copy(out, roomOrder)
	return out
}

func DisplayName(rt domain.RoomType) string {
	if name, ok := displayNames[rt]; ok {
		return name
	}
	return string(rt)
}

func TotalItems(rt domain.RoomType) int {
	n := 0
	for _, c := range templates[rt].Categories {
		n += len(c.Entries)
	}
	return n
}

func RequiredItems(rt domain.RoomType) int {
	n := 0
	for _, c := range templates[rt].Categories {
		for _, e := range c.Entries {
			if e.Required {
				n++
			}
		}
	}
	return n
}

// Items instantiates unsaved checklist items for roomID, in catalog order.
// With requiredOnly set, optional entries are skipped.
func Items(rt domain.RoomType, roomID string, requiredOnly bool) []domain.ChecklistItem {
	var out []domain.ChecklistItem
	for _, c := range templates[rt].Categories {
		for _, e := range c.Entries {
			if requiredOnly && !e.Required {
				continue
			}
			out = append(out, domain.ChecklistItem{
				RoomID:      roomID,
				Category:    c.Name,
				Item:        e.Item,
				Description: e.Description,
			})
		}
	}
	return out
}
