package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/depositdefender/internal/domain"
)

func TestGetInspectionWithDetails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	prop, in := seedInspection(t, s)

	kitchen, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomKitchen, Name: "Kitchen"})
	require.NoError(t, err)
	bath, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomBathroom, Name: "Bath"})
	require.NoError(t, err)
	sink, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{RoomID: kitchen.ID, Item: "Sink"})
	require.NoError(t, err)
	oven, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{RoomID: kitchen.ID, Item: "Oven"})
	require.NoError(t, err)
	photo, err := s.CreatePhoto(ctx, domain.Photo{ChecklistItemID: sink.ID, Image: []byte("img")})
	require.NoError(t, err)

	got, err := s.GetInspectionWithDetails(ctx, in.ID)
	require.NoError(t, err)

	want := &domain.InspectionDetails{
		Inspection: in,
		Property:   prop,
		Rooms: []*domain.RoomDetails{
			{Room: kitchen, Items: []*domain.ItemDetails{
				{ChecklistItem: sink, Photos: []*domain.Photo{photo}},
				{ChecklistItem: oven, Photos: []*domain.Photo{}},
			}},
			{Room: bath, Items: []*domain.ItemDetails{}},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("inspection details mismatch (-want +got):\n%s", diff)
	}
}

func TestGetInspectionWithDetails_Missing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetInspectionWithDetails(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetInspectionWithDetails_DanglingProperty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in, err := s.CreateInspection(ctx, domain.Inspection{PropertyID: "gone"})
	require.NoError(t, err)

	got, err := s.GetInspectionWithDetails(ctx, in.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Property)
	assert.Empty(t, got.Rooms)
}

func TestGetInspectionProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, in := seedInspection(t, s)

	done := true
	var rooms []*domain.Room
	for i := 0; i < 3; i++ {
		r, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomBedroom})
		require.NoError(t, err)
		rooms = append(rooms, r)
	}
	for _, r := range rooms[:2] {
		_, err := s.UpdateRoom(ctx, r.ID, domain.RoomPatch{IsCompleted: &done})
		require.NoError(t, err)
	}
	for i := 0; i < 10; i++ {
		it, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{RoomID: rooms[i%3].ID, Item: "Item"})
		require.NoError(t, err)
		if i < 6 {
			_, err = s.UpdateChecklistItem(ctx, it.ID, domain.ChecklistItemPatch{IsChecked: &done})
			require.NoError(t, err)
		}
	}

	progress, err := s.GetInspectionProgress(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InspectionProgress{
		CompletedRooms:     2,
		TotalRooms:         3,
		CompletedItems:     6,
		TotalItems:         10,
		ProgressPercentage: 60,
	}, progress)
}

func TestGetInspectionProgress_Empty(t *testing.T) {
	s := openTestStore(t)
	_, in := seedInspection(t, s)

	progress, err := s.GetInspectionProgress(context.Background(), in.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InspectionProgress{}, progress)
}

func TestGetStorageStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, in := seedInspection(t, s)

	_, err := s.CreatePhoto(ctx, domain.Photo{ChecklistItemID: "i1", Image: make([]byte, 100000), Thumbnail: make([]byte, 5000)})
	require.NoError(t, err)
	_, err = s.CreatePhoto(ctx, domain.Photo{ChecklistItemID: "i2", Image: make([]byte, 250000)})
	require.NoError(t, err)
	_, err = s.CreateReport(ctx, domain.Report{InspectionID: in.ID, Filename: "r.pdf", Data: make([]byte, 50000)})
	require.NoError(t, err)

	stats, err := s.GetStorageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StorageStats{
		Properties:        1,
		Inspections:       1,
		Photos:            2,
		Reports:           1,
		TotalStorageBytes: 400000,
		TotalStorageMB:    0.38,
	}, stats)
}

func TestClearAllData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, in := seedInspection(t, s)

	room, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomKitchen})
	require.NoError(t, err)
	item, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{RoomID: room.ID, Item: "Sink"})
	require.NoError(t, err)
	_, err = s.CreatePhoto(ctx, domain.Photo{ChecklistItemID: item.ID, Image: []byte{1}})
	require.NoError(t, err)
	_, err = s.CreateShareLink(ctx, domain.ShareableLink{InspectionID: in.ID, MaxAccess: 1})
	require.NoError(t, err)

	require.NoError(t, s.ClearAllData(ctx))

	stats, err := s.GetStorageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StorageStats{}, stats)

	rooms, err := s.ListRoomsByInspection(ctx, in.ID)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	links, err := s.ListShareLinksByInspection(ctx, in.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}
