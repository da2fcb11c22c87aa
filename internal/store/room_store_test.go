package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/depositdefender/internal/domain"
)

func TestRoomCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, in := seedInspection(t, s)

	room, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomKitchen, Name: "Kitchen"})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.False(t, room.IsCompleted)
	assert.Nil(t, room.CompletedAt)

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room, got)
}

func TestRoomCreate_InvalidType(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CreateRoom(context.Background(), domain.Room{Type: "attic"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRoomUpdate_CompletionTransitions(t *testing.T) {
	clock := newFakeClock()
	s := openTestStore(t, WithClock(clock.Now))
	ctx := context.Background()
	_, in := seedInspection(t, s)

	room, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomBathroom})
	require.NoError(t, err)

	done := true
	completed, err := s.UpdateRoom(ctx, room.ID, domain.RoomPatch{IsCompleted: &done})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	first := *completed.CompletedAt

	// Re-completing an already completed room does not move completedAt.
	again, err := s.UpdateRoom(ctx, room.ID, domain.RoomPatch{IsCompleted: &done})
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.Equal(t, first, *again.CompletedAt)

	notes := "grout stained"
	withNotes, err := s.UpdateRoom(ctx, room.ID, domain.RoomPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, first, *withNotes.CompletedAt)
	assert.Equal(t, "grout stained", withNotes.Notes)

	undone := false
	reopened, err := s.UpdateRoom(ctx, room.ID, domain.RoomPatch{IsCompleted: &undone})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, reopened, got)
}

func TestRoomUpdate_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.UpdateRoom(context.Background(), "missing", domain.RoomPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomDelete_OnlyRemovesRoom(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, in := seedInspection(t, s)

	room, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomOutdoor})
	require.NoError(t, err)
	item, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{RoomID: room.ID, Item: "Fence"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRoom(ctx, room.ID))
	assert.ErrorIs(t, s.DeleteRoom(ctx, room.ID), domain.ErrNotFound)

	orphan, err := s.GetChecklistItem(ctx, item.ID)
	require.NoError(t, err)
	assert.NotNil(t, orphan)
}

func TestDeleteRoomWithContents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, in := seedInspection(t, s)

	room, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomBedroom})
	require.NoError(t, err)
	other, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomBathroom})
	require.NoError(t, err)
	item, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{RoomID: room.ID, Item: "Closet"})
	require.NoError(t, err)
	kept, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{RoomID: other.ID, Item: "Sink"})
	require.NoError(t, err)
	photo, err := s.CreatePhoto(ctx, domain.Photo{ChecklistItemID: item.ID, Image: []byte{1}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRoomWithContents(ctx, room.ID))

	gone, err := s.GetChecklistItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	gonePhoto, err := s.GetPhoto(ctx, photo.ID)
	require.NoError(t, err)
	assert.Nil(t, gonePhoto)

	still, err := s.GetChecklistItem(ctx, kept.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)

	assert.ErrorIs(t, s.DeleteRoomWithContents(ctx, room.ID), domain.ErrNotFound)
}

func TestListRoomsByInspection_InsertionOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, in := seedInspection(t, s)

	var want []string
	for _, rt := range []domain.RoomType{domain.RoomLiving, domain.RoomKitchen, domain.RoomBedroom} {
		r, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: rt})
		require.NoError(t, err)
		want = append(want, r.ID)
	}

	rooms, err := s.ListRoomsByInspection(ctx, in.ID)
	require.NoError(t, err)
	var got []string
	for _, r := range rooms {
		got = append(got, r.ID)
	}
	assert.Equal(t, want, got)
}

func TestChecklistItemLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, in := seedInspection(t, s)
	room, err := s.CreateRoom(ctx, domain.Room{InspectionID: in.ID, Type: domain.RoomKitchen})
	require.NoError(t, err)

	item, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{
		RoomID:      room.ID,
		Category:    "Appliances",
		Item:        "Oven",
		Description: "Clean inside and out",
	})
	require.NoError(t, err)
	assert.False(t, item.IsChecked)
	assert.Equal(t, domain.SeverityNone, item.Severity)

	severe := domain.SeveritySevere
	flagged, err := s.UpdateChecklistItem(ctx, item.ID, domain.ChecklistItemPatch{Severity: &severe})
	require.NoError(t, err)
	assert.Equal(t, domain.SeveritySevere, flagged.Severity)
	assert.False(t, flagged.IsChecked)

	checked := true
	done, err := s.UpdateChecklistItem(ctx, item.ID, domain.ChecklistItemPatch{IsChecked: &checked})
	require.NoError(t, err)
	assert.True(t, done.IsChecked)
	assert.Equal(t, domain.SeveritySevere, done.Severity)

	got, err := s.GetChecklistItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, done, got)

	require.NoError(t, s.DeleteChecklistItem(ctx, item.ID))
	assert.ErrorIs(t, s.DeleteChecklistItem(ctx, item.ID), domain.ErrNotFound)
}

func TestChecklistItemUpdate_InvalidSeverity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item, err := s.CreateChecklistItem(ctx, domain.ChecklistItem{RoomID: "r", Item: "Door"})
	require.NoError(t, err)

	bad := domain.Severity("catastrophic")
	_, err = s.UpdateChecklistItem(ctx, item.ID, domain.ChecklistItemPatch{Severity: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.GetChecklistItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityNone, got.Severity)
}

func TestCreateChecklistItems_Batch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.CreateChecklistItems(ctx, []domain.ChecklistItem{
		{RoomID: "r1", Item: "Walls"},
		{RoomID: "r1", Item: "Floor"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	list, err := s.ListChecklistItemsByRoom(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Walls", list[0].Item)
	assert.Equal(t, "Floor", list[1].Item)
}

func TestCreateChecklistItems_AllOrNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateChecklistItems(ctx, []domain.ChecklistItem{
		{RoomID: "r1", Item: "Walls"},
		{RoomID: "r1", Item: "Floor", Severity: "bogus"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := s.ListChecklistItemsByRoom(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
