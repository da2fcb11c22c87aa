package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/depositdefender/internal/domain"
)

var reportDate = time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func testDetails(t *testing.T) *domain.InspectionDetails {
	completed := reportDate.Add(-time.Hour)
	return &domain.InspectionDetails{
		Inspection: &domain.Inspection{ID: "insp-1", Title: "Move-out", Status: domain.StatusInProgress},
		Property: &domain.Property{
			Address:     "12 Elm St.",
			Unit:        "4B",
			TenantName:  "Sam Tenant",
			MoveOutDate: reportDate,
		},
		Rooms: []*domain.RoomDetails{{
			Room: &domain.Room{ID: "room-1", Type: domain.RoomKitchen, Name: "Kitchen", IsCompleted: true, CompletedAt: &completed},
			Items: []*domain.ItemDetails{
				{
					ChecklistItem: &domain.ChecklistItem{ID: "i1", Category: "Appliances", Item: "Oven/Range", Description: "Check burners", IsChecked: true, Severity: domain.SeverityModerate, Notes: "Burnt residue"},
					Photos:        []*domain.Photo{{ID: "p1", Image: testJPEG(t), Timestamp: reportDate}},
				},
				{
					ChecklistItem: &domain.ChecklistItem{ID: "i2", Category: "Appliances", Item: "Dishwasher"},
					Photos:        []*domain.Photo{{ID: "p2", Image: []byte("corrupt"), Timestamp: reportDate}},
				},
			},
		}},
	}
}

var pageCount = regexp.MustCompile(`/Count (\d+)`)

func pages(t *testing.T, pdf []byte) int {
	t.Helper()
	m := pageCount.FindSubmatch(pdf)
	require.NotNil(t, m, "no page count in document")
	n, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	return n
}

func TestGenerate(t *testing.T) {
	opts := DefaultOptions()
	opts.Now = reportDate

	out, err := Generate(testDetails(t), opts)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 1, pages(t, out))
}

func TestGenerate_ManyRoomsSpanPages(t *testing.T) {
	d := testDetails(t)
	room := d.Rooms[0]
	for i := 0; i < 6; i++ {
		d.Rooms = append(d.Rooms, room)
	}

	opts := DefaultOptions()
	opts.Now = reportDate
	out, err := Generate(d, opts)
	require.NoError(t, err)
	assert.Greater(t, pages(t, out), 1)
}

func TestGenerate_WithoutPhotosIsSmaller(t *testing.T) {
	opts := DefaultOptions()
	opts.Now = reportDate
	with, err := Generate(testDetails(t), opts)
	require.NoError(t, err)

	opts.IncludePhotos = false
	opts.Orientation = Landscape
	without, err := Generate(testDetails(t), opts)
	require.NoError(t, err)
	assert.Less(t, len(without), len(with))
}

func TestGenerate_DanglingProperty(t *testing.T) {
	d := testDetails(t)
	d.Property = nil

	_, err := Generate(d, Options{Now: reportDate})
	require.NoError(t, err)
}

func TestGenerate_NoInspection(t *testing.T) {
	_, err := Generate(&domain.InspectionDetails{}, DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSummarize(t *testing.T) {
	s := Summarize(testDetails(t))
	assert.Equal(t, Summary{TotalRooms: 1, CompletedRooms: 1, TotalItems: 2, CheckedItems: 1, Moderate: 1}, s)
	assert.Equal(t, 1, s.Issues())
}

func TestFilename(t *testing.T) {
	tests := []struct {
		prop *domain.Property
		want string
	}{
		{&domain.Property{Address: "12 Elm St.", Unit: "4B"}, "DepositDefender_Report_12_Elm_St__Unit_4B_2025-06-30.pdf"},
		{&domain.Property{Address: "5 Oak Ave"}, "DepositDefender_Report_5_Oak_Ave_2025-06-30.pdf"},
		{&domain.Property{Address: "1 Main", Unit: "2/3"}, "DepositDefender_Report_1_Main_Unit_2_3_2025-06-30.pdf"},
		{nil, "DepositDefender_Report__2025-06-30.pdf"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.prop, reportDate))
		})
	}
}
