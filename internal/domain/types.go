package domain

import (
	"math"
	"time"
)

type InspectionStatus string

const (
	StatusDraft      InspectionStatus = "draft"
	StatusInProgress InspectionStatus = "in-progress"
	StatusCompleted  InspectionStatus = "completed"
)

func (s InspectionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type RoomType string

const (
	RoomKitchen    RoomType = "kitchen"
	RoomBathroom   RoomType = "bathroom"
	RoomBedroom    RoomType = "bedroom"
	RoomLiving     RoomType = "living-room"
	RoomDining     RoomType = "dining-room"
	RoomCommonArea RoomType = "common-area"
	RoomOutdoor    RoomType = "outdoor"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomKitchen, RoomBathroom, RoomBedroom, RoomLiving, RoomDining, RoomCommonArea, RoomOutdoor:
		return true
	}
	return false
}

// Severity is empty when no issue has been flagged on an item.
type Severity string

const (
	SeverityNone     Severity = ""
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityNone, SeverityMinor, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

type Property struct {
	ID              string    `json:"id"`
	Address         string    `json:"address"`
	Unit            string    `json:"unit,omitempty"`
	LandlordName    string    `json:"landlordName"`
	LandlordContact string    `json:"landlordContact"`
	TenantName      string    `json:"tenantName"`
	TenantContact   string    `json:"tenantContact"`
	LeaseStartDate  time.Time `json:"leaseStartDate"`
	LeaseEndDate    time.Time `json:"leaseEndDate"`
	MoveOutDate     time.Time `json:"moveOutDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Inspection struct {
	ID          string           `json:"id"`
	PropertyID  string           `json:"propertyId"`
	Title       string           `json:"title"`
	Status      InspectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

type Room struct {
	ID           string     `json:"id"`
	InspectionID string     `json:"inspectionId"`
	Type         RoomType   `json:"type"`
	Name         string     `json:"name"`
	IsCompleted  bool       `json:"isCompleted"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

type ChecklistItem struct {
	ID          string   `json:"id"`
	RoomID      string   `json:"roomId"`
	Category    string   `json:"category"`
	Item        string   `json:"item"`
	Description string   `json:"description"`
	IsChecked   bool     `json:"isChecked"`
	Severity    Severity `json:"severity,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

type PhotoMetadata struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Size             int64   `json:"size"`
	OriginalSize     int64   `json:"originalSize"`
	CompressionRatio float64 `json:"compressionRatio"`
}

// NewPhotoMetadata derives CompressionRatio as 1 - size/originalSize. A zero
// originalSize yields a ratio of 0.
func NewPhotoMetadata(width, height int, size, originalSize int64) PhotoMetadata {
	return PhotoMetadata{
		Width:            width,
		Height:           height,
		Size:             size,
		OriginalSize:     originalSize,
		CompressionRatio: CompressionRatio(size, originalSize),
	}
}

func CompressionRatio(size, originalSize int64) float64 {
	if originalSize <= 0 {
		return 0
	}
	return 1 - float64(size)/float64(originalSize)
}

// Photo is immutable once captured; there is no update path for it.
type Photo struct {
	ID              string        `json:"id"`
	ChecklistItemID string        `json:"checklistItemId"`
	Filename        string        `json:"filename"`
	Image           []byte        `json:"-"`
	Thumbnail       []byte        `json:"-"`
	Watermarked     []byte        `json:"-"`
	Timestamp       time.Time     `json:"timestamp"`
	Metadata        PhotoMetadata `json:"metadata"`
}

type Report struct {
	ID           string    `json:"id"`
	InspectionID string    `json:"inspectionId"`
	Filename     string    `json:"filename"`
	Data         []byte    `json:"-"`
	GeneratedAt  time.Time `json:"generatedAt"`
	ShareToken   string    `json:"shareToken,omitempty"`
}

type ShareableLink struct {
	Token        string    `json:"token"`
	InspectionID string    `json:"inspectionId"`
	ExpiresAt    time.Time `json:"expiresAt"`
	AccessCount  int       `json:"accessCount"`
	MaxAccess    int       `json:"maxAccess"`
}

// Usable reports whether the link may still be opened at now: it must not be
// expired and must have access left.
func (l *ShareableLink) Usable(now time.Time) bool {
	return now.Before(l.ExpiresAt) && l.AccessCount < l.MaxAccess
}

// InspectionDetails is the nested read model consumed by report generation.
// Property is nil when the inspection references a missing property.
type InspectionDetails struct {
	Inspection *Inspection    `json:"inspection"`
	Property   *Property      `json:"property,omitempty"`
	Rooms      []*RoomDetails `json:"rooms"`
}

type RoomDetails struct {
	*Room
	Items []*ItemDetails `json:"checklistItems"`
}

type ItemDetails struct {
	*ChecklistItem
	Photos []*Photo `json:"photos"`
}

type InspectionProgress struct {
	CompletedRooms     int `json:"completedRooms"`
	TotalRooms         int `json:"totalRooms"`
	CompletedItems     int `json:"completedItems"`
	TotalItems         int `json:"totalItems"`
	ProgressPercentage int `json:"progressPercentage"`
}

// NewInspectionProgress fills ProgressPercentage, which is 0 when there are
// no items.
func NewInspectionProgress(completedRooms, totalRooms, completedItems, totalItems int) InspectionProgress {
	p := InspectionProgress{
		CompletedRooms: completedRooms,
		TotalRooms:     totalRooms,
		CompletedItems: completedItems,
		TotalItems:     totalItems,
	}
	if totalItems > 0 {
		p.ProgressPercentage = int(math.Round(100 * float64(completedItems) / float64(totalItems)))
	}
	return p
}

type StorageStats struct {
	Properties        int     `json:"properties"`
	Inspections       int     `json:"inspections"`
	Photos            int     `json:"photos"`
	Reports           int     `json:"reports"`
	TotalStorageBytes int64   `json:"totalStorageBytes"`
	TotalStorageMB    float64 `json:"totalStorageMB"`
}

func BytesToMB(n int64) float64 {
	return math.Round(float64(n)/(1024*1024)*100) / 100
}
