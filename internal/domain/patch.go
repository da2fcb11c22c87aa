package domain

import "time"

// Patches carry the caller-editable fields of a record; nil means unchanged.
// Store-managed fields (ids, createdAt, updatedAt, completedAt) are absent
// on purpose so callers cannot set them.

type PropertyPatch struct {
	Address         *string    `json:"address,omitempty"`
	Unit            *string    `json:"unit,omitempty"`
	LandlordName    *string    `json:"landlordName,omitempty"`
	LandlordContact *string    `json:"landlordContact,omitempty"`
	TenantName      *string    `json:"tenantName,omitempty"`
	TenantContact   *string    `json:"tenantContact,omitempty"`
	LeaseStartDate  *time.Time `json:"leaseStartDate,omitempty"`
	LeaseEndDate    *time.Time `json:"leaseEndDate,omitempty"`
	MoveOutDate     *time.Time `json:"moveOutDate,omitempty"`
}

func (p PropertyPatch) Apply(prop *Property) {
	setIf(&prop.Address, p.Address)
	setIf(&prop.Unit, p.Unit)
	setIf(&prop.LandlordName, p.LandlordName)
	setIf(&prop.LandlordContact, p.LandlordContact)
	setIf(&prop.TenantName, p.TenantName)
	setIf(&prop.TenantContact, p.TenantContact)
	setIf(&prop.LeaseStartDate, p.LeaseStartDate)
	setIf(&prop.LeaseEndDate, p.LeaseEndDate)
	setIf(&prop.MoveOutDate, p.MoveOutDate)
}

type InspectionPatch struct {
	PropertyID *string           `json:"propertyId,omitempty"`
	Title      *string           `json:"title,omitempty"`
	Status     *InspectionStatus `json:"status,omitempty"`
}

func (p InspectionPatch) Apply(in *Inspection) {
	setIf(&in.PropertyID, p.PropertyID)
	setIf(&in.Title, p.Title)
	setIf(&in.Status, p.Status)
}

type RoomPatch struct {
	Type        *RoomType `json:"type,omitempty"`
	Name        *string   `json:"name,omitempty"`
	IsCompleted *bool     `json:"isCompleted,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

func (p RoomPatch) Apply(r *Room) {
	setIf(&r.Type, p.Type)
	setIf(&r.Name, p.Name)
	setIf(&r.IsCompleted, p.IsCompleted)
	setIf(&r.Notes, p.Notes)
}

type ChecklistItemPatch struct {
	Category    *string   `json:"category,omitempty"`
	Item        *string   `json:"item,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsChecked   *bool     `json:"isChecked,omitempty"`
	Severity    *Severity `json:"severity,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

func (p ChecklistItemPatch) Apply(it *ChecklistItem) {
	setIf(&it.Category, p.Category)
	setIf(&it.Item, p.Item)
	setIf(&it.Description, p.Description)
	setIf(&it.IsChecked, p.IsChecked)
	setIf(&it.Severity, p.Severity)
	setIf(&it.Notes, p.Notes)
}

type ReportPatch struct {
	Filename   *string `json:"filename,omitempty"`
	ShareToken *string `json:"shareToken,omitempty"`
}

func (p ReportPatch) Apply(r *Report) {
	setIf(&r.Filename, p.Filename)
	setIf(&r.ShareToken, p.ShareToken)
}

type ShareLinkPatch struct {
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	AccessCount *int       `json:"accessCount,omitempty"`
	MaxAccess   *int       `json:"maxAccess,omitempty"`
}

func (p ShareLinkPatch) Apply(l *ShareableLink) {
	setIf(&l.ExpiresAt, p.ExpiresAt)
	setIf(&l.AccessCount, p.AccessCount)
	setIf(&l.MaxAccess, p.MaxAccess)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
