package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/depositdefender/internal/archive"
	"github.com/vbonduro/depositdefender/internal/assess"
	"github.com/vbonduro/depositdefender/internal/domain"
	"github.com/vbonduro/depositdefender/internal/imaging"
	"github.com/vbonduro/depositdefender/internal/share"
)

// ErrAssessUnavailable is returned by AssessItemPhoto when no assessor is
// configured.
var ErrAssessUnavailable = errors.New("damage assessment is not configured")

// repository is the subset of store.Store that InspectionService requires.
type repository interface {
	CreateProperty(ctx context.Context, p domain.Property) (*domain.Property, error)
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error)
	DeleteProperty(ctx context.Context, id string) error
	ListPropertiesByCreation(ctx context.Context) ([]*domain.Property, error)

	CreateInspection(ctx context.Context, in domain.Inspection) (*domain.Inspection, error)
	GetInspection(ctx context.Context, id string) (*domain.Inspection, error)
	UpdateInspection(ctx context.Context, id string, patch domain.InspectionPatch) (*domain.Inspection, error)
	TouchInspection(ctx context.Context, id string) error
	DeleteInspection(ctx context.Context, id string) error
	ListInspectionsByProperty(ctx context.Context, propertyID string) ([]*domain.Inspection, error)
	GetInspectionWithDetails(ctx context.Context, inspectionID string) (*domain.InspectionDetails, error)
	GetInspectionProgress(ctx context.Context, inspectionID string) (domain.InspectionProgress, error)

	CreateRoom(ctx context.Context, r domain.Room) (*domain.Room, error)
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
	UpdateRoom(ctx context.Context, id string, patch domain.RoomPatch) (*domain.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	DeleteRoomWithContents(ctx context.Context, id string) error
	ListRoomsByInspection(ctx context.Context, inspectionID string) ([]*domain.Room, error)

	CreateChecklistItems(ctx context.Context, items []domain.ChecklistItem) ([]*domain.ChecklistItem, error)
	GetChecklistItem(ctx context.Context, id string) (*domain.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, id string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error)
	ListChecklistItemsByRoom(ctx context.Context, roomID string) ([]*domain.ChecklistItem, error)

	CreatePhoto(ctx context.Context, p domain.Photo) (*domain.Photo, error)
	GetPhoto(ctx context.Context, id string) (*domain.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
	ListPhotosByChecklistItem(ctx context.Context, itemID string) ([]*domain.Photo, error)

	CreateReport(ctx context.Context, r domain.Report) (*domain.Report, error)
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	UpdateReport(ctx context.Context, id string, patch domain.ReportPatch) (*domain.Report, error)
	DeleteReport(ctx context.Context, id string) error
	ListReportsByInspection(ctx context.Context, inspectionID string) ([]*domain.Report, error)

	CreateShareLink(ctx context.Context, l domain.ShareableLink) (*domain.ShareableLink, error)
	GetShareLink(ctx context.Context, token string) (*domain.ShareableLink, error)
	DeleteShareLink(ctx context.Context, token string) error
	RecordShareAccess(ctx context.Context, token string, now time.Time) (*domain.ShareableLink, error)

	GetStorageStats(ctx context.Context) (domain.StorageStats, error)
	ClearAllData(ctx context.Context) error
}

// InspectionService drives a move-out inspection from property setup to a
// shared PDF report. The archive and the assessor are optional.
type InspectionService struct {
	store    repository
	issuer   *share.Issuer
	archive  archive.Archive
	assessor assess.Assessor
	imageOpt imaging.Options
	shareTTL time.Duration
	shareMax int
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*InspectionService)

func WithArchive(a archive.Archive) Option {
	return func(s *InspectionService) { s.archive = a }
}

func WithAssessor(a assess.Assessor) Option {
	return func(s *InspectionService) { s.assessor = a }
}

func WithImageOptions(o imaging.Options) Option {
	return func(s *InspectionService) { s.imageOpt = o }
}

// WithShareLimits sets the lifetime and access allowance of new share links.
func WithShareLimits(ttl time.Duration, maxAccess int) Option {
	return func(s *InspectionService) {
		s.shareTTL = ttl
		s.shareMax = maxAccess
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *InspectionService) { s.now = now }
}

func NewInspectionService(store repository, issuer *share.Issuer, logger *slog.Logger, opts ...Option) *InspectionService {
	s := &InspectionService{
		store:    store,
		issuer:   issuer,
		imageOpt: imaging.DefaultOptions(),
		shareTTL: 7 * 24 * time.Hour,
		shareMax: 10,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validateProperty(p *domain.Property) error {
	if strings.TrimSpace(p.Address) == "" {
		return fmt.Errorf("address is required: %w", domain.ErrValidation)
	}
	if p.MoveOutDate.IsZero() {
		return fmt.Errorf("move-out date is required: %w", domain.ErrValidation)
	}
	return nil
}

func (s *InspectionService) CreateProperty(ctx context.Context, p domain.Property) (*domain.Property, error) {
	if err := validateProperty(&p); err != nil {
		return nil, err
	}
	created, err := s.store.CreateProperty(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	s.logger.Info("property created", "property_id", created.ID)
	return created, nil
}

func (s *InspectionService) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error) {
	if patch.Address != nil && strings.TrimSpace(*patch.Address) == "" {
		return nil, fmt.Errorf("address is required: %w", domain.ErrValidation)
	}
	return s.store.UpdateProperty(ctx, id, patch)
}

// DeleteProperty refuses to remove a property that still has inspections.
func (s *InspectionService) DeleteProperty(ctx context.Context, id string) error {
	inspections, err := s.store.ListInspectionsByProperty(ctx, id)
	if err != nil {
		return err
	}
	if len(inspections) > 0 {
		return fmt.Errorf("property %s has %d inspections: %w", id, len(inspections), domain.ErrValidation)
	}
	return s.store.DeleteProperty(ctx, id)
}

func (s *InspectionService) ListProperties(ctx context.Context) ([]*domain.Property, error) {
	return s.store.ListPropertiesByCreation(ctx)
}

func (s *InspectionService) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// StartInspection opens a draft inspection on an existing property.
func (s *InspectionService) StartInspection(ctx context.Context, propertyID, title string) (*domain.Inspection, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	in, err := s.store.CreateInspection(ctx, domain.Inspection{PropertyID: propertyID, Title: title, Status: domain.StatusDraft})
	if err != nil {
		return nil, fmt.Errorf("failed to create inspection: %w", err)
	}
	s.logger.Info("inspection started", "inspection_id", in.ID, "property_id", propertyID)
	return in, nil
}

func (s *InspectionService) GetInspection(ctx context.Context, id string) (*domain.Inspection, error) {
	in, err := s.store.GetInspection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}
	if in == nil {
		return nil, fmt.Errorf("inspection %s: %w", id, domain.ErrNotFound)
	}
	return in, nil
}

func (s *InspectionService) ListInspections(ctx context.Context, propertyID string) ([]*domain.Inspection, error) {
	return s.store.ListInspectionsByProperty(ctx, propertyID)
}

func (s *InspectionService) UpdateInspectionTitle(ctx context.Context, id, title string) (*domain.Inspection, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	return s.store.UpdateInspection(ctx, id, domain.InspectionPatch{Title: &title})
}

func (s *InspectionService) CompleteInspection(ctx context.Context, id string) (*domain.Inspection, error) {
	status := domain.StatusCompleted
	in, err := s.store.UpdateInspection(ctx, id, domain.InspectionPatch{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("failed to complete inspection: %w", err)
	}
	s.logger.Info("inspection completed", "inspection_id", id)
	return in, nil
}

func (s *InspectionService) InspectionDetails(ctx context.Context, id string) (*domain.InspectionDetails, error) {
	d, err := s.store.GetInspectionWithDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load inspection details: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("inspection %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

func (s *InspectionService) InspectionProgress(ctx context.Context, id string) (domain.InspectionProgress, error) {
	if _, err := s.GetInspection(ctx, id); err != nil {
		return domain.InspectionProgress{}, err
	}
	return s.store.GetInspectionProgress(ctx, id)
}

func (s *InspectionService) DeleteInspection(ctx context.Context, id string) error {
	if err := s.store.DeleteInspection(ctx, id); err != nil {
		return err
	}
	s.logger.Info("inspection deleted", "inspection_id", id)
	return nil
}

func (s *InspectionService) StorageStats(ctx context.Context) (domain.StorageStats, error) {
	return s.store.GetStorageStats(ctx)
}

func (s *InspectionService) ClearAllData(ctx context.Context) error {
	if err := s.store.ClearAllData(ctx); err != nil {
		return err
	}
	s.logger.Warn("all data cleared")
	return nil
}

// touch records a descendant mutation on the owning inspection. A missing
// inspection is logged, not returned: the mutation itself already succeeded.
func (s *InspectionService) touch(ctx context.Context, inspectionID string) {
	if err := s.store.TouchInspection(ctx, inspectionID); err != nil {
		s.logger.Error("failed to touch inspection", "inspection_id", inspectionID, "error", err)
	}
}
