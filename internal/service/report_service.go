package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vbonduro/depositdefender/internal/domain"
	"github.com/vbonduro/depositdefender/internal/report"
)

// GenerateReport renders the inspection as a PDF, stores it and, when an
// archive is configured, copies it there. An archive failure is logged and
// does not fail the report.
func (s *InspectionService) GenerateReport(ctx context.Context, inspectionID string, opts report.Options) (*domain.Report, error) {
	details, err := s.InspectionDetails(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	opts.Now = now
	pdf, err := report.Generate(details, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	rep, err := s.store.CreateReport(ctx, domain.Report{
		InspectionID: inspectionID,
		Filename:     report.Filename(details.Property, now),
		Data:         pdf,
		GeneratedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}
	s.logger.Info("report generated", "inspection_id", inspectionID, "report_id", rep.ID, "bytes", len(pdf))

	if s.archive != nil {
		key, err := s.archive.Save(ctx, "report_"+rep.ID, "application/pdf", bytes.NewReader(pdf))
		if err != nil {
			s.logger.Error("failed to archive report", "report_id", rep.ID, "error", err)
		} else {
			s.logger.Info("report archived", "report_id", rep.ID, "archive_key", key)
		}
	}
	return rep, nil
}

func (s *InspectionService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	rep, err := s.store.GetReport(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if rep == nil {
		return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	return rep, nil
}

func (s *InspectionService) ListReports(ctx context.Context, inspectionID string) ([]*domain.Report, error) {
	return s.store.ListReportsByInspection(ctx, inspectionID)
}

func (s *InspectionService) DeleteReport(ctx context.Context, id string) error {
	return s.store.DeleteReport(ctx, id)
}

// ShareGrant is a freshly created share link and the signed token that
// opens it.
type ShareGrant struct {
	Link  *domain.ShareableLink `json:"link"`
	Token string                `json:"token"`
}

// ShareReport creates a share link for the report's inspection and records
// the link key on the report.
func (s *InspectionService) ShareReport(ctx context.Context, reportID string) (*ShareGrant, error) {
	rep, err := s.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	link, err := s.store.CreateShareLink(ctx, domain.ShareableLink{
		InspectionID: rep.InspectionID,
		ExpiresAt:    s.now().Add(s.shareTTL),
		MaxAccess:    s.shareMax,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create share link: %w", err)
	}

	token, err := s.issuer.Sign(link)
	if err != nil {
		s.dropShareLink(ctx, link.Token)
		return nil, err
	}
	if _, err := s.store.UpdateReport(ctx, reportID, domain.ReportPatch{ShareToken: &link.Token}); err != nil {
		s.dropShareLink(ctx, link.Token)
		return nil, fmt.Errorf("failed to record share token: %w", err)
	}

	s.logger.Info("report shared", "report_id", reportID, "link", link.Token, "expires_at", link.ExpiresAt)
	return &ShareGrant{Link: link, Token: token}, nil
}

// dropShareLink removes a link whose grant could not be completed.
func (s *InspectionService) dropShareLink(ctx context.Context, token string) {
	if err := s.store.DeleteShareLink(ctx, token); err != nil {
		s.logger.Error("failed to remove incomplete share link", "link", token, "error", err)
	}
}

// OpenShare verifies a share token, counts the access and returns the newest
// report of the shared inspection. A token that does not match its link is
// rejected before any access is counted.
func (s *InspectionService) OpenShare(ctx context.Context, token string) (*domain.Report, *domain.ShareableLink, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, nil, err
	}

	link, err := s.store.GetShareLink(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get share link: %w", err)
	}
	if link == nil {
		return nil, nil, fmt.Errorf("share link %s: %w", claims.ID, domain.ErrNotFound)
	}
	if link.InspectionID != claims.Subject {
		return nil, nil, fmt.Errorf("share token subject mismatch: %w", domain.ErrLinkInvalid)
	}

	link, err = s.store.RecordShareAccess(ctx, claims.ID, s.now())
	if err != nil {
		return nil, nil, err
	}

	reports, err := s.store.ListReportsByInspection(ctx, link.InspectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if len(reports) == 0 {
		return nil, nil, fmt.Errorf("no report for inspection %s: %w", link.InspectionID, domain.ErrNotFound)
	}
	s.logger.Info("share opened", "link", link.Token, "access_count", link.AccessCount)
	return reports[0], link, nil
}
