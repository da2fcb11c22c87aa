package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/depositdefender/internal/domain"
	"github.com/vbonduro/depositdefender/internal/report"
	"github.com/vbonduro/depositdefender/internal/share"
	"github.com/vbonduro/depositdefender/internal/store"
)

func seedReport(t *testing.T, env *testEnv) (*domain.Inspection, *domain.Report) {
	t.Helper()
	ctx := context.Background()
	_, in := env.seedInspection(t)
	_, items, err := env.svc.AddRoom(ctx, in.ID, AddRoomRequest{Type: domain.RoomKitchen})
	require.NoError(t, err)
	_, err = env.svc.AttachPhoto(ctx, items[0].ID, testPNG(t), "fridge.png")
	require.NoError(t, err)

	rep, err := env.svc.GenerateReport(ctx, in.ID, report.DefaultOptions())
	require.NoError(t, err)
	return in, rep
}

func TestGenerateReport(t *testing.T) {
	archive := newStubArchive()
	env := newTestService(t, WithArchive(archive))
	in, rep := seedReport(t, env)

	assert.Equal(t, in.ID, rep.InspectionID)
	assert.Equal(t, "DepositDefender_Report_12_Elm_St_Unit_4B_2025-06-30.pdf", rep.Filename)
	assert.True(t, bytes.HasPrefix(rep.Data, []byte("%PDF-")))
	assert.True(t, rep.GeneratedAt.Equal(env.clock.Now()))

	archived, ok := archive.saved["report_"+rep.ID+".pdf"]
	require.True(t, ok)
	assert.Equal(t, rep.Data, archived)

	reports, err := env.svc.ListReports(context.Background(), in.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestGenerateReport_ArchiveFailureIsNotFatal(t *testing.T) {
	archive := newStubArchive()
	archive.saveErr = errors.New("bucket unreachable")
	env := newTestService(t, WithArchive(archive))

	_, rep := seedReport(t, env)
	got, err := env.svc.GetReport(context.Background(), rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)
}

func TestGenerateReport_MissingInspection(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.GenerateReport(context.Background(), "missing", report.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShareReportAndOpen(t *testing.T) {
	env := newTestService(t, WithShareLimits(time.Hour, 2))
	ctx := context.Background()
	in, rep := seedReport(t, env)

	grant, err := env.svc.ShareReport(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, grant.Link.InspectionID)
	assert.Equal(t, 2, grant.Link.MaxAccess)
	assert.NotEmpty(t, grant.Token)

	stored, err := env.svc.GetReport(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, grant.Link.Token, stored.ShareToken)

	for i := 1; i <= 2; i++ {
		got, link, err := env.svc.OpenShare(ctx, grant.Token)
		require.NoError(t, err)
		assert.Equal(t, rep.ID, got.ID)
		assert.Equal(t, i, link.AccessCount)
	}

	_, _, err = env.svc.OpenShare(ctx, grant.Token)
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)
}

func TestOpenShare_Expired(t *testing.T) {
	env := newTestService(t, WithShareLimits(time.Hour, 5))
	ctx := context.Background()
	_, rep := seedReport(t, env)

	grant, err := env.svc.ShareReport(ctx, rep.ID)
	require.NoError(t, err)

	env.clock.Advance(2 * time.Hour)
	_, _, err = env.svc.OpenShare(ctx, grant.Token)
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)
}

func TestOpenShare_ReturnsNewestReport(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	in, rep := seedReport(t, env)

	grant, err := env.svc.ShareReport(ctx, rep.ID)
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	newer, err := env.svc.GenerateReport(ctx, in.ID, report.Options{Orientation: report.Landscape})
	require.NoError(t, err)

	got, _, err := env.svc.OpenShare(ctx, grant.Token)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
}

func TestOpenShare_BadToken(t *testing.T) {
	env := newTestService(t)

	_, _, err := env.svc.OpenShare(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)
}

// reportWriteFailure fails every report update and passes the rest through.
type reportWriteFailure struct {
	*store.Store
}

func (reportWriteFailure) UpdateReport(context.Context, string, domain.ReportPatch) (*domain.Report, error) {
	return nil, errors.New("disk on fire")
}

func TestShareReport_FailureLeavesNoLink(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	in, rep := seedReport(t, env)

	issuer, err := share.NewIssuer([]byte("test-secret"), share.WithClock(env.clock.Now))
	require.NoError(t, err)
	svc := NewInspectionService(reportWriteFailure{env.store}, issuer, slog.Default(), WithClock(env.clock.Now))

	_, err = svc.ShareReport(ctx, rep.ID)
	require.Error(t, err)

	links, err := env.store.ListShareLinksByInspection(ctx, in.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestOpenShare_SubjectMismatchDoesNotCountAccess(t *testing.T) {
	env := newTestService(t, WithShareLimits(time.Hour, 1))
	ctx := context.Background()
	_, rep := seedReport(t, env)

	grant, err := env.svc.ShareReport(ctx, rep.ID)
	require.NoError(t, err)

	issuer, err := share.NewIssuer([]byte("test-secret"), share.WithClock(env.clock.Now))
	require.NoError(t, err)
	forged, err := issuer.Sign(&domain.ShareableLink{
		Token:        grant.Link.Token,
		InspectionID: "some-other-inspection",
		ExpiresAt:    grant.Link.ExpiresAt,
	})
	require.NoError(t, err)

	_, _, err = env.svc.OpenShare(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrLinkInvalid)

	link, err := env.store.GetShareLink(ctx, grant.Link.Token)
	require.NoError(t, err)
	assert.Equal(t, 0, link.AccessCount)

	// The single allowed access is still available to the genuine token.
	_, link, err = env.svc.OpenShare(ctx, grant.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, link.AccessCount)
}
