// Package report renders an inspection as a PDF document.
package report

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/vbonduro/depositdefender/internal/checklist"
	"github.com/vbonduro/depositdefender/internal/domain"
)

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

type Options struct {
	IncludePhotos     bool        `json:"includePhotos"`
	IncludeWatermarks bool        `json:"includeWatermarks"`
	Orientation       Orientation `json:"orientation"`
	// Now is the report date; zero means time.Now.
	Now time.Time `json:"-"`
}

func DefaultOptions() Options {
	return Options{IncludePhotos: true, IncludeWatermarks: true, Orientation: Portrait}
}

const (
	margin         = 15.0
	lineHeight     = 5.0
	maxPhotoWidth  = 60.0
	maxPhotoHeight = 40.0
)

var severityColors = map[domain.Severity][3]int{
	domain.SeverityMinor:    {34, 197, 94},
	domain.SeverityModerate: {245, 158, 11},
	domain.SeveritySevere:   {239, 68, 68},
}

// Summary is the tally printed in the report's summary section.
type Summary struct {
	TotalRooms     int
	CompletedRooms int
	TotalItems     int
	CheckedItems   int
	Minor          int
	Moderate       int
	Severe         int
}

func (s Summary) Issues() int { return s.Minor + s.Moderate + s.Severe }

func Summarize(d *domain.InspectionDetails) Summary {
	var s Summary
	for _, room := range d.Rooms {
		s.TotalRooms++
		if room.IsCompleted {
			s.CompletedRooms++
		}
		for _, item := range room.Items {
			s.TotalItems++
			if item.IsChecked {
				s.CheckedItems++
			}
			switch item.Severity {
			case domain.SeverityMinor:
				s.Minor++
			case domain.SeverityModerate:
				s.Moderate++
			case domain.SeveritySevere:
				s.Severe++
			}
		}
	}
	return s
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds DepositDefender_Report_<address>[_Unit_<unit>]_<date>.pdf
// with every non-alphanumeric character replaced by an underscore.
func Filename(p *domain.Property, now time.Time) string {
	var address, unit string
	if p != nil {
		address = nonAlnum.ReplaceAllString(p.Address, "_")
		if p.Unit != "" {
			unit = "_Unit_" + nonAlnum.ReplaceAllString(p.Unit, "_")
		}
	}
	return fmt.Sprintf("DepositDefender_Report_%s%s_%s.pdf", address, unit, now.Format("2006-01-02"))
}

type generator struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	opts Options
	now  time.Time
	imgN int
}

// Generate renders d as an A4 PDF.
func Generate(d *domain.InspectionDetails, opts Options) ([]byte, error) {
	if d == nil || d.Inspection == nil {
		return nil, fmt.Errorf("no inspection to report: %w", domain.ErrValidation)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	orientation := "P"
	if opts.Orientation == Landscape {
		orientation = "L"
	}

	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(margin, 20, margin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.SetCreationDate(now)
	pdf.SetTitle("Move-Out Inspection Report", true)
	pdf.SetCreator("DepositDefender", true)
	pdf.AliasNbPages("")

	g := &generator{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), opts: opts, now: now}
	pdf.SetFooterFunc(g.footer)
	pdf.AddPage()

	g.header(d)
	g.property(d.Property)
	g.summary(d)
	for _, room := range d.Rooms {
		g.room(room)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *generator) pageWidth() float64 {
	w, _ := g.pdf.GetPageSize()
	return w - 2*margin
}

func (g *generator) text(size float64, style, s string) {
	g.pdf.SetFont("Helvetica", style, size)
	g.pdf.MultiCell(0, lineHeight, g.tr(s), "", "L", false)
}

func (g *generator) sectionTitle(s string) {
	g.pdf.Ln(4)
	g.pdf.SetFont("Helvetica", "B", 14)
	g.pdf.CellFormat(0, 8, g.tr(s), "B", 1, "L", false, 0, "")
	g.pdf.Ln(2)
}

func (g *generator) header(d *domain.InspectionDetails) {
	pdf := g.pdf
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(0, 10, "DepositDefender", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 10, g.tr("Generated: "+g.now.Format("January 2, 2006")), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Move-Out Inspection Report", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, g.tr("Inspection: "+d.Inspection.Title), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
}

func (g *generator) property(p *domain.Property) {
	g.sectionTitle("Property Information")
	if p == nil {
		g.text(10, "I", "Property information unavailable.")
		return
	}
	address := p.Address
	if p.Unit != "" {
		address += ", Unit " + p.Unit
	}
	lines := []string{
		"Address: " + address,
		"Landlord: " + contact(p.LandlordName, p.LandlordContact),
		"Tenant: " + contact(p.TenantName, p.TenantContact),
		"Lease Start: " + formatDate(p.LeaseStartDate),
		"Lease End: " + formatDate(p.LeaseEndDate),
		"Move-Out Date: " + formatDate(p.MoveOutDate),
	}
	for _, l := range lines {
		g.text(10, "", l)
	}
}

func contact(name, info string) string {
	if info == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, info)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

func (g *generator) summary(d *domain.InspectionDetails) {
	s := Summarize(d)
	g.sectionTitle("Inspection Summary")
	lines := []string{
		fmt.Sprintf("Status: %s", d.Inspection.Status),
		fmt.Sprintf("Rooms Completed: %d of %d", s.CompletedRooms, s.TotalRooms),
		fmt.Sprintf("Items Checked: %d of %d", s.CheckedItems, s.TotalItems),
		fmt.Sprintf("Issues Found: %d", s.Issues()),
		fmt.Sprintf("• Minor Issues: %d", s.Minor),
		fmt.Sprintf("• Moderate Issues: %d", s.Moderate),
		fmt.Sprintf("• Severe Issues: %d", s.Severe),
	}
	for _, l := range lines {
		g.text(10, "", l)
	}
}

func (g *generator) room(room *domain.RoomDetails) {
	pdf := g.pdf
	_, pageH := pdf.GetPageSize()
	if pdf.GetY() > pageH-60 {
		pdf.AddPage()
	}

	g.sectionTitle(fmt.Sprintf("%s: %s", checklist.DisplayName(room.Type), room.Name))
	status := "In Progress"
	if room.IsCompleted {
		status = "Completed"
		if room.CompletedAt != nil {
			status += " " + room.CompletedAt.Format("Jan 2, 2006 3:04 PM")
		}
	}
	g.text(10, "", "Status: "+status)
	if room.Notes != "" {
		g.text(10, "I", "Notes: "+room.Notes)
	}
	pdf.Ln(2)

	category := ""
	for _, item := range room.Items {
		if item.Category != category && item.Category != "" {
			category = item.Category
			pdf.Ln(1)
			g.text(11, "B", category)
		}
		g.item(item)
	}
}

func (g *generator) item(item *domain.ItemDetails) {
	pdf := g.pdf
	box := "[  ]"
	if item.IsChecked {
		box = "[x]"
	}
	pdf.SetFont("Helvetica", "", 11)
	width := g.pageWidth()
	badge := 0.0
	if item.Severity != domain.SeverityNone {
		badge = 22
	}
	pdf.CellFormat(8, 6, box, "", 0, "L", false, 0, "")
	pdf.CellFormat(width-8-badge, 6, g.tr(item.Item), "", 0, "L", false, 0, "")
	if c, ok := severityColors[item.Severity]; ok {
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(badge, 5, strings.ToUpper(string(item.Severity)), "", 0, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(6)

	pdf.SetX(margin + 10)
	if item.Description != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(width-10, 4, g.tr(item.Description), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	if item.Notes != "" {
		pdf.SetX(margin + 10)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(width-10, 4, g.tr("Notes: "+item.Notes), "", "L", false)
	}

	if g.opts.IncludePhotos {
		for _, photo := range item.Photos {
			g.photo(photo)
		}
	}
	pdf.Ln(2)
}

func (g *generator) photo(p *domain.Photo) {
	pdf := g.pdf
	data := p.Image
	if g.opts.IncludeWatermarks && len(p.Watermarked) > 0 {
		data = p.Watermarked
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		pdf.SetX(margin + 10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, "[Photo could not be loaded]", "", 1, "L", false, 0, "")
		return
	}

	aspect := float64(cfg.Width) / float64(cfg.Height)
	w, h := maxPhotoWidth, maxPhotoWidth/aspect
	if h > maxPhotoHeight {
		h = maxPhotoHeight
		w = maxPhotoHeight * aspect
	}

	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h+8 > pageH-25 {
		pdf.AddPage()
	}

	g.imgN++
	name := fmt.Sprintf("photo-%d-%s", g.imgN, p.ID)
	opt := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
	y := pdf.GetY() + 1
	pdf.ImageOptions(name, margin+10, y, w, h, false, opt, 0, "")

	pdf.SetY(y + h + 1)
	pdf.SetX(margin + 10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 4, p.Timestamp.Format("Jan 2, 2006 3:04 PM"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (g *generator) footer() {
	pdf := g.pdf
	pageW, pageH := pdf.GetPageSize()
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(margin, pageH-15, pageW-margin, pageH-15)

	pdf.SetY(-13)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	third := (pageW - 2*margin) / 3
	pdf.CellFormat(third, 5, "Generated by DepositDefender", "", 0, "L", false, 0, "")
	pdf.CellFormat(third, 5, "Report Date: "+g.now.Format("Jan 2, 2006"), "", 0, "C", false, 0, "")
	pdf.CellFormat(third, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
