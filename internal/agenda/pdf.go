// Package agenda renders the grouped event list as a printable PDF.
package agenda

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/geocoder89/campusevents/internal/availability"
	"github.com/geocoder89/campusevents/internal/calendar"
)

const (
	pageWidth = 190.0
	timeCol   = 28.0
	seatsCol  = 32.0
)

// Render lays out one section per day group, events in start order. Times
// are shown in loc.
func Render(title string, groups []calendar.Group, loc *time.Location, policy availability.Policy) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	// core fonts are cp1252; Spanish labels need the translation
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(groups) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 8, tr("No hay eventos para los filtros seleccionados."), "", 1, "C", false, 0, "")
	}

	for _, g := range groups {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(230, 236, 245)
		pdf.CellFormat(0, 8, tr(capitalize(g.Label)), "", 1, "L", true, 0, "")

		for _, e := range g.Events {
			res := availability.Calculate(e, policy)

			pdf.SetFont("Arial", "", 10)
			span := fmt.Sprintf("%s - %s", e.StartDate.In(loc).Format("15:04"), e.EndDate.In(loc).Format("15:04"))
			pdf.CellFormat(timeCol, 7, span, "", 0, "L", false, 0, "")

			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(pageWidth-timeCol-seatsCol, 7, tr(e.Title), "", 0, "L", false, 0, "")

			pdf.SetFont("Arial", "", 9)
			pdf.CellFormat(seatsCol, 7, tr(seatsLabel(res)), "", 1, "R", false, 0, "")

			pdf.SetX(10 + timeCol)
			pdf.SetFont("Arial", "", 9)
			venue := e.Location.Name
			if e.Location.Campus != "" {
				venue += ", " + e.Location.Campus
			}
			pdf.MultiCell(pageWidth-timeCol, 5, tr(venue+" | "+e.Organizer.Name), "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(3)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render agenda pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func seatsLabel(r availability.Result) string {
	switch r.State {
	case availability.StateFull:
		return "Completo"
	case availability.StateAlmostFull:
		return fmt.Sprintf("Últimas %d plazas", r.AvailableSpots)
	}
	return fmt.Sprintf("%d plazas", r.AvailableSpots)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
