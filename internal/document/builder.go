// Package document turns classified report data into the monthly .odt
// report: one table for the current month and one for next month's plan.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"redminereport/internal/odt"
	"redminereport/internal/report"
)

const (
	StyleDefault = "Default"
	StyleCenter  = "Center"
	StyleHeader  = "Header"
)

type Author struct {
	Firstname string
	Initials  string
}

type Builder struct {
	layout Layout
	log    zerolog.Logger
}

func NewBuilder(layout Layout, log zerolog.Logger) *Builder {
	return &Builder{layout: layout, log: log}
}

// Headers returns the captions of the current-month report and the
// next-month plan.
func (b *Builder) Headers(author Author, now time.Time) (string, string) {
	cur := report.CurrentMonthAnchor(now)
	next := report.NextMonthAnchor(now)
	who := author.Firstname + " " + author.Initials
	return fmt.Sprintf("%s Отчет за %s г.", who, b.periodLabel(cur)),
		fmt.Sprintf("%s План на %s г.", who, b.periodLabel(next))
}

// Labels returns the column captions in table order.
func (b *Builder) Labels() []string {
	return b.layout.Labels()
}

func (b *Builder) periodLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", b.layout.MonthName(t.Month()), t.Year())
}

func (b *Builder) Filename(author Author, now time.Time) string {
	month := b.layout.MonthName(report.CurrentMonthAnchor(now).Month())
	return sanitizeFilename(fmt.Sprintf("Отчет_%s_%s.odt", author.Firstname, month))
}

// Build assembles the document in memory.
func (b *Builder) Build(author Author, data report.Data, now time.Time) *odt.Document {
	doc := odt.New()
	doc.Created = now
	b.addStyles(doc)

	curHeader, nextHeader := b.Headers(author, now)
	b.addSection(doc, curHeader, data.Current)
	doc.AddParagraph(StyleDefault, "")
	b.addSection(doc, nextHeader, data.Next)
	return doc
}

// Save builds the document and writes it into dir, replacing a file of the
// same name. It returns the written path.
func (b *Builder) Save(dir string, author Author, data report.Data, now time.Time) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	path := filepath.Join(dir, b.Filename(author, now))
	if err := b.Build(author, data, now).Save(path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	b.log.Info().Str("path", path).Int("current", len(data.Current)).Int("next", len(data.Next)).Msg("report saved")
	return path, nil
}

func (b *Builder) addStyles(doc *odt.Document) {
	doc.AddStyle(paragraphStyle(StyleDefault, "", "Calibri", ""))
	doc.AddStyle(paragraphStyle(StyleCenter, "center", "Calibri", ""))
	doc.AddStyle(paragraphStyle(StyleHeader, "center", "Times New Roman", "bold"))
	doc.SetPageLayout(odt.PageLayout{
		Name:         "LandscapeLayout",
		Width:        "29.7cm",
		Height:       "21cm",
		Orientation:  "landscape",
		MarginTop:    "1cm",
		MarginLeft:   "1cm",
		MarginBottom: "0.5cm",
		MarginRight:  "1cm",
		WritingMode:  "lr-tb",
	})
}

func paragraphStyle(name, align, family, weight string) odt.ParagraphStyle {
	return odt.ParagraphStyle{
		Name:      name,
		TextAlign: align,
		Padding:   "5pt",
		Text: odt.TextProps{
			FontSize:   "10pt",
			FontFamily: family,
			FontWeight: weight,
		},
	}
}

func (b *Builder) addSection(doc *odt.Document, header string, records []report.Record) {
	doc.AddParagraph(StyleDefault, header)

	table := odt.Table{}
	headerRow := odt.Row{}
	for _, col := range b.layout.Columns {
		table.ColumnWidths = append(table.ColumnWidths, col.Width)
		headerRow.Cells = append(headerRow.Cells, odt.Cell{Style: StyleHeader, Text: col.Label})
	}
	table.Rows = append(table.Rows, headerRow)

	for _, rec := range records {
		row := odt.Row{}
		for _, col := range b.layout.Columns {
			row.Cells = append(row.Cells, odt.Cell{Style: StyleCenter, Text: rec.Value(col.Column)})
		}
		table.Rows = append(table.Rows, row)
	}
	doc.AddTable(table)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}
