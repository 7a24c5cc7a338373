// Package odt writes OpenDocument Text (.odt) files containing styled
// paragraphs and simple tables.
package odt

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
)

const MimeType = "application/vnd.oasis.opendocument.text"

type TextProps struct {
	FontSize   string
	FontFamily string
	FontWeight string
}

type ParagraphStyle struct {
	Name      string
	TextAlign string
	Padding   string
	Text      TextProps
}

type PageLayout struct {
	Name         string
	Width        string
	Height       string
	Orientation  string
	MarginTop    string
	MarginBottom string
	MarginLeft   string
	MarginRight  string
	WritingMode  string
}

type Cell struct {
	Style string
	Text  string
}

type Row struct {
	Cells []Cell
}

type Table struct {
	ColumnWidths []string
	Rows         []Row
}

type block struct {
	paragraph *Cell
	table     *Table
	firstCol  int
}

type Document struct {
	Generator string
	Created   time.Time

	styles  []ParagraphStyle
	layout  *PageLayout
	body    []block
	columns []string
}

func New() *Document {
	return &Document{Generator: "redmine-report"}
}

func (d *Document) AddStyle(s ParagraphStyle) {
	d.styles = append(d.styles, s)
}

// SetPageLayout installs l as the layout of the Standard master page.
func (d *Document) SetPageLayout(l PageLayout) {
	d.layout = &l
}

func (d *Document) AddParagraph(style, text string) {
	d.body = append(d.body, block{paragraph: &Cell{Style: style, Text: text}})
}

// AddTable appends t. Each column gets its own automatic style col_<n>
// numbered across the whole document.
func (d *Document) AddTable(t Table) {
	first := len(d.columns)
	d.columns = append(d.columns, t.ColumnWidths...)
	d.body = append(d.body, block{table: &t, firstCol: first})
}

func (d *Document) TableCount() int {
	n := 0
	for _, b := range d.body {
		if b.table != nil {
			n++
		}
	}
	return n
}

// WriteTo writes the zipped package. The mimetype entry is first and stored
// uncompressed as the format requires.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return 0, fmt.Errorf("creating mimetype entry: %w", err)
	}
	if _, err := io.WriteString(mt, MimeType); err != nil {
		return 0, fmt.Errorf("writing mimetype entry: %w", err)
	}

	parts := []struct {
		name string
		body string
	}{
		{"META-INF/manifest.xml", manifestXML()},
		{"meta.xml", d.metaXML()},
		{"styles.xml", d.stylesXML()},
		{"content.xml", d.contentXML()},
	}
	for _, p := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return 0, fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return 0, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("closing package: %w", err)
	}
	return buf.WriteTo(w)
}

// Save writes the document to path, replacing any existing file.
func (d *Document) Save(path string) error {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
