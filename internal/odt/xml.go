package odt

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const (
	nsOffice   = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsStyle    = "urn:oasis:names:tc:opendocument:xmlns:style:1.0"
	nsText     = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsTable    = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsFO       = "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
	nsMeta     = "urn:oasis:names:tc:opendocument:xmlns:meta:1.0"
	nsManifest = "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"
	odfVersion = "1.2"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// element accumulates one start tag's attributes. Empty values are dropped.
type element struct {
	b     *strings.Builder
	name  string
	attrs [][2]string
}

func open(b *strings.Builder, name string) *element {
	return &element{b: b, name: name}
}

func (e *element) attr(name, value string) *element {
	if value != "" {
		e.attrs = append(e.attrs, [2]string{name, value})
	}
	return e
}

func (e *element) writeStart(selfClose bool) {
	e.b.WriteString("<" + e.name)
	for _, a := range e.attrs {
		e.b.WriteString(" " + a[0] + `="`)
		e.b.WriteString(escape(a[1]))
		e.b.WriteString(`"`)
	}
	if selfClose {
		e.b.WriteString("/>")
	} else {
		e.b.WriteString(">")
	}
}

func (e *element) empty() {
	e.writeStart(true)
}

func (e *element) body(fn func()) {
	e.writeStart(false)
	fn()
	e.b.WriteString("</" + e.name + ">")
}

func (e *element) text(s string) {
	e.writeStart(false)
	e.b.WriteString(escape(s))
	e.b.WriteString("</" + e.name + ">")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func manifestXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	open(&b, "manifest:manifest").
		attr("xmlns:manifest", nsManifest).
		attr("manifest:version", odfVersion).
		body(func() {
			open(&b, "manifest:file-entry").
				attr("manifest:full-path", "/").
				attr("manifest:version", odfVersion).
				attr("manifest:media-type", MimeType).empty()
			for _, name := range []string{"content.xml", "styles.xml", "meta.xml"} {
				open(&b, "manifest:file-entry").
					attr("manifest:full-path", name).
					attr("manifest:media-type", "text/xml").empty()
			}
		})
	return b.String()
}

func (d *Document) metaXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	open(&b, "office:document-meta").
		attr("xmlns:office", nsOffice).
		attr("xmlns:meta", nsMeta).
		attr("office:version", odfVersion).
		body(func() {
			open(&b, "office:meta").body(func() {
				if d.Generator != "" {
					open(&b, "meta:generator").text(d.Generator)
				}
				if !d.Created.IsZero() {
					open(&b, "meta:creation-date").text(d.Created.Format(time.RFC3339))
				}
			})
		})
	return b.String()
}

func rootAttrs(e *element) *element {
	return e.
		attr("xmlns:office", nsOffice).
		attr("xmlns:style", nsStyle).
		attr("xmlns:text", nsText).
		attr("xmlns:table", nsTable).
		attr("xmlns:fo", nsFO).
		attr("office:version", odfVersion)
}

func (d *Document) stylesXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	rootAttrs(open(&b, "office:document-styles")).body(func() {
		open(&b, "office:styles").body(func() {
			for _, s := range d.styles {
				writeParagraphStyle(&b, s)
			}
		})
		if d.layout == nil {
			return
		}
		l := d.layout
		open(&b, "office:automatic-styles").body(func() {
			open(&b, "style:page-layout").attr("style:name", l.Name).body(func() {
				open(&b, "style:page-layout-properties").
					attr("fo:page-width", l.Width).
					attr("fo:page-height", l.Height).
					attr("style:print-orientation", l.Orientation).
					attr("fo:margin-top", l.MarginTop).
					attr("fo:margin-bottom", l.MarginBottom).
					attr("fo:margin-left", l.MarginLeft).
					attr("fo:margin-right", l.MarginRight).
					attr("style:writing-mode", l.WritingMode).empty()
			})
		})
		open(&b, "office:master-styles").body(func() {
			open(&b, "style:master-page").
				attr("style:name", "Standard").
				attr("style:page-layout-name", l.Name).empty()
		})
	})
	return b.String()
}

func writeParagraphStyle(b *strings.Builder, s ParagraphStyle) {
	open(b, "style:style").
		attr("style:name", s.Name).
		attr("style:family", "paragraph").
		body(func() {
			if s.TextAlign != "" || s.Padding != "" {
				open(b, "style:paragraph-properties").
					attr("fo:text-align", s.TextAlign).
					attr("fo:padding", s.Padding).empty()
			}
			open(b, "style:text-properties").
				attr("fo:font-size", s.Text.FontSize).
				attr("fo:font-family", s.Text.FontFamily).
				attr("fo:font-weight", s.Text.FontWeight).empty()
		})
}

func columnStyleName(n int) string {
	return fmt.Sprintf("col_%d", n)
}

func (d *Document) contentXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	rootAttrs(open(&b, "office:document-content")).body(func() {
		open(&b, "office:automatic-styles").body(func() {
			for i, width := range d.columns {
				open(&b, "style:style").
					attr("style:name", columnStyleName(i)).
					attr("style:family", "table-column").
					body(func() {
						open(&b, "style:table-column-properties").
							attr("style:column-width", width).empty()
					})
			}
		})
		open(&b, "office:body").body(func() {
			open(&b, "office:text").body(func() {
				tableNo := 0
				for _, blk := range d.body {
					if blk.paragraph != nil {
						open(&b, "text:p").attr("text:style-name", blk.paragraph.Style).text(blk.paragraph.Text)
						continue
					}
					tableNo++
					writeTable(&b, *blk.table, blk.firstCol, tableNo)
				}
			})
		})
	})
	return b.String()
}

func writeTable(b *strings.Builder, t Table, firstCol, n int) {
	open(b, "table:table").attr("table:name", fmt.Sprintf("Table%d", n)).body(func() {
		for i := range t.ColumnWidths {
			open(b, "table:table-column").attr("table:style-name", columnStyleName(firstCol+i)).empty()
		}
		for _, row := range t.Rows {
			open(b, "table:table-row").body(func() {
				for _, cell := range row.Cells {
					open(b, "table:table-cell").attr("office:value-type", "string").body(func() {
						open(b, "text:p").attr("text:style-name", cell.Style).text(cell.Text)
					})
				}
			})
		}
	})
}
