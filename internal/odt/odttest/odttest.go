// Package odttest reads back the parts of an .odt package that tests assert
// on.
package odttest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type Paragraph struct {
	Style string
	Text  string
}

type Table struct {
	Columns []string // column style names
	Rows    [][]Paragraph
}

type Content struct {
	// Paragraphs are the top-level paragraphs, outside tables.
	Paragraphs []Paragraph
	Tables     []Table
}

// Files returns the package entries in archive order.
func Files(data []byte) ([]*zip.File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return zr.File, nil
}

// ReadFile returns the contents of one package entry.
func ReadFile(data []byte, name string) (string, error) {
	files, err := Files(data)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		return string(b), err
	}
	return "", fmt.Errorf("%s not found in package", name)
}

// ParseContent walks content.xml and collects paragraphs and tables.
func ParseContent(data []byte) (Content, error) {
	raw, err := ReadFile(data, "content.xml")
	if err != nil {
		return Content{}, err
	}

	var (
		out      Content
		curTable *Table
		curRow   []Paragraph
		inRow    bool
		para     *Paragraph
		text     strings.Builder
	)
	dec := xml.NewDecoder(strings.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Content{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "table":
				curTable = &Table{}
			case "table-column":
				if curTable != nil {
					curTable.Columns = append(curTable.Columns, attr(t, "style-name"))
				}
			case "table-row":
				inRow = true
				curRow = nil
			case "p":
				para = &Paragraph{Style: attr(t, "style-name")}
				text.Reset()
			}
		case xml.CharData:
			if para != nil {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				para.Text = text.String()
				if inRow {
					curRow = append(curRow, *para)
				} else {
					out.Paragraphs = append(out.Paragraphs, *para)
				}
				para = nil
			case "table-row":
				curTable.Rows = append(curTable.Rows, curRow)
				inRow = false
			case "table":
				out.Tables = append(out.Tables, *curTable)
				curTable = nil
			}
		}
	}
	return out, nil
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
