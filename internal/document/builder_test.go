package document

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redminereport/internal/odt/odttest"
	"redminereport/internal/report"
)

var (
	author = Author{Firstname: "Иванов", Initials: "И.И."}
	now    = time.Date(2026, time.October, 19, 11, 0, 0, 0, time.UTC)
)

func newTestBuilder() *Builder {
	return NewBuilder(DefaultLayout(), zerolog.Nop())
}

func sampleData() report.Data {
	return report.Data{
		Current: []report.Record{
			{WorkName: "Прошивка", Note: "Загрузчик", Status: "Resolved", SpentTime: "3:15", DueDate: "2026-10-30"},
			{WorkName: "Сайт", Note: "Форма", Status: "In Progress", SpentTime: "1:00"},
		},
		Next: []report.Record{
			{WorkName: "Прошивка", Note: "Драйвер", Status: "New"},
		},
	}
}

func TestHeaders(t *testing.T) {
	cur, next := newTestBuilder().Headers(author, now)
	assert.Equal(t, "Иванов И.И. Отчет за Октябрь 2026 г.", cur)
	assert.Equal(t, "Иванов И.И. План на Ноябрь 2026 г.", next)

	dec := time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC)
	cur, next = newTestBuilder().Headers(author, dec)
	assert.Equal(t, "Иванов И.И. Отчет за Декабрь 2026 г.", cur)
	assert.Equal(t, "Иванов И.И. План на Январь 2027 г.", next)
}

func TestFilename(t *testing.T) {
	b := newTestBuilder()
	assert.Equal(t, "Отчет_Иванов_Октябрь.odt", b.Filename(author, now))
	assert.Equal(t, "Отчет_a_b_Октябрь.odt", b.Filename(Author{Firstname: "a/b"}, now))
}

func TestBuildTables(t *testing.T) {
	data := sampleData()
	doc := newTestBuilder().Build(author, data, now)

	var buf bytes.Buffer
	_, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	content, err := odttest.ParseContent(buf.Bytes())
	require.NoError(t, err)

	require.Len(t, content.Tables, 2)
	labels := DefaultLayout().Labels()
	for i, tbl := range content.Tables {
		assert.Len(t, tbl.Columns, 6)
		var header []string
		for _, p := range tbl.Rows[0] {
			header = append(header, p.Text)
			assert.Equal(t, StyleHeader, p.Style)
		}
		assert.Equal(t, labels, header, "table %d header", i)
	}
	assert.Len(t, content.Tables[0].Rows, len(data.Current)+1)
	assert.Len(t, content.Tables[1].Rows, len(data.Next)+1)

	row := content.Tables[0].Rows[1]
	var got []string
	for _, p := range row {
		got = append(got, p.Text)
		assert.Equal(t, StyleCenter, p.Style)
	}
	assert.Equal(t, []string{"Прошивка", "Загрузчик", "Resolved", "3:15", "", "2026-10-30"}, got)

	require.Len(t, content.Paragraphs, 3)
	assert.Equal(t, "Иванов И.И. Отчет за Октябрь 2026 г.", content.Paragraphs[0].Text)
	assert.Equal(t, "", content.Paragraphs[1].Text)
	assert.Equal(t, "Иванов И.И. План на Ноябрь 2026 г.", content.Paragraphs[2].Text)
}

func TestBuildEmptyData(t *testing.T) {
	doc := newTestBuilder().Build(author, report.Data{}, now)
	var buf bytes.Buffer
	_, err := doc.WriteTo(&buf)
	require.NoError(t, err)

	content, err := odttest.ParseContent(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, content.Tables, 2)
	assert.Len(t, content.Tables[0].Rows, 1)
	assert.Len(t, content.Tables[1].Rows, 1)
}

func TestBuildUsesInjectedLayout(t *testing.T) {
	layout := Layout{
		Months: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		Columns: []ColumnSpec{
			{report.ColNote, "Note", "10cm"},
			{report.ColSpent, "Spent", "2cm"},
		},
	}
	b := NewBuilder(layout, zerolog.Nop())
	cur, _ := b.Headers(author, now)
	assert.Equal(t, "Иванов И.И. Отчет за Oct 2026 г.", cur)
	assert.Equal(t, "Отчет_Иванов_Oct.odt", b.Filename(author, now))

	var buf bytes.Buffer
	_, err := b.Build(author, sampleData(), now).WriteTo(&buf)
	require.NoError(t, err)
	content, err := odttest.ParseContent(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Загрузчик", content.Tables[0].Rows[1][0].Text)
	assert.Equal(t, "3:15", content.Tables[0].Rows[1][1].Text)
}

func TestSaveWritesAndOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	b := newTestBuilder()

	path, err := b.Save(dir, author, sampleData(), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Отчет_Иванов_Октябрь.odt"), path)

	path2, err := b.Save(dir, author, report.Data{}, now)
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content, err := odttest.ParseContent(data)
	require.NoError(t, err)
	assert.Len(t, content.Tables[0].Rows, 1)
}

func TestMonthName(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, "Январь", l.MonthName(time.January))
	assert.Equal(t, "Декабрь", l.MonthName(time.December))
	assert.Equal(t, "", l.MonthName(time.Month(13)))
}

func TestBuildFixedStyles(t *testing.T) {
	doc := newTestBuilder().Build(author, sampleData(), now)
	var buf bytes.Buffer
	_, err := doc.WriteTo(&buf)
	require.NoError(t, err)

	styles, err := odttest.ReadFile(buf.Bytes(), "styles.xml")
	require.NoError(t, err)

	for _, name := range []string{StyleDefault, StyleCenter, StyleHeader} {
		assert.Contains(t, styles, `<style:style style:name="`+name+`" style:family="paragraph">`)
	}
	assert.Contains(t, styles,
		`<style:style style:name="Default" style:family="paragraph"><style:paragraph-properties fo:padding="5pt"/><style:text-properties fo:font-size="10pt" fo:font-family="Calibri"/></style:style>`)
	assert.Contains(t, styles,
		`<style:style style:name="Center" style:family="paragraph"><style:paragraph-properties fo:text-align="center" fo:padding="5pt"/><style:text-properties fo:font-size="10pt" fo:font-family="Calibri"/></style:style>`)
	assert.Contains(t, styles,
		`<style:text-properties fo:font-size="10pt" fo:font-family="Times New Roman" fo:font-weight="bold"/>`)

	assert.Contains(t, styles, `fo:page-width="29.7cm" fo:page-height="21cm" style:print-orientation="landscape"`)
	assert.Contains(t, styles, `fo:margin-top="1cm" fo:margin-bottom="0.5cm" fo:margin-left="1cm" fo:margin-right="1cm"`)
	assert.Contains(t, styles, `<style:master-page style:name="Standard" style:page-layout-name="LandscapeLayout"/>`)
}
