package document

import (
	"time"

	"redminereport/internal/report"
)

type ColumnSpec struct {
	Column report.Column
	Label  string
	Width  string
}

// Layout is the fixed presentation data of the report. It is built once and
// passed to the Builder.
type Layout struct {
	Months  [12]string
	Columns []ColumnSpec
}

func (l Layout) MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return l.Months[m-1]
}

func DefaultLayout() Layout {
	return Layout{
		Months: [12]string{
			"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
			"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
		},
		Columns: []ColumnSpec{
			{report.ColWorkName, "Наименование работы", "3.5cm"},
			{report.ColNote, "Примечание", "11cm"},
			{report.ColStatus, "Статус", "2.5cm"},
			{report.ColSpent, "Затраченное время за отчётный период", "2.5cm"},
			{report.ColPlanned, "Необходимо затратить в следующий период", "3cm"},
			{report.ColDueDate, "Срок завершения", "2.5cm"},
		},
	}
}

func (l Layout) Labels() []string {
	out := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = c.Label
	}
	return out
}
