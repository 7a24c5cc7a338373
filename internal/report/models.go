package report

// Column identifies one field of a Record, in table order.
type Column int

const (
	ColWorkName Column = iota
	ColNote
	ColStatus
	ColSpent
	ColPlanned
	ColDueDate
)

// Columns lists every column in the order the document renders them.
var Columns = []Column{ColWorkName, ColNote, ColStatus, ColSpent, ColPlanned, ColDueDate}

// Record is one row of the report.
type Record struct {
	WorkName    string
	Note        string
	Status      string
	SpentTime   string
	PlannedNext string
	DueDate     string
}

func (r Record) Value(c Column) string {
	switch c {
	case ColWorkName:
		return r.WorkName
	case ColNote:
		return r.Note
	case ColStatus:
		return r.Status
	case ColSpent:
		return r.SpentTime
	case ColPlanned:
		return r.PlannedNext
	case ColDueDate:
		return r.DueDate
	}
	return ""
}

// Values returns the record's fields in Columns order.
func (r Record) Values() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = r.Value(c)
	}
	return out
}

type Data struct {
	Current []Record
	Next    []Record
}

func (d Data) Len() int {
	return len(d.Current) + len(d.Next)
}
