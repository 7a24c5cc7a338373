package redmine

import "redminereport/internal/tree"

type User struct {
	ID        int64
	Login     string
	Firstname string
	Lastname  string
}

// Issue holds the fields of a Redmine issue the report needs. Absent fields
// are empty strings; an absent id is 0.
type Issue struct {
	ID          int64
	ProjectName string
	Subject     string
	StatusName  string
	DueDate     string
}

func (i Issue) HasID() bool {
	return i.ID != 0
}

type TimeEntry struct {
	IssueID int64
	Hours   float64
	SpentOn string
}

func UserFromTree(node any) User {
	return User{
		ID:        tree.Int64(node, 0, "id"),
		Login:     tree.String(node, "", "login"),
		Firstname: tree.String(node, "", "firstname"),
		Lastname:  tree.String(node, "", "lastname"),
	}
}

func IssueFromTree(node any) Issue {
	return Issue{
		ID:          tree.Int64(node, 0, "id"),
		ProjectName: tree.String(node, "", "project", "name"),
		Subject:     tree.String(node, "", "subject"),
		StatusName:  tree.String(node, "", "status", "name"),
		DueDate:     tree.String(node, "", "due_date"),
	}
}

func TimeEntryFromTree(node any) TimeEntry {
	return TimeEntry{
		IssueID: tree.Int64(node, 0, "issue", "id"),
		Hours:   tree.Float(node, 0, "hours"),
		SpentOn: tree.String(node, "", "spent_on"),
	}
}
