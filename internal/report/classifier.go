package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"redminereport/internal/redmine"
	"redminereport/internal/statuses"
)

// TimeEntriesFetcher is satisfied by *redmine.Client.
type TimeEntriesFetcher interface {
	TimeEntries(ctx context.Context, issueID int64, from time.Time) ([]redmine.TimeEntry, error)
}

// Classifier splits issues into the current report and the next plan.
type Classifier struct {
	Statuses statuses.Table
	Log      zerolog.Logger
}

func NewClassifier(table statuses.Table, log zerolog.Logger) *Classifier {
	return &Classifier{Statuses: table, Log: log}
}

// Classify fetches time entries for every issue with an id and puts the
// issue in Next when its status is non-active and nothing was logged since
// from, otherwise in Current. The first fetch error aborts.
func (c *Classifier) Classify(ctx context.Context, issues []redmine.Issue, fetcher TimeEntriesFetcher, from time.Time) (Data, error) {
	data := Data{Current: []Record{}, Next: []Record{}}
	for _, issue := range issues {
		if !issue.HasID() {
			c.Log.Debug().Str("subject", issue.Subject).Msg("skipping issue without id")
			continue
		}

		entries, err := fetcher.TimeEntries(ctx, issue.ID, from)
		if err != nil {
			return Data{}, fmt.Errorf("time entries for issue %d: %w", issue.ID, err)
		}
		spent := SumHours(entries)

		record := Record{
			WorkName: issue.ProjectName,
			Note:     issue.Subject,
			Status:   issue.StatusName,
			DueDate:  issue.DueDate,
		}
		if spent > 0 {
			record.SpentTime = FormatHours(RoundHours(spent))
		}

		if c.Statuses.IsNonActive(issue.StatusName) && spent == 0 {
			data.Next = append(data.Next, record)
		} else {
			data.Current = append(data.Current, record)
		}
		c.Log.Debug().Int64("issue_id", issue.ID).Str("status", issue.StatusName).Float64("spent", spent).Msg("classified issue")
	}
	return data, nil
}

// RoundHours rounds to hundredths of an hour, half to even.
func RoundHours(hours float64) float64 {
	return math.RoundToEven(hours*100) / 100
}

// SumHours adds up the hours of entries.
func SumHours(entries []redmine.TimeEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}
