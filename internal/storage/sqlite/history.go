package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"redminereport/internal/report"
)

const (
	SectionCurrent = "current"
	SectionNext    = "next"
)

type Run struct {
	ID           int64
	GeneratedAt  time.Time
	PeriodStart  time.Time
	Filename     string
	Author       string
	CurrentCount int
	NextCount    int
}

type StoredRecord struct {
	Section string
	report.Record
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS report_runs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		generated_at  DATETIME NOT NULL,
		period_start  DATETIME NOT NULL,
		filename      TEXT NOT NULL,
		author        TEXT DEFAULT '',
		current_count INTEGER NOT NULL DEFAULT 0,
		next_count    INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_report_runs_generated_at ON report_runs(generated_at);

	CREATE TABLE IF NOT EXISTS report_records (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id       INTEGER NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
		section      TEXT NOT NULL,
		position     INTEGER NOT NULL,
		work_name    TEXT DEFAULT '',
		note         TEXT DEFAULT '',
		status       TEXT DEFAULT '',
		spent_time   TEXT DEFAULT '',
		planned_next TEXT DEFAULT '',
		due_date     TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_report_records_run ON report_records(run_id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

// InsertRun stores the run and all of its records in one transaction and
// returns the new run id. generated_at is kept in UTC so runs order by time.
func InsertRun(db *sql.DB, run Run, data report.Data) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO report_runs (generated_at, period_start, filename, author, current_count, next_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.GeneratedAt.UTC(), run.PeriodStart, run.Filename, run.Author, len(data.Current), len(data.Next),
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO report_records (run_id, section, position, work_name, note, status, spent_time, planned_next, due_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	sections := []struct {
		name    string
		records []report.Record
	}{
		{SectionCurrent, data.Current},
		{SectionNext, data.Next},
	}
	for _, s := range sections {
		for i, r := range s.records {
			if _, err := stmt.Exec(runID, s.name, i, r.WorkName, r.Note, r.Status, r.SpentTime, r.PlannedNext, r.DueDate); err != nil {
				return 0, err
			}
		}
	}
	return runID, tx.Commit()
}

// ListRuns returns the latest runs, newest first.
func ListRuns(db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(
		`SELECT id, generated_at, period_start, filename, author, current_count, next_count
		 FROM report_runs ORDER BY generated_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.GeneratedAt, &r.PeriodStart, &r.Filename, &r.Author, &r.CurrentCount, &r.NextCount); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunData rebuilds the report data stored for runID.
func GetRunData(db *sql.DB, runID int64) (report.Data, error) {
	rows, err := db.Query(
		`SELECT section, work_name, note, status, spent_time, planned_next, due_date
		 FROM report_records WHERE run_id = ? ORDER BY section, position`,
		runID,
	)
	if err != nil {
		return report.Data{}, err
	}
	defer rows.Close()

	data := report.Data{Current: []report.Record{}, Next: []report.Record{}}
	for rows.Next() {
		var rec StoredRecord
		if err := rows.Scan(&rec.Section, &rec.WorkName, &rec.Note, &rec.Status, &rec.SpentTime, &rec.PlannedNext, &rec.DueDate); err != nil {
			return report.Data{}, err
		}
		switch rec.Section {
		case SectionCurrent:
			data.Current = append(data.Current, rec.Record)
		case SectionNext:
			data.Next = append(data.Next, rec.Record)
		}
	}
	return data, rows.Err()
}
