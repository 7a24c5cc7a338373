// Package app wires configuration, the Redmine client and the report
// pipeline into one generation run.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"redminereport/internal/config"
	"redminereport/internal/document"
	"redminereport/internal/httpx"
	"redminereport/internal/integrations/llm"
	slackpub "redminereport/internal/integrations/slack"
	"redminereport/internal/preview"
	"redminereport/internal/redmine"
	"redminereport/internal/report"
	"redminereport/internal/statuses"
	"redminereport/internal/storage/sqlite"
)

// IssueSource is the Redmine surface a run needs.
type IssueSource interface {
	CurrentUser(ctx context.Context) (redmine.User, error)
	Issues(ctx context.Context, userID int64) ([]redmine.Issue, error)
	report.TimeEntriesFetcher
}

type Summarizer interface {
	Summarize(ctx context.Context, title string, data report.Data) (string, llm.Usage, error)
}

type Publisher interface {
	Publish(ctx context.Context, path, title, comment string) error
}

type App struct {
	cfg        config.Config
	log        zerolog.Logger
	source     IssueSource
	classifier *report.Classifier
	builder    *document.Builder
	db         *sql.DB
	summarizer Summarizer
	publisher  Publisher
}

// Result describes one finished generation.
type Result struct {
	Path          string
	RunID         int64
	User          redmine.User
	PeriodStart   time.Time
	CurrentHeader string
	NextHeader    string
	Summary       string
	Data          report.Data
}

// New builds an App with the production collaborators selected by cfg.
// Close must be called to release the history database.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	timeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Debug().Dur("http_timeout", timeout).Str("redmine", cfg.Redmine.URL).Msg("config loaded")

	table, err := statuses.Load(cfg.Report.StatusesPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:        cfg,
		log:        log,
		source:     redmine.NewClient(cfg.Redmine.URL, cfg.Redmine.APIKey, httpx.ExternalHTTPClient(), log),
		classifier: report.NewClassifier(table, log),
		builder:    document.NewBuilder(document.DefaultLayout(), log),
	}

	if cfg.HistoryEnabled() {
		db, err := sqlite.InitDB(cfg.Report.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening history db: %w", err)
		}
		a.db = db
		log.Debug().Str("path", cfg.Report.DBPath).Msg("history database initialized")
	}
	if cfg.LLMConfigured() {
		a.summarizer = llm.NewSummarizer(cfg.LLM.AnthropicAPIKey, cfg.LLM.Model, httpx.ExternalHTTPClient(), log)
	}
	if cfg.SlackConfigured() {
		a.publisher = slackpub.NewPublisher(cfg.Slack.BotToken, cfg.Slack.ChannelID, log)
	}
	return a, nil
}

// Option replaces one collaborator; used by tests and alternative frontends.
type Option func(*App)

func WithSource(s IssueSource) Option { return func(a *App) { a.source = s } }
func WithDB(db *sql.DB) Option { return func(a *App) { a.db = db } }
func WithSummarizer(s Summarizer) Option { return func(a *App) { a.summarizer = s } }
func WithPublisher(p Publisher) Option { return func(a *App) { a.publisher = p } }
func WithStatuses(t statuses.Table) Option { return func(a *App) { a.classifier = report.NewClassifier(t, a.log) } }
func WithBuilder(b *document.Builder) Option { return func(a *App) { a.builder = b } }

// NewWithOptions builds an App without touching the network or disk and
// applies opts on top of the defaults.
func NewWithOptions(cfg config.Config, log zerolog.Logger, opts ...Option) *App {
	a := &App{
		cfg:        cfg,
		log:        log,
		classifier: report.NewClassifier(statuses.Default(), log),
		builder:    document.NewBuilder(document.DefaultLayout(), log),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) author() document.Author {
	return document.Author{Firstname: a.cfg.User.Firstname, Initials: a.cfg.User.Initials}
}

// Generate runs one full report: fetch, classify, save, then the optional
// history, summary and Slack steps. Failures after the file is written are
// logged; only a Slack upload failure is returned, together with the result.
func (a *App) Generate(ctx context.Context, outputDir string, now time.Time) (Result, error) {
	if a.source == nil {
		return Result{}, fmt.Errorf("no issue source configured")
	}
	if outputDir == "" {
		outputDir = a.cfg.Report.OutputDir
	}

	user, err := a.source.CurrentUser(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("resolving current user: %w", err)
	}
	a.log.Info().Int64("user_id", user.ID).Str("login", user.Login).Msg("current user resolved")

	issues, err := a.source.Issues(ctx, user.ID)
	if err != nil {
		return Result{}, fmt.Errorf("fetching issues: %w", err)
	}

	from := report.PeriodStart(now)
	a.log.Info().Int("issues", len(issues)).Str("from", from.Format("2006-01-02")).Msg("classifying")
	data, err := a.classifier.Classify(ctx, issues, a.source, from)
	if err != nil {
		return Result{}, err
	}

	author := a.author()
	path, err := a.builder.Save(outputDir, author, data, now)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Path:        path,
		User:        user,
		PeriodStart: from,
		Data:        data,
	}
	res.CurrentHeader, res.NextHeader = a.builder.Headers(author, now)

	if a.db != nil {
		id, err := sqlite.InsertRun(a.db, sqlite.Run{
			GeneratedAt: now,
			PeriodStart: from,
			Filename:    a.builder.Filename(author, now),
			Author:      author.Firstname + " " + author.Initials,
		}, data)
		if err != nil {
			a.log.Error().Err(err).Msg("recording run history failed")
		} else {
			res.RunID = id
		}
	}

	if a.summarizer != nil && data.Len() > 0 {
		summary, usage, err := a.summarizer.Summarize(ctx, res.CurrentHeader, data)
		if err != nil {
			a.log.Warn().Err(err).Msg("summary skipped")
		} else {
			res.Summary = summary
			a.log.Info().Int64("tokens", usage.TotalTokens()).Str("summary", summary).Msg("summary generated")
		}
	}

	if a.publisher != nil {
		comment := res.Summary
		if comment == "" {
			comment = slackpub.CountComment(len(data.Current), len(data.Next))
		}
		if err := a.publisher.Publish(ctx, path, res.CurrentHeader, comment); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Preview prints both sections of res to w.
func (a *App) Preview(w io.Writer, res Result) error {
	return preview.Render(w, a.builder.Labels(),
		preview.Section{Caption: res.CurrentHeader, Records: res.Data.Current},
		preview.Section{Caption: res.NextHeader, Records: res.Data.Next},
	)
}

// History returns the latest recorded runs.
func (a *App) History(limit int) ([]sqlite.Run, error) {
	if a.db == nil {
		return nil, fmt.Errorf("run history is disabled")
	}
	return sqlite.ListRuns(a.db, limit)
}
