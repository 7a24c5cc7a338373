package slack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// Uploader is the part of *slack.Client the publisher needs.
type Uploader interface {
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

type Publisher struct {
	api       Uploader
	channelID string
	log       zerolog.Logger
}

func NewPublisher(botToken, channelID string, log zerolog.Logger) *Publisher {
	return NewPublisherWithUploader(slack.New(botToken), channelID, log)
}

func NewPublisherWithUploader(api Uploader, channelID string, log zerolog.Logger) *Publisher {
	return &Publisher{
		api:       api,
		channelID: channelID,
		log:       log.With().Str("component", "slack").Logger(),
	}
}

// Publish uploads the report file at path to the configured channel.
func (p *Publisher) Publish(ctx context.Context, path, title, comment string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading report file: %w", err)
	}
	if fi.Size() <= 0 {
		return errors.New("report file is empty")
	}

	summary, err := p.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		File:           path,
		FileSize:       int(fi.Size()),
		Filename:       filepath.Base(path),
		Channel:        p.channelID,
		Title:          title,
		InitialComment: comment,
	})
	if err != nil {
		p.log.Error().Err(err).Str("file", path).Msg("upload failed")
		return fmt.Errorf("uploading report to slack: %w", err)
	}
	fileID := ""
	if summary != nil {
		fileID = summary.ID
	}
	p.log.Info().Str("file", filepath.Base(path)).Str("channel", p.channelID).Str("file_id", fileID).Msg("report uploaded")
	return nil
}

// CountComment is the upload comment used when no summary is available.
func CountComment(current, next int) string {
	return fmt.Sprintf("Отчет: %d задач(и) в текущем периоде, %d в плане.", current, next)
}
