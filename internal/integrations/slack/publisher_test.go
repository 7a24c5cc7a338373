package slack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	got    []slack.UploadFileV2Parameters
	err    error
	fileID string
}

func (f *fakeUploader) UploadFileV2Context(_ context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error) {
	f.got = append(f.got, params)
	if f.err != nil {
		return nil, f.err
	}
	return &slack.FileSummary{ID: f.fileID, Title: params.Title}, nil
}

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Отчет_Иванов_Октябрь.odt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}

func TestPublishUploadsFile(t *testing.T) {
	path := writeReport(t, "PK-fake-odt")
	up := &fakeUploader{fileID: "F123"}
	p := NewPublisherWithUploader(up, "C42", zerolog.Nop())

	err := p.Publish(context.Background(), path, "Отчет за Октябрь", "summary")
	require.NoError(t, err)
	require.Len(t, up.got, 1)

	params := up.got[0]
	assert.Equal(t, path, params.File)
	assert.Equal(t, len("PK-fake-odt"), params.FileSize)
	assert.Equal(t, "Отчет_Иванов_Октябрь.odt", params.Filename)
	assert.Equal(t, "C42", params.Channel)
	assert.Equal(t, "Отчет за Октябрь", params.Title)
	assert.Equal(t, "summary", params.InitialComment)
}

func TestPublishRejectsEmptyFile(t *testing.T) {
	path := writeReport(t, "")
	up := &fakeUploader{}
	p := NewPublisherWithUploader(up, "C42", zerolog.Nop())

	err := p.Publish(context.Background(), path, "t", "c")
	require.Error(t, err)
	assert.Empty(t, up.got)
}

func TestPublishMissingFile(t *testing.T) {
	up := &fakeUploader{}
	p := NewPublisherWithUploader(up, "C42", zerolog.Nop())

	err := p.Publish(context.Background(), filepath.Join(t.TempDir(), "nope.odt"), "t", "c")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPublishWrapsUploadError(t *testing.T) {
	path := writeReport(t, "data")
	boom := errors.New("not_in_channel")
	p := NewPublisherWithUploader(&fakeUploader{err: boom}, "C42", zerolog.Nop())

	err := p.Publish(context.Background(), path, "t", "c")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestCountComment(t *testing.T) {
	assert.Equal(t, "Отчет: 3 задач(и) в текущем периоде, 1 в плане.", CountComment(3, 1))
}
