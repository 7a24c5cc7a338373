package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"redminereport/internal/report"
)

const (
	DefaultModel     = "claude-3-5-haiku-latest"
	summaryMaxTokens = 512
)

const systemPrompt = `Ты помогаешь инженеру составить ежемесячный отчет.
По списку задач напиши 2-3 предложения на русском языке: что сделано в текущем периоде и что запланировано на следующий.
Не выдумывай задачи, которых нет в списке. Без markdown, без списков.`

type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

type Summarizer struct {
	client anthropic.Client
	model  string
	log    zerolog.Logger
}

// NewSummarizer builds a summarizer backed by the Anthropic Messages API.
// Extra request options are appended after the API key and HTTP client.
func NewSummarizer(apiKey, model string, httpClient *http.Client, log zerolog.Logger, opts ...option.RequestOption) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		all = append(all, option.WithHTTPClient(httpClient))
	}
	all = append(all, opts...)
	return &Summarizer{
		client: anthropic.NewClient(all...),
		model:  model,
		log:    log.With().Str("component", "llm").Logger(),
	}
}

// Summarize asks the model for a short summary of data.
func (s *Summarizer) Summarize(ctx context.Context, title string, data report.Data) (string, Usage, error) {
	if data.Len() == 0 {
		return "", Usage{}, errors.New("nothing to summarize")
	}
	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: summaryMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(title, data))),
		},
	})
	if err != nil {
		s.log.Error().Err(err).Str("model", s.model).Msg("anthropic request failed")
		return "", Usage{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			text := strings.TrimSpace(block.Text)
			s.log.Debug().Int("size", len(text)).Int64("tokens_in", usage.InputTokens).Int64("tokens_out", usage.OutputTokens).Msg("anthropic response")
			return text, usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}

// BuildPrompt renders the report records as plain text for the model.
func BuildPrompt(title string, data report.Data) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\nТекущий период:\n")
	writeRecords(&b, data.Current, true)
	b.WriteString("\nСледующий период:\n")
	writeRecords(&b, data.Next, false)
	return b.String()
}

func writeRecords(b *strings.Builder, records []report.Record, withSpent bool) {
	if len(records) == 0 {
		b.WriteString("- нет задач\n")
		return
	}
	for _, r := range records {
		fmt.Fprintf(b, "- [%s] %s (%s", r.WorkName, r.Note, r.Status)
		if withSpent && r.SpentTime != "" {
			fmt.Fprintf(b, ", затрачено %s", r.SpentTime)
		}
		if r.DueDate != "" {
			fmt.Fprintf(b, ", срок %s", r.DueDate)
		}
		b.WriteString(")\n")
	}
}
