package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks the user one question and returns the trimmed answer.
type Prompter interface {
	Prompt(question string) (string, error)
}

type StdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{in: bufio.NewReader(in), out: out}
}

func (p *StdinPrompter) Prompt(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

type bootstrapFile struct {
	Redmine RedmineConfig `json:"redmine"`
	User    UserConfig    `json:"user"`
}

// Bootstrap asks for the user's name, initials and API key (and the Redmine
// URL when defaultURL is empty) and writes a new config file at path.
func Bootstrap(path string, p Prompter, defaultURL string) error {
	answer, err := p.Prompt("Введите данные пользователя (Фамилия Инициалы): ")
	if err != nil {
		return err
	}
	parts := strings.Fields(answer)
	if len(parts) != 2 {
		return fmt.Errorf("expected \"Фамилия Инициалы\", got %q", answer)
	}

	url := defaultURL
	if url == "" {
		url, err = p.Prompt("Введите адрес Redmine (https://redmine.example.com/): ")
		if err != nil {
			return err
		}
		if url == "" {
			return errors.New("redmine URL is required")
		}
	}

	apiKey, err := p.Prompt(fmt.Sprintf("Введите API-ключ Redmine (%s/my/account): ", strings.TrimRight(url, "/")))
	if err != nil {
		return err
	}
	if apiKey == "" {
		return errors.New("API key is required")
	}

	return writeFile(path, bootstrapFile{
		Redmine: RedmineConfig{URL: url, APIKey: apiKey},
		User:    UserConfig{Firstname: parts[0], Initials: parts[1]},
	})
}

func writeFile(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// LoadOrBootstrap loads path, creating it through p first when it does not
// exist. Any other read error is returned unchanged.
func LoadOrBootstrap(path string, p Prompter) (Config, bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		cfg, err := Load(path)
		return cfg, false, err
	case !IsNotExist(err):
		return Config{}, false, fmt.Errorf("checking config %s: %w", path, err)
	}

	if err := Bootstrap(path, p, os.Getenv("REDMINE_URL")); err != nil {
		return Config{}, false, fmt.Errorf("creating config %s: %w", path, err)
	}
	cfg, err := Load(path)
	return cfg, true, err
}
