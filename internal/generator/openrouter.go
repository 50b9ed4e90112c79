// Package generator produces story text through the OpenRouter chat completions API.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
)

const (
	DefaultAPIURL = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel  = "meta-llama/llama-3.1-8b-instruct:free"

	appTitle    = "Contos Mágicos"
	temperature = 0.8
	maxTokens   = 2000
)

var titleLine = regexp.MustCompile(`^#?\s*(.+?)[\n\r]`)

// Config configures an OpenRouter generator.
type Config struct {
	APIKey  string
	APIURL  string
	Model   string
	Referer string
	Timeout time.Duration
}

// OpenRouter implements application.StoryGenerator.
type OpenRouter struct {
	cfg        Config
	limiter    Limiter
	httpClient *http.Client
}

// New creates an OpenRouter generator. An empty APIKey is allowed here; every
// Generate call then fails with domain.ErrGeneratorNotConfigured.
func New(cfg Config, limiter Limiter) *OpenRouter {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Referer == "" {
		cfg.Referer = "http://localhost:3000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenRouter{
		cfg:        cfg,
		limiter:    limiter,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for a story. Admission is checked before any network call.
func (g *OpenRouter) Generate(ctx context.Context, input domain.GenerateStoryInput) (*domain.GeneratedStory, error) {
	if g.cfg.APIKey == "" {
		return nil, domain.ErrGeneratorNotConfigured
	}

	if g.limiter != nil {
		ok, err := g.limiter.Allow(ctx)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	body, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(input.AgeGroup)},
			{Role: "user", Content: userPrompt(input)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", g.cfg.Referer)
	req.Header.Set("X-Title", appTitle)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Msg("openrouter returned an error")
		return nil, fmt.Errorf("%w: openrouter status %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: no content returned", domain.ErrUpstream)
	}

	log.Debug().
		Str("theme", string(input.Theme)).
		Dur("elapsed", time.Since(start)).
		Msg("story generated")

	return parseStory(out.Choices[0].Message.Content), nil
}

// parseStory reads {title, content} JSON from the model output. Anything else is
// kept as content with the first line as title. Titles are clamped to
// domain.MaxTitleLength.
func parseStory(text string) *domain.GeneratedStory {
	var parsed struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		story := &domain.GeneratedStory{Title: titleOrDefault(parsed.Title), Content: parsed.Content}
		if story.Content == "" {
			story.Content = text
		}
		return story
	}

	title := ""
	if m := titleLine.FindStringSubmatch(text); m != nil {
		title = m[1]
	}
	return &domain.GeneratedStory{Title: titleOrDefault(title), Content: text}
}

func titleOrDefault(title string) string {
	if t := domain.ClampTitle(title); t != "" {
		return t
	}
	return domain.DefaultStoryTitle
}
