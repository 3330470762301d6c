package guide

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/stats"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini calls the Google generative language API. A zero API key turns
// every method into its fallback without touching the network.
type Gemini struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

func NewGemini(apiKey, model string, logger *zap.Logger) *Gemini {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
		Logger:  logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate runs one prompt and returns the first candidate's text.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("no api key configured")
	}
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.BaseURL, g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate: status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate: empty response")
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("generate: blank candidate")
	}
	return text, nil
}

func (g *Gemini) DailyBriefing(ctx context.Context, s stats.UserStats, habits []habit.Habit) string {
	text, err := g.generate(ctx, briefingPrompt(s, habits))
	if err != nil {
		g.Logger.Debug("briefing fallback", zap.Error(err))
		return FallbackBriefing
	}
	return text
}

func (g *Gemini) Advice(ctx context.Context, s stats.UserStats, habits []habit.Habit, message string) string {
	prompt := advicePrompt(s, habits) + "\n\nHERO ASKS: " + message
	text, err := g.generate(ctx, prompt)
	if err != nil {
		g.Logger.Debug("advice fallback", zap.Error(err))
		return FallbackAdvice
	}
	return text
}

func (g *Gemini) SuggestDifficulty(ctx context.Context, title, description string) habit.Difficulty {
	text, err := g.generate(ctx, difficultyPrompt(title, description))
	if err != nil {
		g.Logger.Debug("difficulty fallback", zap.Error(err))
		return habit.DifficultyEasy
	}
	switch habit.Difficulty(strings.TrimSpace(text)) {
	case habit.DifficultyMedium:
		return habit.DifficultyMedium
	case habit.DifficultyHard:
		return habit.DifficultyHard
	default:
		return habit.DifficultyEasy
	}
}
