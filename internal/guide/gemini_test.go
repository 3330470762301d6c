package guide

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slemo54/LifeQuests/internal/config"
	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/stats"
)

func fakeServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"` + reply + `"}]}}]}`))
	}))
}

func testGemini(url string) *Gemini {
	g := NewGemini("test-key", "gemini-2.0-flash", nil)
	g.BaseURL = url
	return g
}

func TestDailyBriefingUsesServiceText(t *testing.T) {
	srv := fakeServer(t, "Ride at dawn, Hero!")
	defer srv.Close()

	g := testGemini(srv.URL)
	got := g.DailyBriefing(context.Background(), stats.Default(config.Default()), nil)
	assert.Equal(t, "Ride at dawn, Hero!", got)
}

func TestDailyBriefingFallsBackWithoutKey(t *testing.T) {
	g := NewGemini("", "", nil)
	got := g.DailyBriefing(context.Background(), stats.Default(config.Default()), nil)
	assert.Equal(t, FallbackBriefing, got)
}

func TestAdviceFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := testGemini(srv.URL)
	got := g.Advice(context.Background(), stats.Default(config.Default()), nil, "why am I failing")
	assert.Equal(t, FallbackAdvice, got)
}

func TestAdviceIncludesHabitsInPrompt(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = string(body)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	h, err := habit.New("Morning Run", "", habit.DifficultyHard, habit.FrequencyDaily, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	g := testGemini(srv.URL)
	g.Advice(context.Background(), stats.Default(config.Default()), []habit.Habit{h}, "what next")
	assert.True(t, strings.Contains(seen, "Morning Run"))
}

func TestSuggestDifficulty(t *testing.T) {
	cases := []struct {
		reply string
		want  habit.Difficulty
	}{
		{"Hard", habit.DifficultyHard},
		{"Medium", habit.DifficultyMedium},
		{"Easy", habit.DifficultyEasy},
		{"something else", habit.DifficultyEasy},
	}
	for _, tc := range cases {
		srv := fakeServer(t, tc.reply)
		g := testGemini(srv.URL)
		got := g.SuggestDifficulty(context.Background(), "Read a book", "one chapter")
		assert.Equal(t, tc.want, got, "reply %q", tc.reply)
		srv.Close()
	}
}

func TestSilentNarrator(t *testing.T) {
	var n Narrator = Silent{}
	assert.Equal(t, FallbackBriefing, n.DailyBriefing(context.Background(), stats.UserStats{}, nil))
	assert.Equal(t, FallbackAdvice, n.Advice(context.Background(), stats.UserStats{}, nil, "hi"))
	assert.Equal(t, habit.DifficultyEasy, n.SuggestDifficulty(context.Background(), "x", "y"))
}
