// Package server registers the HTTP API over the game engine.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/slemo54/LifeQuests/internal/game"
	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/reward"
	"github.com/slemo54/LifeQuests/internal/store"
)

// App holds what the handlers depend on.
type App struct {
	Engine *game.Engine
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, habit.ErrNotFound), errors.Is(err, reward.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, habit.ErrShieldCooldown),
		errors.Is(err, habit.ErrNotCompletedToday),
		errors.Is(err, game.ErrInsufficientGold),
		errors.Is(err, game.ErrMaxDifficulty):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, habit.ErrEmptyTitle),
		errors.Is(err, reward.ErrEmptyTitle),
		errors.Is(err, game.ErrResetConfirmation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	engine := app.Engine

	Handle(mux, rr, "GET /api/habits", "List habits", "", func(w http.ResponseWriter, r *http.Request) {
		habits, err := engine.ListHabits()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, habits)
	})

	Handle(mux, rr, "POST /api/habits", "Create habit", `{"title":"Morning Run","difficulty":"Medium","frequency":"Daily"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title       string           `json:"title"`
			Description string           `json:"description"`
			Difficulty  habit.Difficulty `json:"difficulty"`
			Frequency   habit.Frequency  `json:"frequency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		h, err := engine.AddHabit(r.Context(), body.Title, body.Description, body.Difficulty, body.Frequency)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, h)
	})

	Handle(mux, rr, "PUT /api/habits/{id}", "Edit habit", `{"title":"Evening Run"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title       *string           `json:"title"`
			Description *string           `json:"description"`
			Difficulty  *habit.Difficulty `json:"difficulty"`
			Frequency   *habit.Frequency  `json:"frequency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		h, err := engine.EditHabit(r.Context(), r.PathValue("id"), game.HabitEdit{
			Title:       body.Title,
			Description: body.Description,
			Difficulty:  body.Difficulty,
			Frequency:   body.Frequency,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, h)
	})

	Handle(mux, rr, "DELETE /api/habits/{id}", "Delete habit", "", func(w http.ResponseWriter, r *http.Request) {
		if err := engine.DeleteHabit(r.Context(), r.PathValue("id")); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	})

	Handle(mux, rr, "POST /api/habits/{id}/complete", "Complete habit for today", "", func(w http.ResponseWriter, r *http.Request) {
		res, err := engine.CompleteHabit(r.Context(), r.PathValue("id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, res)
	})

	Handle(mux, rr, "POST /api/habits/{id}/skip", "Spend the streak shield on today", "", func(w http.ResponseWriter, r *http.Request) {
		h, err := engine.SkipHabit(r.Context(), r.PathValue("id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, h)
	})

	Handle(mux, rr, "POST /api/habits/{id}/undo", "Undo today's completion", "", func(w http.ResponseWriter, r *http.Request) {
		out, err := engine.UndoCompletion(r.Context(), r.PathValue("id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, out)
	})

	Handle(mux, rr, "POST /api/habits/{id}/upgrade", "Raise habit difficulty one tier", "", func(w http.ResponseWriter, r *http.Request) {
		h, err := engine.UpgradeDifficulty(r.Context(), r.PathValue("id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, h)
	})

	Handle(mux, rr, "GET /api/rewards", "List rewards", "", func(w http.ResponseWriter, r *http.Request) {
		rewards, err := engine.ListRewards()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, rewards)
	})

	Handle(mux, rr, "POST /api/rewards", "Create reward", `{"title":"Movie Night","cost":100,"icon":"🎬"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title string `json:"title"`
			Cost  int    `json:"cost"`
			Icon  string `json:"icon"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		rw, err := engine.AddReward(r.Context(), body.Title, body.Cost, body.Icon)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, rw)
	})

	Handle(mux, rr, "PUT /api/rewards/{id}", "Edit reward", `{"title":"Long Movie Night","cost":150}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title string `json:"title"`
			Cost  int    `json:"cost"`
			Icon  string `json:"icon"`
		}
		body.Cost = -1 // absent cost means keep
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		rw, err := engine.EditReward(r.Context(), r.PathValue("id"), body.Title, body.Cost, body.Icon)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, rw)
	})

	Handle(mux, rr, "DELETE /api/rewards/{id}", "Delete reward", "", func(w http.ResponseWriter, r *http.Request) {
		if err := engine.DeleteReward(r.Context(), r.PathValue("id")); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	})

	Handle(mux, rr, "POST /api/rewards/{id}/purchase", "Buy a reward with gold", "", func(w http.ResponseWriter, r *http.Request) {
		s, err := engine.PurchaseReward(r.Context(), r.PathValue("id"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, s)
	})

	Handle(mux, rr, "GET /api/stats", "Current account stats", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, engine.Stats())
	})

	Handle(mux, rr, "PUT /api/stats/name", "Rename the hero", `{"name":"Aria"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		s, err := engine.UpdateName(r.Context(), body.Name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, s)
	})

	Handle(mux, rr, "POST /api/day/check", "Reconcile habits with the calendar", "", func(w http.ResponseWriter, r *http.Request) {
		res, err := engine.CheckDay(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, res)
	})

	Handle(mux, rr, "GET /api/briefing", "Today's daily briefing", "", func(w http.ResponseWriter, r *http.Request) {
		res, err := engine.CheckDay(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"message": res.Briefing, "day": res.Day})
	})

	Handle(mux, rr, "POST /api/guide/advice", "Ask the quest master", `{"message":"what next"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"reply": engine.Advice(r.Context(), body.Message)})
	})

	Handle(mux, rr, "GET /api/analytics", "Completion history and counters", "", func(w http.ResponseWriter, r *http.Request) {
		days := 30
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				http.Error(w, "days must be a positive integer", http.StatusBadRequest)
				return
			}
			days = n
		}
		stats, err := engine.Analytics(days)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, stats)
	})

	Handle(mux, rr, "GET /api/export", "Export the whole account", "", func(w http.ResponseWriter, r *http.Request) {
		doc, err := engine.Snapshot()
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="lifequests-export.json"`)
		writeJSON(w, doc)
	})

	Handle(mux, rr, "POST /api/import", "Restore an exported account", "", func(w http.ResponseWriter, r *http.Request) {
		var doc store.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		if err := engine.Restore(r.Context(), doc); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	})

	Handle(mux, rr, "POST /api/reset", "Wipe the account", `{"confirm":"RESET"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Confirm string `json:"confirm"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		if err := engine.ResetAll(r.Context(), body.Confirm); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	})
}
