package habit

import (
	"sort"
	"sync"

	"github.com/slemo54/LifeQuests/internal/dateutil"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	habits map[string]Habit
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{habits: map[string]Habit{}}
}

func normalize(h *Habit) {
	if h.CompletionDates == nil {
		h.CompletionDates = []dateutil.Date{}
	}
}

func applyPatch(h *Habit, p Patch) {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Difficulty != nil {
		h.Difficulty = *p.Difficulty
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.Streak != nil {
		h.Streak = *p.Streak
	}
	if p.CompletedToday != nil {
		h.CompletedToday = *p.CompletedToday
	}
	if p.LastCompleted != nil {
		h.LastCompleted = *p.LastCompleted
	}
	if p.LastGraceUsed != nil {
		h.LastGraceUsed = *p.LastGraceUsed
	}
	if p.CompletionDates != nil {
		h.CompletionDates = *p.CompletionDates
	}
}

func (r *MemoryRepo) Create(h Habit) (Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	normalize(&h)
	r.habits[h.ID] = h
	return h, nil
}

func (r *MemoryRepo) Get(id string) (Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.habits[id]
	if !ok {
		return Habit{}, ErrNotFound
	}
	normalize(&h)
	return h, nil
}

func (r *MemoryRepo) Update(id string, p Patch) (Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.habits[id]
	if !ok {
		return Habit{}, ErrNotFound
	}
	applyPatch(&h, p)
	normalize(&h)
	r.habits[id] = h
	return h, nil
}

func (r *MemoryRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.habits[id]; !ok {
		return ErrNotFound
	}
	delete(r.habits, id)
	return nil
}

func (r *MemoryRepo) List() ([]Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Habit, 0, len(r.habits))
	for _, h := range r.habits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) Replace(habits []Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.habits = make(map[string]Habit, len(habits))
	for _, h := range habits {
		r.habits[h.ID] = h
	}
	return nil
}
