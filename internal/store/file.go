package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/slemo54/LifeQuests/internal/dateutil"
	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/reward"
	"github.com/slemo54/LifeQuests/internal/stats"
)

// FileStore keeps the document in one JSON file under dataDir.
type FileStore struct {
	mu      sync.Mutex
	path    string
	doc     Document
	present bool
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	fs := &FileStore{path: filepath.Join(dataDir, "lifequests.json")}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileStore) load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.doc = Document{}
			f.present = false
			return nil
		}
		return err
	}
	var loaded Document
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	f.doc = loaded
	f.present = true
	return nil
}

func (f *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Load(ctx context.Context) (Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneDocument(f.doc), f.present, nil
}

func (f *FileStore) SaveStats(ctx context.Context, s stats.UserStats, dailyMessage string, dailyMessageDate dateutil.Date) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.Stats = s
	f.doc.LastDailyMessage = dailyMessage
	f.doc.LastDailyMessageDate = dailyMessageDate
	f.present = true
	return f.saveLocked()
}

func (f *FileStore) SaveHabit(ctx context.Context, h habit.Habit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	replaced := false
	for i := range f.doc.Habits {
		if f.doc.Habits[i].ID == h.ID {
			f.doc.Habits[i] = h
			replaced = true
			break
		}
	}
	if !replaced {
		f.doc.Habits = append(f.doc.Habits, h)
	}
	f.present = true
	return f.saveLocked()
}

func (f *FileStore) DeleteHabit(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.doc.Habits[:0]
	for _, h := range f.doc.Habits {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	f.doc.Habits = kept
	f.present = true
	return f.saveLocked()
}

func (f *FileStore) SaveReward(ctx context.Context, r reward.Reward) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	replaced := false
	for i := range f.doc.Rewards {
		if f.doc.Rewards[i].ID == r.ID {
			f.doc.Rewards[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		f.doc.Rewards = append(f.doc.Rewards, r)
	}
	f.present = true
	return f.saveLocked()
}

func (f *FileStore) DeleteReward(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.doc.Rewards[:0]
	for _, r := range f.doc.Rewards {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.doc.Rewards = kept
	f.present = true
	return f.saveLocked()
}

func (f *FileStore) SaveLastLogin(ctx context.Context, day dateutil.Date) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.LastLogin = day
	f.present = true
	return f.saveLocked()
}

func (f *FileStore) ReplaceAll(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc = cloneDocument(doc)
	f.present = true
	return f.saveLocked()
}

func (f *FileStore) Close() error { return nil }

func cloneDocument(doc Document) Document {
	out := doc
	out.Habits = make([]habit.Habit, len(doc.Habits))
	for i, h := range doc.Habits {
		h.CompletionDates = append([]dateutil.Date(nil), h.CompletionDates...)
		out.Habits[i] = h
	}
	out.Rewards = append([]reward.Reward(nil), doc.Rewards...)
	return out
}
