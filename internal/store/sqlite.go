package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slemo54/LifeQuests/internal/dateutil"
	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/reward"
	"github.com/slemo54/LifeQuests/internal/stats"
)

// SQLiteStore persists the document in a SQLite database. The account is
// single-user, so user_stats holds exactly one row with id 1.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS user_stats (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	name TEXT NOT NULL,
	class_title TEXT NOT NULL,
	level INTEGER NOT NULL,
	xp INTEGER NOT NULL,
	next_level_xp INTEGER NOT NULL,
	gold INTEGER NOT NULL,
	hp INTEGER NOT NULL,
	max_hp INTEGER NOT NULL,
	last_daily_message TEXT NOT NULL DEFAULT '',
	last_daily_message_date TEXT NOT NULL DEFAULT '',
	last_login TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL,
	frequency TEXT NOT NULL,
	streak INTEGER NOT NULL DEFAULT 0,
	completed_today INTEGER NOT NULL DEFAULT 0,
	last_completed TEXT NOT NULL DEFAULT '',
	last_grace_used TEXT NOT NULL DEFAULT '',
	completion_dates TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rewards (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	cost INTEGER NOT NULL,
	icon TEXT NOT NULL DEFAULT ''
);
`

// OpenSQLite opens the database at path and creates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (Document, bool, error) {
	var doc Document

	row := s.db.QueryRowContext(ctx, `SELECT name, class_title, level, xp, next_level_xp, gold, hp, max_hp,
		last_daily_message, last_daily_message_date, last_login FROM user_stats WHERE id = 1`)
	var msgDate, lastLogin string
	err := row.Scan(&doc.Stats.Name, &doc.Stats.ClassTitle, &doc.Stats.Level, &doc.Stats.XP,
		&doc.Stats.NextLevelXP, &doc.Stats.Gold, &doc.Stats.HP, &doc.Stats.MaxHP,
		&doc.LastDailyMessage, &msgDate, &lastLogin)
	if err == sql.ErrNoRows {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("load stats: %w", err)
	}
	doc.LastDailyMessageDate = dateutil.Date(msgDate)
	doc.LastLogin = dateutil.Date(lastLogin)

	doc.Habits, err = s.loadHabits(ctx)
	if err != nil {
		return Document{}, false, err
	}
	doc.Rewards, err = s.loadRewards(ctx)
	if err != nil {
		return Document{}, false, err
	}
	return doc, true, nil
}

func (s *SQLiteStore) loadHabits(ctx context.Context) ([]habit.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, difficulty, frequency,
		streak, completed_today, last_completed, last_grace_used, completion_dates, created_at
		FROM habits ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	defer rows.Close()

	habits := []habit.Habit{}
	for rows.Next() {
		var h habit.Habit
		var completedToday int
		var lastCompleted, lastGrace, dates string
		var createdAt int64
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.Difficulty, &h.Frequency,
			&h.Streak, &completedToday, &lastCompleted, &lastGrace, &dates, &createdAt); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		h.CompletedToday = completedToday != 0
		h.LastCompleted = dateutil.Date(lastCompleted)
		h.LastGraceUsed = dateutil.Date(lastGrace)
		h.CreatedAt = time.UnixMilli(createdAt).UTC()
		if err := json.Unmarshal([]byte(dates), &h.CompletionDates); err != nil {
			return nil, fmt.Errorf("decode completion dates for %s: %w", h.ID, err)
		}
		if h.CompletionDates == nil {
			h.CompletionDates = []dateutil.Date{}
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *SQLiteStore) loadRewards(ctx context.Context) ([]reward.Reward, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, cost, icon FROM rewards ORDER BY cost, id`)
	if err != nil {
		return nil, fmt.Errorf("load rewards: %w", err)
	}
	defer rows.Close()

	rewards := []reward.Reward{}
	for rows.Next() {
		var r reward.Reward
		if err := rows.Scan(&r.ID, &r.Title, &r.Cost, &r.Icon); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, r)
	}
	return rewards, rows.Err()
}

func (s *SQLiteStore) SaveStats(ctx context.Context, st stats.UserStats, dailyMessage string, dailyMessageDate dateutil.Date) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_stats
		(id, name, class_title, level, xp, next_level_xp, gold, hp, max_hp, last_daily_message, last_daily_message_date)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			class_title = excluded.class_title,
			level = excluded.level,
			xp = excluded.xp,
			next_level_xp = excluded.next_level_xp,
			gold = excluded.gold,
			hp = excluded.hp,
			max_hp = excluded.max_hp,
			last_daily_message = excluded.last_daily_message,
			last_daily_message_date = excluded.last_daily_message_date`,
		st.Name, st.ClassTitle, st.Level, st.XP, st.NextLevelXP, st.Gold, st.HP, st.MaxHP,
		dailyMessage, string(dailyMessageDate))
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveHabit(ctx context.Context, h habit.Habit) error {
	dates, err := json.Marshal(h.CompletionDates)
	if err != nil {
		return fmt.Errorf("encode completion dates: %w", err)
	}
	completedToday := 0
	if h.CompletedToday {
		completedToday = 1
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO habits
		(id, title, description, difficulty, frequency, streak, completed_today,
		 last_completed, last_grace_used, completion_dates, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			difficulty = excluded.difficulty,
			frequency = excluded.frequency,
			streak = excluded.streak,
			completed_today = excluded.completed_today,
			last_completed = excluded.last_completed,
			last_grace_used = excluded.last_grace_used,
			completion_dates = excluded.completion_dates`,
		h.ID, h.Title, h.Description, string(h.Difficulty), string(h.Frequency),
		h.Streak, completedToday, string(h.LastCompleted), string(h.LastGraceUsed),
		string(dates), h.CreatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save habit %s: %w", h.ID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteHabit(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete habit %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) SaveReward(ctx context.Context, r reward.Reward) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO rewards (id, title, cost, icon)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			cost = excluded.cost,
			icon = excluded.icon`,
		r.ID, r.Title, r.Cost, r.Icon)
	if err != nil {
		return fmt.Errorf("save reward %s: %w", r.ID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteReward(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM rewards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete reward %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) SaveLastLogin(ctx context.Context, day dateutil.Date) error {
	res, err := s.db.ExecContext(ctx, `UPDATE user_stats SET last_login = ? WHERE id = 1`, string(day))
	if err != nil {
		return fmt.Errorf("save last login: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// stats row not written yet; keep the login with empty stats
		_, err = s.db.ExecContext(ctx, `INSERT INTO user_stats
			(id, name, class_title, level, xp, next_level_xp, gold, hp, max_hp, last_login)
			VALUES (1, 'Hero', '', 1, 0, 0, 0, 0, 0, ?)`, string(day))
		if err != nil {
			return fmt.Errorf("save last login: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) ReplaceAll(ctx context.Context, doc Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"habits", "rewards", "user_stats"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO user_stats
		(id, name, class_title, level, xp, next_level_xp, gold, hp, max_hp,
		 last_daily_message, last_daily_message_date, last_login)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Stats.Name, doc.Stats.ClassTitle, doc.Stats.Level, doc.Stats.XP,
		doc.Stats.NextLevelXP, doc.Stats.Gold, doc.Stats.HP, doc.Stats.MaxHP,
		doc.LastDailyMessage, string(doc.LastDailyMessageDate), string(doc.LastLogin))
	if err != nil {
		return fmt.Errorf("replace stats: %w", err)
	}
	for _, h := range doc.Habits {
		dates, err := json.Marshal(h.CompletionDates)
		if err != nil {
			return fmt.Errorf("encode completion dates: %w", err)
		}
		completedToday := 0
		if h.CompletedToday {
			completedToday = 1
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO habits
			(id, title, description, difficulty, frequency, streak, completed_today,
			 last_completed, last_grace_used, completion_dates, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.Title, h.Description, string(h.Difficulty), string(h.Frequency),
			h.Streak, completedToday, string(h.LastCompleted), string(h.LastGraceUsed),
			string(dates), h.CreatedAt.UTC().UnixMilli())
		if err != nil {
			return fmt.Errorf("replace habit %s: %w", h.ID, err)
		}
	}
	for _, r := range doc.Rewards {
		_, err = tx.ExecContext(ctx, `INSERT INTO rewards (id, title, cost, icon) VALUES (?, ?, ?, ?)`,
			r.ID, r.Title, r.Cost, r.Icon)
		if err != nil {
			return fmt.Errorf("replace reward %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}
