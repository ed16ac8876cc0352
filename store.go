package attune

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection for profile and reply persistence.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database and runs migrations.
func NewStore(path string) (*Store, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("attune: mkdir %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("attune: open db: %w", err)
	}

	// Single connection avoids write contention for our scale
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("attune: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	// Version tracking
	s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)

	var version int
	s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)

	if version < 1 {
		if _, err := s.db.Exec(`
			CREATE TABLE IF NOT EXISTS profiles (
				user_id    TEXT PRIMARY KEY,
				data       TEXT NOT NULL,
				updated_at TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE IF NOT EXISTS replies (
				id            TEXT PRIMARY KEY,
				user_id       TEXT NOT NULL,
				prompt_id     TEXT NOT NULL,
				day_id        TEXT NOT NULL,
				turn_index    INTEGER NOT NULL DEFAULT 0,
				text          TEXT NOT NULL,
				mood          INTEGER NOT NULL,
				engagement    TEXT NOT NULL,
				emotions      TEXT NOT NULL DEFAULT '[]',
				response_time REAL NOT NULL DEFAULT 0,
				created_at    TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_replies_user_day ON replies(user_id, day_id);
			CREATE INDEX IF NOT EXISTS idx_replies_created  ON replies(created_at);

			CREATE TABLE IF NOT EXISTS prompt_stats (
				prompt_id     TEXT PRIMARY KEY,
				effectiveness REAL NOT NULL DEFAULT 1.0,
				uses          INTEGER NOT NULL DEFAULT 0,
				updated_at    TEXT NOT NULL DEFAULT (datetime('now'))
			);
		`); err != nil {
			return err
		}
		s.db.Exec(`INSERT INTO schema_version (version) VALUES (1)`)
	}

	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- Profiles ---

// SaveProfile upserts a profile as a JSON blob keyed by user id.
func (s *Store) SaveProfile(p *UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("attune: marshal profile %s: %w", p.UserID, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO profiles (user_id, data, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		p.UserID, string(data),
	)
	if err != nil {
		return fmt.Errorf("attune: save profile %s: %w", p.UserID, err)
	}
	return nil
}

// LoadProfile returns the stored profile for a user, or a fresh default
// profile when none exists yet.
func (s *Store) LoadProfile(userID string) (*UserProfile, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM profiles WHERE user_id = ?`, userID).Scan(&data)
	if err == sql.ErrNoRows {
		return NewProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("attune: load profile %s: %w", userID, err)
	}

	var p UserProfile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("attune: decode profile %s: %w", userID, err)
	}
	if p.EmotionalKeywords == nil {
		p.EmotionalKeywords = map[string]int{}
	}
	if p.MoodPatterns == nil {
		p.MoodPatterns = map[int][]string{}
	}
	if len(p.TimePreferences) == 0 {
		p.TimePreferences = map[TimeOfDay]float64{
			Morning: 0.25, Afternoon: 0.25, Evening: 0.25, Night: 0.25,
		}
	}
	return &p, nil
}

// --- Replies ---

// AppendReply stores one immutable reply row.
func (s *Store) AppendReply(r Reply) error {
	emotions, err := json.Marshal(r.Emotions)
	if err != nil {
		return fmt.Errorf("attune: marshal emotions: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO replies (id, user_id, prompt_id, day_id, turn_index, text, mood, engagement, emotions, response_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.PromptID, r.DayID, r.TurnIndex, r.Text, r.Mood,
		string(r.Engagement), string(emotions), r.ResponseTime,
		r.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("attune: append reply %s: %w", r.ID, err)
	}
	return nil
}

func (s *Store) scanReplies(rows *sql.Rows) ([]Reply, error) {
	defer rows.Close()
	var out []Reply
	for rows.Next() {
		var r Reply
		var emotions, engagement, created string
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.PromptID, &r.DayID, &r.TurnIndex,
			&r.Text, &r.Mood, &engagement, &emotions, &r.ResponseTime, &created,
		); err != nil {
			return nil, err
		}
		r.Engagement = EngagementLevel(engagement)
		if err := json.Unmarshal([]byte(emotions), &r.Emotions); err != nil {
			return nil, fmt.Errorf("attune: reply %s emotions: %w", r.ID, err)
		}
		ts, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("attune: reply %s created_at: %w", r.ID, err)
		}
		r.Timestamp = ts
		out = append(out, r)
	}
	return out, rows.Err()
}

const replySelectCols = `id, user_id, prompt_id, day_id, turn_index, text, mood, engagement, emotions, response_time, created_at`

// RepliesForDay loads a user's replies for one day id, oldest first.
func (s *Store) RepliesForDay(userID, dayID string) ([]Reply, error) {
	rows, err := s.db.Query(`
		SELECT `+replySelectCols+`
		FROM replies
		WHERE user_id = ? AND day_id = ?
		ORDER BY created_at ASC, turn_index ASC`,
		userID, dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("attune: replies for day %s: %w", dayID, err)
	}
	return s.scanReplies(rows)
}

// RecentReplies loads a user's most recent replies, newest first, capped at
// limit.
func (s *Store) RecentReplies(userID string, limit int) ([]Reply, error) {
	rows, err := s.db.Query(`
		SELECT `+replySelectCols+`
		FROM replies
		WHERE user_id = ?
		ORDER BY created_at DESC, turn_index DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("attune: recent replies: %w", err)
	}
	return s.scanReplies(rows)
}

// DayMood is the averaged mood for one day of replies.
type DayMood struct {
	DayID   string  `json:"day_id"`
	AvgMood float64 `json:"avg_mood"`
	Replies int     `json:"replies"`
}

// MoodTrends returns per-day mood averages for the last `days` distinct
// recorded days, oldest first.
func (s *Store) MoodTrends(userID string, days int) ([]DayMood, error) {
	rows, err := s.db.Query(`
		SELECT day_id, AVG(mood), COUNT(*)
		FROM replies
		WHERE user_id = ?
		GROUP BY day_id
		ORDER BY day_id DESC
		LIMIT ?`,
		userID, days,
	)
	if err != nil {
		return nil, fmt.Errorf("attune: mood trends: %w", err)
	}
	defer rows.Close()

	var out []DayMood
	for rows.Next() {
		var d DayMood
		if err := rows.Scan(&d.DayID, &d.AvgMood, &d.Replies); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Flip to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Streak counts consecutive days with at least one reply, ending at the
// given day and walking backward.
func (s *Store) Streak(userID string, today string) (int, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT day_id FROM replies
		WHERE user_id = ? AND day_id <= ?
		ORDER BY day_id DESC`,
		userID, today,
	)
	if err != nil {
		return 0, fmt.Errorf("attune: streak: %w", err)
	}
	defer rows.Close()

	var dayIDs []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return 0, err
		}
		dayIDs = append(dayIDs, d)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(dayIDs) == 0 {
		return 0, nil
	}

	cur, err := time.Parse("2006-01-02", today)
	if err != nil {
		return 0, fmt.Errorf("attune: streak: bad day id %q: %w", today, err)
	}
	if dayIDs[0] != today {
		// A streak can also end yesterday
		cur = cur.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range dayIDs {
		if d != DayID(cur) {
			break
		}
		streak++
		cur = cur.AddDate(0, 0, -1)
	}
	return streak, nil
}

// --- Prompt stats ---

// UpsertEffectiveness records a prompt's latest effectiveness score and bumps
// its use count.
func (s *Store) UpsertEffectiveness(promptID string, score float64) error {
	_, err := s.db.Exec(`
		INSERT INTO prompt_stats (prompt_id, effectiveness, uses, updated_at)
		VALUES (?, ?, 1, datetime('now'))
		ON CONFLICT(prompt_id) DO UPDATE SET
			effectiveness = excluded.effectiveness,
			uses = prompt_stats.uses + 1,
			updated_at = excluded.updated_at`,
		promptID, score,
	)
	if err != nil {
		return fmt.Errorf("attune: upsert effectiveness %s: %w", promptID, err)
	}
	return nil
}

// Effectiveness returns the stored score for a prompt, defaulting to the
// neutral 1.0 when the prompt has never been scored.
func (s *Store) Effectiveness(promptID string) (float64, error) {
	var score float64
	err := s.db.QueryRow(`SELECT effectiveness FROM prompt_stats WHERE prompt_id = ?`, promptID).Scan(&score)
	if err == sql.ErrNoRows {
		return 1.0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("attune: effectiveness %s: %w", promptID, err)
	}
	return score, nil
}

// AllEffectiveness loads every stored prompt score.
func (s *Store) AllEffectiveness() (map[string]float64, error) {
	rows, err := s.db.Query(`SELECT prompt_id, effectiveness FROM prompt_stats`)
	if err != nil {
		return nil, fmt.Errorf("attune: all effectiveness: %w", err)
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var id string
		var score float64
		if err := rows.Scan(&id, &score); err != nil {
			return nil, err
		}
		out[id] = score
	}
	return out, rows.Err()
}

// StatsSummary is a debug helper for the MCP inspect surface.
func (s *Store) StatsSummary(userID string) (string, error) {
	var replies, days int
	err := s.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT day_id) FROM replies WHERE user_id = ?`,
		userID,
	).Scan(&replies, &days)
	if err != nil {
		return "", fmt.Errorf("attune: stats summary: %w", err)
	}
	return fmt.Sprintf("%d replies across %d days", replies, days), nil
}
