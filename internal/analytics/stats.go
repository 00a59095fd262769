package analytics

import (
	"context"
	"fmt"
	"time"
)

type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// SkillCount is how many times a skill category was expanded.
type SkillCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type Stats struct {
	TotalVisitors    int64        `json:"total_visitors"`
	UniqueVisitors   int64        `json:"unique_visitors"`
	VisitorsToday    int64        `json:"visitors_today"`
	VisitorsThisWeek int64        `json:"visitors_this_week"`
	DarkToggles      int64        `json:"dark_toggles"`
	LightToggles     int64        `json:"light_toggles"`
	Contacts         int64        `json:"contacts"`
	TopSkills        []SkillCount `json:"top_skills"`
	RecentVisitors   []Visitor    `json:"recent_visitors"`
}

// Stats aggregates the dashboard numbers.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	now := t.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Format(timeLayout)
	week := now.Add(-7 * 24 * time.Hour).Format(timeLayout)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{week}},
		{&stats.DarkToggles, `SELECT COUNT(*) FROM interactions WHERE kind = 'theme' AND subject = 'dark'`, nil},
		{&stats.LightToggles, `SELECT COUNT(*) FROM interactions WHERE kind = 'theme' AND subject = 'light'`, nil},
		{&stats.Contacts, `SELECT COUNT(*) FROM contact_messages`, nil},
	}
	for _, c := range counts {
		if err := t.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}

	top, err := t.TopSkills(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.TopSkills = top

	recent, err := t.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	return stats, nil
}

// TopSkills lists the most expanded skill categories.
func (t *Tracker) TopSkills(ctx context.Context, limit int) ([]SkillCount, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT subject, COUNT(*) AS n
		FROM interactions
		WHERE kind = 'skill'
		GROUP BY subject
		ORDER BY n DESC, subject ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top skills: %w", err)
	}
	defer rows.Close()

	var out []SkillCount
	for rows.Next() {
		var s SkillCount
		if err := rows.Scan(&s.Name, &s.Count); err != nil {
			return nil, fmt.Errorf("scanning skill count: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentVisitors lists the latest visits, newest first.
func (t *Tracker) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	return t.Visitors(ctx, limit, 0)
}

// Visitors lists one page of visits, newest first, skipping offset rows.
func (t *Tracker) Visitors(ctx context.Context, limit, offset int) ([]Visitor, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying visitors: %w", err)
	}
	defer rows.Close()

	var out []Visitor
	for rows.Next() {
		var v Visitor
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		v.Timestamp, _ = time.Parse(timeLayout, ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Messages lists stored contact submissions, newest first.
func (t *Tracker) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, name, email, message, relayed, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var ts string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Relayed, &ts); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.CreatedAt, _ = time.Parse(timeLayout, ts)
		out = append(out, m)
	}
	return out, rows.Err()
}
