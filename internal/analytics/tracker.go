package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Kind names a tracked interaction.
type Kind string

const (
	KindTheme   Kind = "theme"
	KindSkill   Kind = "skill"
	KindContact Kind = "contact"
)

// Retention is how long visitor, interaction and contact rows are kept.
const Retention = 365 * 24 * time.Hour

// untrackedPrefixes are assets, fragments and admin paths, never counted as
// page visits.
var untrackedPrefixes = []string{"/static/", "/images/", "/logos/", "/admin/", "/api/", "/nav", "/privacy", "/favicon", "/healthz"}

// Tracker writes visits and interactions with hashed client addresses.
type Tracker struct {
	db    *DB
	salt  string
	now   func() time.Time
	async bool
}

// NewTracker uses salt for IP hashing; an empty salt gets a random one, so
// hashes are only stable for the life of the process.
func NewTracker(db *DB, salt string) *Tracker {
	if salt == "" {
		salt = randomHex(32)
	}
	return &Tracker{db: db, salt: salt, now: time.Now, async: true}
}

// Synchronous makes the middleware write inline instead of in the background.
func (t *Tracker) Synchronous() *Tracker {
	t.async = false
	return t
}

// WithClock overrides the time source.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// HashIP returns a salted, truncated SHA-256 of an address.
func (t *Tracker) HashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + t.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (t *Tracker) stamp() string {
	return t.now().UTC().Format(timeLayout)
}

// Middleware records page visits, skipping assets and admin pages and
// honoring Do Not Track.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !Trackable(path) || c.GetHeader("DNT") == "1" || c.Request.Method != "GET" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		if t.async {
			go t.logVisit(ip, ua, path)
		} else {
			t.logVisit(ip, ua, path)
		}
		c.Next()
	}
}

// Trackable reports whether a request path counts as a page visit.
func Trackable(path string) bool {
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

func (t *Tracker) logVisit(ip, userAgent, path string) {
	if err := t.RecordVisit(context.Background(), ip, userAgent, path); err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}

// RecordVisit stores one page view.
func (t *Tracker) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		t.HashIP(ip), userAgent, path, t.stamp())
	if err != nil {
		return fmt.Errorf("inserting visitor: %w", err)
	}
	return nil
}

// RecordInteraction stores one view-state change, such as a theme toggle
// ("dark"/"light") or a skill category being expanded.
func (t *Tracker) RecordInteraction(ctx context.Context, kind Kind, subject string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO interactions (kind, subject, timestamp) VALUES (?, ?, ?)`,
		string(kind), subject, t.stamp())
	if err != nil {
		return fmt.Errorf("inserting %s interaction: %w", kind, err)
	}
	return nil
}

// Message is a stored contact submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Relayed   bool      `json:"relayed"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordMessage stores a contact submission and returns its id.
func (t *Tracker) RecordMessage(ctx context.Context, name, email, message string, relayed bool) (string, error) {
	id := uuid.NewString()
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, message, relayed, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, email, message, relayed, t.stamp())
	if err != nil {
		return "", fmt.Errorf("inserting contact message: %w", err)
	}
	if err := t.RecordInteraction(ctx, KindContact, ""); err != nil {
		return id, err
	}
	return id, nil
}

// Cleanup removes visitor, interaction and contact message rows older than
// Retention and reports how many visitor rows were deleted.
func (t *Tracker) Cleanup(ctx context.Context) (int64, error) {
	cutoff := t.now().Add(-Retention).UTC().Format(timeLayout)

	res, err := t.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning visitors: %w", err)
	}
	if _, err := t.db.ExecContext(ctx, `DELETE FROM interactions WHERE timestamp < ?`, cutoff); err != nil {
		return 0, fmt.Errorf("cleaning interactions: %w", err)
	}
	msgs, err := t.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning contact messages: %w", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than 12 months", n)
	}
	if m, _ := msgs.RowsAffected(); m > 0 {
		log.Printf("Privacy cleanup: Removed %d contact messages older than 12 months", m)
	}
	return n, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("Failed to generate random salt:", err)
	}
	return hex.EncodeToString(b)
}
