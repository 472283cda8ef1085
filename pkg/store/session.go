package store

import "time"

// Turn is one exchange entry in the assistant conversation.
type Turn struct {
	Role string `json:"role"` // "user" | "assistant"
	Text string `json:"text"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Preferences accumulates what the user has asked for across turns.
type Preferences struct {
	PropertyType string   `json:"property_type,omitempty"`
	MinPrice     *float64 `json:"min_price,omitempty"`
	MaxPrice     *float64 `json:"max_price,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Locations    []string `json:"locations,omitempty"`
}

// Merge overlays the non-empty fields of p2 onto p. Locations are appended
// and de-duplicated, newest last.
func (p *Preferences) Merge(p2 Preferences) {
	if p2.PropertyType != "" {
		p.PropertyType = p2.PropertyType
	}
	if p2.MinPrice != nil {
		p.MinPrice = p2.MinPrice
	}
	if p2.MaxPrice != nil {
		p.MaxPrice = p2.MaxPrice
	}
	if p2.Bedrooms != nil {
		p.Bedrooms = p2.Bedrooms
	}
	for _, loc := range p2.Locations {
		seen := false
		for _, existing := range p.Locations {
			if existing == loc {
				seen = true
				break
			}
		}
		if !seen {
			p.Locations = append(p.Locations, loc)
		}
	}
}

// Session is the in-memory conversation state for one assistant session.
// Sessions are ephemeral: they do not survive a restart and callers must
// treat them as best effort.
type Session struct {
	ID           string      `json:"id"`
	History      []Turn      `json:"history"`
	LastIntent   string      `json:"last_intent"`
	LastLocation string      `json:"last_location"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
}

// SessionInfo is a read-only diagnostic snapshot of a session.
type SessionInfo struct {
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
	MessageCount int         `json:"message_count"`
	Preferences  Preferences `json:"preferences"`
}

// SessionUpdate carries the partial state merged into a session after a turn.
type SessionUpdate struct {
	Turns       []Turn
	Intent      string
	Location    string
	Preferences *Preferences
}

// SessionStore is the contract every session backend satisfies. Each
// operation is atomic on its own; there are no cross-operation transactions.
type SessionStore interface {
	// GetOrCreate returns the session for id, refreshing its last-activity
	// timestamp, creating an empty one if absent.
	GetOrCreate(id string) *Session

	// Update merges the partial update into the session, truncating history
	// to the configured maximum. A missing session is recreated first.
	Update(id string, update SessionUpdate)

	// Clear removes the session. No error if absent.
	Clear(id string)

	// Describe returns a diagnostic snapshot, or false if unknown.
	Describe(id string) (*SessionInfo, bool)
}
