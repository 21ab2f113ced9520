package model

import "time"

// Contact is an entry in the local directory.
type Contact struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Role      MemberRole `json:"role"`
	Avatar    string     `json:"avatar"`
	CreatedAt time.Time  `json:"created_at"`
}

// TeamType separates pro and amateur teams.
type TeamType string

// Team types.
const (
	TeamPro     TeamType = "pro"
	TeamAmateur TeamType = "amateur"
)

// Valid reports whether t is a known team type.
func (t TeamType) Valid() bool {
	return t == TeamPro || t == TeamAmateur
}

// Team is a roster owner. MemberCount is derived from the member rows.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        TeamType  `json:"type"`
	Role        string    `json:"role"` // creator's role label
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

// TeamMember links a user to a team.
type TeamMember struct {
	ID       string     `json:"id"`
	TeamID   string     `json:"team_id"`
	UserID   string     `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// Message is one entry of a team's message log. Messages are never edited.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Role      `json:"sender"`
	SenderID  string    `json:"sender_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	TeamID    string    `json:"team_id"`
}

// Settings holds the device preference toggles.
type Settings struct {
	Notifications bool `json:"notifications"`
	Sound         bool `json:"sound"`
	Vibration     bool `json:"vibration"`
	QuickMessages bool `json:"quick_messages"`
}

// DefaultSettings returns every toggle switched on.
func DefaultSettings() Settings {
	return Settings{Notifications: true, Sound: true, Vibration: true, QuickMessages: true}
}

// SettingsPatch carries optional updates; nil fields are left untouched.
type SettingsPatch struct {
	Notifications *bool `json:"notifications,omitempty"`
	Sound         *bool `json:"sound,omitempty"`
	Vibration     *bool `json:"vibration,omitempty"`
	QuickMessages *bool `json:"quick_messages,omitempty"`
}

// Apply returns s with the non-nil fields of p written over it.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Sound != nil {
		s.Sound = *p.Sound
	}
	if p.Vibration != nil {
		s.Vibration = *p.Vibration
	}
	if p.QuickMessages != nil {
		s.QuickMessages = *p.QuickMessages
	}
	return s
}
