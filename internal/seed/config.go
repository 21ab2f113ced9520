package seed

import (
	"sync/atomic"
	"time"
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Contacts       int           // Number of contacts to create
	Teams          int           // Number of teams to create
	MembersPerTeam int           // Members added to each team besides its creator
	Messages       int           // Callouts sent to each team
	Battles        int           // Number of battles to create
	Workers        int           // Number of concurrent requests
	Timeout        time.Duration // HTTP request timeout
	Verbose        bool          // Log every request
}

// Contact mirrors the API contact shape.
type Contact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Team mirrors the API team shape.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	CreatedBy   string `json:"created_by"`
}

// Member mirrors the API membership shape.
type Member struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// Battle mirrors the API battle shape.
type Battle struct {
	ID     string `json:"id"`
	Round  string `json:"round"`
	Status string `json:"status,omitempty"`
}

// Message mirrors the API message shape.
type Message struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	TeamID string `json:"team_id"`
}

// Ack represents the response from posting a message.
type Ack struct {
	Status    string   `json:"status"`
	Duplicate bool     `json:"duplicate"`
	Message   *Message `json:"message,omitempty"`
}

// Stats holds run statistics. Counters are updated from worker goroutines.
type Stats struct {
	ContactsCreated atomic.Int64
	TeamsCreated    atomic.Int64
	MembersAdded    atomic.Int64
	MessagesSent    atomic.Int64
	Duplicates      atomic.Int64
	BattlesCreated  atomic.Int64
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
