package objects

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Resource keys published on the event bus when the matching data changes.
const (
	ResourceTeams         = "teams"
	ResourcePayments      = "payments"
	ResourceAnnouncements = "announcements"
	ResourceMatches       = "matches"
	ResourceStandings     = "standings"
)

type TeamStatus string

const (
	TeamStatusPendingPayment TeamStatus = "pending_payment"
	TeamStatusRegistered     TeamStatus = "registered"
)

type Team struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	CaptainName  string     `json:"captainName"`
	CaptainPhone string     `json:"captainPhone"`
	CaptainEmail string     `json:"captainEmail"`
	Status       TeamStatus `json:"status"`
	LogoURL      string     `json:"logoUrl,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusFailed     PaymentStatus = "failed"
)

type Payment struct {
	Reference             string          `json:"reference"`
	TeamID                string          `json:"teamId"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Phone                 string          `json:"phone"`
	Email                 string          `json:"email"`
	Name                  string          `json:"name"`
	Status                PaymentStatus   `json:"status"`
	ProviderTransactionID string          `json:"providerTransactionId,omitempty"`
	RawData               json.RawMessage `json:"rawData,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
}

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
)

type Match struct {
	ID         string      `json:"id"`
	Round      int         `json:"round"`
	HomeTeamID string      `json:"homeTeamId"`
	AwayTeamID string      `json:"awayTeamId"`
	HomeScore  int         `json:"homeScore"`
	AwayScore  int         `json:"awayScore"`
	Status     MatchStatus `json:"status"`
	PlayedAt   *time.Time  `json:"playedAt,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Standing is a derived league table row.
type Standing struct {
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}
