package domain

import (
	"time"

	"github.com/google/uuid"
)

type PollResult struct {
	ID        uuid.UUID `json:"id"`
	Creator   string    `json:"creator"`
	Question  string    `json:"question"`
	Responses Tally     `json:"responses"`
	ClosedAt  time.Time `json:"closed_at"`
}

type ResultSummary struct {
	Creator    string `json:"creator"`
	Polls      int    `json:"polls"`
	TotalVotes int    `json:"total_votes"`
	Unanswered int    `json:"unanswered"`
}
