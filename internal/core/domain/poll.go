package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OptionCount is the fixed number of options every poll carries.
const OptionCount = 3

type PollStatus string

const (
	StatusOpen   PollStatus = "open"
	StatusClosed PollStatus = "closed"
)

// MessageRef identifies the posted poll message on the chat platform.
type MessageRef struct {
	ChannelID string `json:"channel_id" msgpack:"channel_id"`
	MessageID string `json:"message_id" msgpack:"message_id"`
}

func (r MessageRef) IsZero() bool {
	return r.ChannelID == "" || r.MessageID == ""
}

func (r MessageRef) String() string {
	return fmt.Sprintf("%s:%s", r.ChannelID, r.MessageID)
}

// Poll is both the open poll handed back to the invoker and the pending
// token that the close action must present later.
type Poll struct {
	ID         uuid.UUID           `json:"id" msgpack:"id"`
	CreatorID  string              `json:"creator_id" msgpack:"creator_id"`
	Question   string              `json:"question" msgpack:"question"`
	Options    [OptionCount]string `json:"options" msgpack:"options"`
	MessageRef MessageRef          `json:"message_ref" msgpack:"message_ref"`
	Status     PollStatus          `json:"status" msgpack:"status"`
	Tally      Tally               `json:"tally,omitempty" msgpack:"tally"`
	CreatedAt  time.Time           `json:"created_at" msgpack:"created_at"`
	ClosedAt   *time.Time          `json:"closed_at,omitempty" msgpack:"closed_at"`
}

// Reaction is one entry of a message's reaction state.
type Reaction struct {
	Marker string
	Count  int
}

// Tally maps option index (1..OptionCount) to its vote count.
type Tally map[int]int

func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Leaders returns the option indexes holding the highest count, in option
// order. A tally without votes has no leaders.
func (t Tally) Leaders() []int {
	best := 0
	var leaders []int
	for i := 1; i <= OptionCount; i++ {
		switch n := t[i]; {
		case n == 0 || n < best:
		case n > best:
			best = n
			leaders = []int{i}
		default:
			leaders = append(leaders, i)
		}
	}
	return leaders
}
