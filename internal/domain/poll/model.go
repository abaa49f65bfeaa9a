package poll

import (
	"errors"
	"time"
)

// Repository sentinels translated by the service.
var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidOption = errors.New("option index out of range")
	ErrAlreadyVoted  = errors.New("voter already voted on this poll")
)

// Poll is a stored community question.
type Poll struct {
	ID        int64
	Question  string
	Options   []Option
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Option is one answer and its tally.
type Option struct {
	Text  string
	Votes int
}

// TotalVotes sums the option tallies.
func (p Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// Clone copies the options slice.
func (p Poll) Clone() Poll {
	out := p
	out.Options = append([]Option(nil), p.Options...)
	return out
}

// View is the read model returned to clients.
type View struct {
	ID            int64        `json:"id"`
	Question      string       `json:"question"`
	Options       []OptionView `json:"options"`
	TotalVotes    int          `json:"totalVotes"`
	ExpiresAt     time.Time    `json:"expiresAt"`
	CreatedAt     time.Time    `json:"createdAt"`
	UserVoted     bool         `json:"userVoted"`
	UserVoteIndex *int         `json:"userVoteIndex,omitempty"`
}

// OptionView adds the display percentage to an option.
type OptionView struct {
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

// Voter identifies who is voting. Anonymous voters are not deduplicated.
type Voter struct {
	UserID        int64
	Authenticated bool
}

// CreateRequest is the poll creation payload. Duration is in days.
type CreateRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Duration *int     `json:"duration"`
}

// VoteRequest is the vote payload.
type VoteRequest struct {
	PollID      *int64 `json:"pollId"`
	OptionIndex *int   `json:"optionIndex"`
	Voter       Voter  `json:"-"`
}

// Config drives poll defaults.
type Config struct {
	DefaultDurationDays int
	LiveChannel         string
}
