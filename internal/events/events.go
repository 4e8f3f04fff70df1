package events

import "time"

// Event types
const (
	AccountUpdated = "account.updated"

	QuestionVoted = "question.voted"
	AnswerVoted   = "answer.voted"
)

// Stream names
const (
	AccountEventsStream  = "account.events"
	QuestionEventsStream = "question.events"
	AnswerEventsStream   = "answer.events"
)

// Vote directions carried by vote events.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Event is the envelope every stream message carries.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// AccountUpdatedEvent is published after a successful self-service update.
type AccountUpdatedEvent struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// QuestionVotedEvent arrives from the question service when a question
// receives a vote. OwnerAccountID is the account whose score changes.
type QuestionVotedEvent struct {
	QuestionID     string `json:"questionId"`
	OwnerAccountID string `json:"ownerAccountId"`
	VoterAccountID string `json:"voterAccountId"`
	VoteType       string `json:"voteType"`
}

// AnswerVotedEvent arrives from the answer service when an answer receives a
// vote.
type AnswerVotedEvent struct {
	AnswerID       string `json:"answerId"`
	OwnerAccountID string `json:"ownerAccountId"`
	VoterAccountID string `json:"voterAccountId"`
	VoteType       string `json:"voteType"`
}
