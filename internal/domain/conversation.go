package domain

import "time"

// ConversationMessage is one row of a lodging's append-only conversation
// ledger. Alert is computed once when the message is stored and never
// changes afterwards.
type ConversationMessage struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Author    string    `json:"auteur"`
	Text      string    `json:"message"`
	Alert     bool      `json:"alerte"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationPostReq struct {
	Code   string `json:"code"`
	Author string `json:"auteur"`
	Text   string `json:"message"`
}

func (r *ConversationPostReq) Validate() error {
	if r.Code == "" {
		return &ValidationError{Field: "code"}
	}
	if r.Author == "" {
		return &ValidationError{Field: "auteur"}
	}
	if r.Text == "" {
		return &ValidationError{Field: "message"}
	}
	return nil
}
