package domain

import "time"

// AssistanceRequest is a guest-filed request in the low-volume assistance
// channel, distinct from the conversation ledger. The read flags flip
// false to true exactly once, through MarkRead.
type AssistanceRequest struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Text        string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	ReadByAdmin bool      `json:"lu_admin"`
	ReadByGuest bool      `json:"lu_voyageur"`
}

// AssistanceResponse is an admin reply attached to a request. Attaching a
// response does not touch the request's read flags.
type AssistanceResponse struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"id_assistance"`
	Text      string    `json:"reponse"`
	CreatedAt time.Time `json:"created_at"`
}

// AssistanceWithResponse is a request joined with its latest response, if
// any. This is the inbox shape served by the list endpoints.
type AssistanceWithResponse struct {
	AssistanceRequest
	Response *AssistanceResponse `json:"derniere_reponse,omitempty"`
}

type AssistancePostReq struct {
	Code string `json:"code"`
	Text string `json:"message"`
}

func (r *AssistancePostReq) Validate() error {
	if r.Code == "" {
		return &ValidationError{Field: "code"}
	}
	if r.Text == "" {
		return &ValidationError{Field: "message"}
	}
	return nil
}

type AssistanceResponseReq struct {
	RequestID int64  `json:"id_assistance"`
	Text      string `json:"reponse"`
}

func (r *AssistanceResponseReq) Validate() error {
	if r.RequestID == 0 {
		return &ValidationError{Field: "id_assistance"}
	}
	if r.Text == "" {
		return &ValidationError{Field: "reponse"}
	}
	return nil
}

type AssistanceMarkReadReq struct {
	Code string `json:"code"`
	Role string `json:"lu_par"`
}

func (r *AssistanceMarkReadReq) Validate() error {
	if r.Code == "" {
		return &ValidationError{Field: "code"}
	}
	if _, ok := ParseRole(r.Role); !ok {
		return &ValidationError{Field: "lu_par"}
	}
	return nil
}
