package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nomavia/guestlink/internal/domain"
)

type AssistanceRepository interface {
	Create(ctx context.Context, code, text string) (*domain.AssistanceRequest, error)
	GetByID(ctx context.Context, id int64) (*domain.AssistanceRequest, error)
	GetLatestByCode(ctx context.Context, code string) (*domain.AssistanceRequest, error)
	ListAll(ctx context.Context) ([]domain.AssistanceWithResponse, error)
	ListByCode(ctx context.Context, code string) ([]domain.AssistanceWithResponse, error)
	MarkRead(ctx context.Context, code string, admin bool) error
	CountUnread(ctx context.Context, code string, admin bool) (int, error)
	InsertResponse(ctx context.Context, requestID int64, text string) (*domain.AssistanceResponse, error)
}

type assistanceRepository struct {
	pool *pgxpool.Pool
}

func NewAssistanceRepository(pool *pgxpool.Pool) AssistanceRepository {
	return &assistanceRepository{pool: pool}
}

const assistanceCols = `id, code, message, created_at, read_admin, read_guest`

func (r *assistanceRepository) Create(ctx context.Context, code, text string) (*domain.AssistanceRequest, error) {
	const q = `INSERT INTO assistance (code, message, read_admin, read_guest)
	VALUES ($1,$2,false,false)
	RETURNING ` + assistanceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.AssistanceRequest
	err := r.pool.QueryRow(ctx, q, code, text).Scan(
		&a.ID, &a.Code, &a.Text, &a.CreatedAt, &a.ReadByAdmin, &a.ReadByGuest,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assistanceRepository) GetByID(ctx context.Context, id int64) (*domain.AssistanceRequest, error) {
	const q = `SELECT ` + assistanceCols + ` FROM assistance WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.AssistanceRequest
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.Code, &a.Text, &a.CreatedAt, &a.ReadByAdmin, &a.ReadByGuest,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &a, err
}

func (r *assistanceRepository) GetLatestByCode(ctx context.Context, code string) (*domain.AssistanceRequest, error) {
	const q = `SELECT ` + assistanceCols + ` FROM assistance WHERE code=$1 ORDER BY id DESC LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.AssistanceRequest
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&a.ID, &a.Code, &a.Text, &a.CreatedAt, &a.ReadByAdmin, &a.ReadByGuest,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &a, err
}

// joinedQuery selects each request together with its most recent response,
// or NULLs when no response has been attached yet.
const joinedQuery = `SELECT
	a.id, a.code, a.message, a.created_at, a.read_admin, a.read_guest,
	r.id, r.request_id, r.response, r.created_at
FROM assistance a
LEFT JOIN LATERAL (
	SELECT id, request_id, response, created_at
	FROM assistance_responses
	WHERE request_id = a.id
	ORDER BY id DESC
	LIMIT 1
) r ON true`

func (r *assistanceRepository) ListAll(ctx context.Context) ([]domain.AssistanceWithResponse, error) {
	const q = joinedQuery + ` ORDER BY a.id DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJoined(rows)
}

func (r *assistanceRepository) ListByCode(ctx context.Context, code string) ([]domain.AssistanceWithResponse, error) {
	const q = joinedQuery + ` WHERE a.code=$1 ORDER BY a.created_at ASC, a.id ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJoined(rows)
}

func scanJoined(rows pgx.Rows) ([]domain.AssistanceWithResponse, error) {
	var items []domain.AssistanceWithResponse
	for rows.Next() {
		var item domain.AssistanceWithResponse
		var respID, respRequestID *int64
		var respText *string
		var respCreatedAt *time.Time
		if err := rows.Scan(
			&item.ID, &item.Code, &item.Text, &item.CreatedAt,
			&item.ReadByAdmin, &item.ReadByGuest,
			&respID, &respRequestID, &respText, &respCreatedAt,
		); err != nil {
			return nil, err
		}
		if respID != nil {
			item.Response = &domain.AssistanceResponse{
				ID:        *respID,
				RequestID: *respRequestID,
				Text:      *respText,
				CreatedAt: *respCreatedAt,
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *assistanceRepository) MarkRead(ctx context.Context, code string, admin bool) error {
	q := `UPDATE assistance SET read_guest=true WHERE code=$1`
	if admin {
		q = `UPDATE assistance SET read_admin=true WHERE code=$1`
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, code)
	return err
}

func (r *assistanceRepository) CountUnread(ctx context.Context, code string, admin bool) (int, error) {
	q := `SELECT count(*) FROM assistance WHERE code=$1 AND read_guest=false`
	if admin {
		q = `SELECT count(*) FROM assistance WHERE code=$1 AND read_admin=false`
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	err := r.pool.QueryRow(ctx, q, code).Scan(&n)
	return n, err
}

func (r *assistanceRepository) InsertResponse(ctx context.Context, requestID int64, text string) (*domain.AssistanceResponse, error) {
	const q = `INSERT INTO assistance_responses (request_id, response)
	VALUES ($1,$2)
	RETURNING id, request_id, response, created_at`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var resp domain.AssistanceResponse
	err := r.pool.QueryRow(ctx, q, requestID, text).Scan(
		&resp.ID, &resp.RequestID, &resp.Text, &resp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
