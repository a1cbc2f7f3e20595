package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nomavia/guestlink/internal/domain"
)

type ConversationRepository interface {
	Insert(ctx context.Context, code, author, text string, alert bool) (*domain.ConversationMessage, error)
	ListByCode(ctx context.Context, code string) ([]domain.ConversationMessage, error)
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{pool: pool}
}

const conversationCols = `id, code, author, message, alert, created_at`

func (r *conversationRepository) Insert(ctx context.Context, code, author, text string, alert bool) (*domain.ConversationMessage, error) {
	const q = `INSERT INTO conversations (code, author, message, alert)
	VALUES ($1,$2,$3,$4)
	RETURNING ` + conversationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m domain.ConversationMessage
	err := r.pool.QueryRow(ctx, q, code, author, text, alert).Scan(
		&m.ID, &m.Code, &m.Author, &m.Text, &m.Alert, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *conversationRepository) ListByCode(ctx context.Context, code string) ([]domain.ConversationMessage, error) {
	const q = `SELECT ` + conversationCols + ` FROM conversations WHERE code=$1 ORDER BY created_at ASC, id ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ConversationMessage
	for rows.Next() {
		var m domain.ConversationMessage
		if err := rows.Scan(&m.ID, &m.Code, &m.Author, &m.Text, &m.Alert, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
