package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nomavia/guestlink/internal/domain"
)

type OperatorRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Operator, error)
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

func (r *operatorRepository) GetByCode(ctx context.Context, code string) (*domain.Operator, error) {
	const q = `SELECT name, code FROM operators WHERE code=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var o domain.Operator
	err := r.pool.QueryRow(ctx, q, code).Scan(&o.Name, &o.Code)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &o, err
}
