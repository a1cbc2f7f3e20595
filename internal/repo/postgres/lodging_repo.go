package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nomavia/guestlink/internal/domain"
)

type LodgingRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Lodging, error)
}

type lodgingRepository struct {
	pool *pgxpool.Pool
}

func NewLodgingRepository(pool *pgxpool.Pool) LodgingRepository {
	return &lodgingRepository{pool: pool}
}

const lodgingCols = `code, host_name, wifi, info, language`

func (r *lodgingRepository) GetByCode(ctx context.Context, code string) (*domain.Lodging, error) {
	const q = `SELECT ` + lodgingCols + ` FROM lodgings WHERE code=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var l domain.Lodging
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&l.Code, &l.HostName, &l.Wifi, &l.Info, &l.Language,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &l, err
}
