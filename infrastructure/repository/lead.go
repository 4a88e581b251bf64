package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
)

const leadsTable = "leads"

type LeadRepository interface {
	// ListIDsBySeller retorna os ids dos leads atribuídos ao vendedor ou dos
	// quais ele é dono
	ListIDsBySeller(ctx context.Context, sellerID string) ([]string, error)
}

type leadRepository struct {
	conn postgres.Conn
}

func NewLeadRepository(conn postgres.Conn) LeadRepository {
	return &leadRepository{
		conn: conn,
	}
}

func (r *leadRepository) ListIDsBySeller(ctx context.Context, sellerID string) ([]string, error) {
	queryBuilder := squirrel.
		Select("id").
		From(leadsTable).
		Where(squirrel.Or{
			squirrel.Eq{"assigned_to": sellerID},
			squirrel.Eq{"owner_user_id": sellerID},
		}).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	var leadIDs []string
	for rows.Next() {
		var leadID string
		if err := rows.Scan(&leadID); err != nil {
			return nil, fmt.Errorf("erro ao escanear lead: %w", err)
		}
		leadIDs = append(leadIDs, leadID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return leadIDs, nil
}
