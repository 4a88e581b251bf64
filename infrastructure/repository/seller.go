// Package repository contém as implementações dos repositórios de leitura do painel
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const sellersTable = "users"

type SellerRepository interface {
	// ListAllowed retorna os vendedores ativos cujo nome contém (sem
	// diferenciar caixa) alguma entrada da allow-list
	ListAllowed(ctx context.Context, names []string) ([]*domain.Seller, error)
}

type sellerRepository struct {
	conn postgres.Conn
}

func NewSellerRepository(conn postgres.Conn) SellerRepository {
	return &sellerRepository{
		conn: conn,
	}
}

func (r *sellerRepository) ListAllowed(ctx context.Context, names []string) ([]*domain.Seller, error) {
	nameFilter := squirrel.Or{}
	for _, name := range names {
		nameFilter = append(nameFilter, squirrel.ILike{"name": "%" + name + "%"})
	}

	queryBuilder := squirrel.
		Select("id", "name", "email", "role", "active").
		From(sellersTable).
		Where(squirrel.Eq{"active": true}).
		Where(nameFilter).
		OrderBy("name ASC").
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

	var sellers []*domain.Seller
	for rows.Next() {
		var (
			seller domain.Seller
			name   sql.NullString
			email  sql.NullString
			role   sql.NullString
		)

		if err := rows.Scan(&seller.ID, &name, &email, &role, &seller.Active); err != nil {
			return nil, fmt.Errorf("erro ao escanear vendedor: %w", err)
		}

		seller.Name = name.String
		seller.Email = email.String
		seller.Role = role.String

		sellers = append(sellers, &seller)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return sellers, nil
}
