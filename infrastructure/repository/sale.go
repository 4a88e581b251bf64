package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const (
	salesTable = "sales"

	closedSalesLimit = 10000
	recentSalesLimit = 5000
)

var saleColumns = []string{
	"id",
	"amount",
	"stage_name",
	"sold_at",
	"sold_by",
	"sold_by_name",
	"lead_id",
	"created_at",
	"updated_at",
}

// Rótulos de estágio que indicam venda concluída na origem
var closedStagePatterns = []string{"%vendido%", "%fechado%", "%dinheiro%"}

var closedStageExact = []string{"Dinheiro no bolso", "Dinheiro na mesa"}

type SaleRepository interface {
	// ListClosedBySoldAt retorna vendas com sold_at preenchido dentro da janela
	ListClosedBySoldAt(ctx context.Context, since time.Time) ([]*domain.Sale, error)
	// ListClosedByStage retorna vendas sem sold_at cujo estágio indica venda,
	// criadas dentro da janela
	ListClosedByStage(ctx context.Context, since time.Time) ([]*domain.Sale, error)
	// ListRecentlyUpdatedClosed é a rede de segurança: vendas com estágio de
	// venda atualizadas recentemente, com ou sem sold_at
	ListRecentlyUpdatedClosed(ctx context.Context, since time.Time) ([]*domain.Sale, error)
	// ListOpen retorna vendas sem sold_at, usadas como fonte de orçamentos
	// quando budget_documents está vazia
	ListOpen(ctx context.Context) ([]*domain.Sale, error)
}

type saleRepository struct {
	conn postgres.Conn
}

func NewSaleRepository(conn postgres.Conn) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

func (r *saleRepository) ListClosedBySoldAt(ctx context.Context, since time.Time) ([]*domain.Sale, error) {
	queryBuilder := squirrel.
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.NotEq{"sold_at": nil}).
		Where(squirrel.GtOrEq{"sold_at": since}).
		OrderBy("sold_at DESC").
		Limit(closedSalesLimit).
		PlaceholderFormat(squirrel.Dollar)

	return r.querySales(ctx, queryBuilder)
}

func (r *saleRepository) ListClosedByStage(ctx context.Context, since time.Time) ([]*domain.Sale, error) {
	queryBuilder := squirrel.
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"sold_at": nil}).
		Where(closedStageFilter(true)).
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at DESC").
		Limit(closedSalesLimit).
		PlaceholderFormat(squirrel.Dollar)

	return r.querySales(ctx, queryBuilder)
}

func (r *saleRepository) ListRecentlyUpdatedClosed(ctx context.Context, since time.Time) ([]*domain.Sale, error) {
	queryBuilder := squirrel.
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.GtOrEq{"updated_at": since}).
		Where(closedStageFilter(false)).
		OrderBy("updated_at DESC").
		Limit(recentSalesLimit).
		PlaceholderFormat(squirrel.Dollar)

	return r.querySales(ctx, queryBuilder)
}

func (r *saleRepository) ListOpen(ctx context.Context) ([]*domain.Sale, error) {
	queryBuilder := squirrel.
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"sold_at": nil}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.querySales(ctx, queryBuilder)
}

// closedStageFilter monta o filtro de estágio de venda. includeExact adiciona
// os rótulos exatos usados pela variante mais estrita do painel.
func closedStageFilter(includeExact bool) squirrel.Or {
	filter := squirrel.Or{}

	if includeExact {
		for _, stage := range closedStageExact {
			filter = append(filter, squirrel.Eq{"stage_name": stage})
		}
	}

	for _, pattern := range closedStagePatterns {
		filter = append(filter, squirrel.ILike{"stage_name": pattern})
	}

	return filter
}

func (r *saleRepository) querySales(ctx context.Context, queryBuilder squirrel.SelectBuilder) ([]*domain.Sale, error) {
	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear venda: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return sales, nil
}

func scanSale(rows *sql.Rows) (*domain.Sale, error) {
	var (
		sale       domain.Sale
		amount     sql.NullString
		stageName  sql.NullString
		soldAt     sql.NullTime
		soldBy     sql.NullString
		soldByName sql.NullString
		leadID     sql.NullString
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)

	err := rows.Scan(
		&sale.ID,
		&amount,
		&stageName,
		&soldAt,
		&soldBy,
		&soldByName,
		&leadID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	sale.Amount = amount.String
	sale.StageName = stageName.String
	sale.SoldBy = soldBy.String
	sale.SoldByName = soldByName.String
	sale.LeadID = leadID.String
	sale.CreatedAt = createdAt.Time
	sale.UpdatedAt = updatedAt.Time

	if soldAt.Valid {
		soldAtValue := soldAt.Time
		sale.SoldAt = &soldAtValue
	}

	return &sale, nil
}
