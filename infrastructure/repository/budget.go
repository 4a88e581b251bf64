package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

const budgetsTable = "budget_documents"

// O esquema de budget_documents varia entre instalações, então a leitura é
// feita com SELECT * e os campos relevantes são extraídos por listas
// ordenadas de nomes possíveis, aplicadas deterministicamente.
var (
	budgetAmountFields     = []string{"amount", "value", "total"}
	budgetSellerRefFields  = []string{"uploaded_by", "user_id", "seller_id", "owner_id", "assigned_to", "owner_user_id"}
	budgetSellerNameFields = []string{"seller_name", "user_name", "owner_name"}
	budgetDateFields       = []string{"created_at", "created_date"}
)

type BudgetRepository interface {
	// ListOpen retorna orçamentos com status "aberto" ou sem status
	ListOpen(ctx context.Context) ([]*domain.BudgetDocument, error)
}

type budgetRepository struct {
	conn postgres.Conn
}

func NewBudgetRepository(conn postgres.Conn) BudgetRepository {
	return &budgetRepository{
		conn: conn,
	}
}

func (r *budgetRepository) ListOpen(ctx context.Context) ([]*domain.BudgetDocument, error) {
	queryBuilder := squirrel.
		Select("*").
		From(budgetsTable).
		Where(squirrel.Or{
			squirrel.Eq{"status": "aberto"},
			squirrel.Eq{"status": nil},
		}).
		OrderBy("created_at DESC").
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

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler as colunas: %w", err)
	}

	var budgets []*domain.BudgetDocument
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("erro ao escanear orçamento: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}

		budgets = append(budgets, buildBudget(row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return budgets, nil
}

// buildBudget aplica as regras de extração de campos sobre uma linha genérica
func buildBudget(row map[string]any) *domain.BudgetDocument {
	return &domain.BudgetDocument{
		ID:         stringValue(row["id"]),
		Amount:     firstAmount(row, budgetAmountFields),
		Status:     stringValue(row["status"]),
		SellerRef:  firstString(row, budgetSellerRefFields),
		SellerName: firstString(row, budgetSellerNameFields),
		LeadID:     stringValue(row["lead_id"]),
		CreatedAt:  firstTime(row, budgetDateFields),
	}
}

func firstString(row map[string]any, fields []string) string {
	for _, field := range fields {
		if value := stringValue(row[field]); value != "" {
			return value
		}
	}
	return ""
}

func firstAmount(row map[string]any, fields []string) float64 {
	for _, field := range fields {
		value, ok := row[field]
		if !ok || value == nil {
			continue
		}

		switch v := value.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		case []byte:
			return utils.ParseAmount(string(v))
		case string:
			return utils.ParseAmount(v)
		}
	}
	return 0
}

// firstTime devolve a primeira data presente; sem nenhuma, usa o momento
// atual, como o painel original fazia
func firstTime(row map[string]any, fields []string) time.Time {
	for _, field := range fields {
		switch v := row[field].(type) {
		case time.Time:
			return v
		case []byte:
			if parsed, err := time.Parse(time.RFC3339, string(v)); err == nil {
				return parsed
			}
		case string:
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				return parsed
			}
		}
	}
	return time.Now()
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
