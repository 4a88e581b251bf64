package domain

import "time"

// BudgetDocument representa um orçamento em aberto da tabela budget_documents.
// O esquema dessa tabela varia entre instalações, então os campos aqui já
// chegam normalizados pelas regras de extração do repositório.
type BudgetDocument struct {
	ID         string
	Amount     float64
	Status     string
	SellerRef  string
	SellerName string
	LeadID     string
	CreatedAt  time.Time
}
