package domain

import "time"

// DashboardResponse é o payload consumido pelo painel de TV a cada ciclo de
// polling. Recalculado por completo a cada requisição; nada é persistido.
type DashboardResponse struct {
	Totals     DashboardTotals  `json:"totals"`
	Sellers    []*SellerMetrics `json:"sellers"`
	OpenQuotes []*OpenQuote     `json:"openQuotes"`
	TodaySales []*TodaySales    `json:"todaySales"`
}

type DashboardTotals struct {
	TotalSalesValue      float64 `json:"totalSalesValue"`
	TotalSalesCount      int     `json:"totalSalesCount"`
	TotalOpenQuotes      int     `json:"totalOpenQuotes"`
	TotalOpenQuotesValue float64 `json:"totalOpenQuotesValue"`
	SalesGoal            float64 `json:"salesGoal"`
	GoalProgress         float64 `json:"goalProgress"`
}

// SellerMetrics agrega os contadores de um vendedor. Vendedores sem nenhuma
// atividade também aparecem, para o painel renderizar o quadro completo.
type SellerMetrics struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	SalesCount      int     `json:"salesCount"`
	SalesTotal      float64 `json:"salesTotal"`
	OpenQuotesCount int     `json:"openQuotesCount"`
	OpenQuotesValue float64 `json:"openQuotesValue"`
	Goal            float64 `json:"goal"`
	GoalProgress    float64 `json:"goalProgress"`
	GoalRemaining   float64 `json:"goalRemaining"`
	ReachedGoal     bool    `json:"reachedGoal"`
}

type TodaySales struct {
	SellerID   string  `json:"sellerId"`
	SellerName string  `json:"sellerName"`
	SalesCount int     `json:"salesCount"`
	SalesTotal float64 `json:"salesTotal"`
}

// OpenQuote é um orçamento em aberto atribuído a um vendedor. Source indica
// de qual tabela o registro veio: "budgets" ou "sales" (fallback).
type OpenQuote struct {
	ID         string    `json:"id"`
	SellerID   string    `json:"sellerId"`
	SellerName string    `json:"sellerName"`
	Value      float64   `json:"value"`
	CreatedAt  time.Time `json:"createdAt"`
	StageName  string    `json:"stageName,omitempty"`
	Source     string    `json:"source"`
}
