package domain

import "time"

// Sale representa um registro bruto da tabela sales. Amount é mantido como
// string porque a coluna aceita valores não numéricos em registros antigos;
// a conversão para float é responsabilidade do pipeline de agregação.
type Sale struct {
	ID         string
	Amount     string
	StageName  string
	SoldAt     *time.Time
	SoldBy     string
	SoldByName string
	LeadID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectiveDate retorna a data efetiva da venda: sold_at quando preenchido,
// senão created_at
func (s *Sale) EffectiveDate() time.Time {
	if s.SoldAt != nil {
		return *s.SoldAt
	}
	return s.CreatedAt
}
