// Package domain contém as estruturas de dados do domínio da aplicação
package domain

// Seller representa um vendedor carregado da tabela users, já filtrado
// pela allow-list de nomes configurada para o painel
type Seller struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// DisplayName retorna o nome para exibição, usando o email como fallback
func (s Seller) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}
