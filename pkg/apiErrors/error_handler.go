package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos internos de erro do painel
const (
	// Erros de requisição (4000-4999)
	ErrInvalidRequest = "REQ_001" // Parâmetro de requisição inválido

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrRequestTimeout    = "SRV_003" // Tempo limite da requisição excedido
)

// Mapeamento de códigos de erro para status HTTP. Toda falha fatal do painel
// responde 500; o frontend da TV só distingue sucesso de falha.
var httpStatusMap = map[string]int{
	ErrInvalidRequest:    http.StatusBadRequest,
	ErrInternalServer:    http.StatusInternalServerError,
	ErrDatabaseOperation: http.StatusInternalServerError,
	ErrRequestTimeout:    http.StatusInternalServerError,
}

// APIError é o envelope de erro consumido pelo painel:
// { error, message, details? }
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError escreve o erro padronizado na resposta HTTP. title é o rótulo
// curto exibido no painel; message carrega a causa subjacente.
func WriteError(w http.ResponseWriter, code string, title string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Error:   title,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
