package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// A mensagem é exposta sob dois nomes de campo (mensagem e message) por
// compatibilidade com o frontend existente, que lê ambos.
type ErrorResponse struct {
	Code     int    `json:"code"`
	Category string `json:"category"`
	Mensagem string `json:"mensagem"`
	Message  string `json:"message"`
}
