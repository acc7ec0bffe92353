package domain

import "time"

// Estagiario representa a entidade de identidade do sistema: cada estagiário
// recebe um código público único (EST-XXXXX) usado para bater o ponto.
type Estagiario struct {
	ID       int64     `json:"id"`
	Nome     string    `json:"nome"`
	Codigo   string    `json:"codigo"`
	Ativo    bool      `json:"ativo"`
	CriadoEm time.Time `json:"criado_em"`
}

// CriarEstagiarioRequest é o payload de entrada para o cadastro.
type CriarEstagiarioRequest struct {
	Nome string `json:"nome"`
}

// AtualizarAtivoRequest é o payload de entrada para ativar/desativar o código.
type AtualizarAtivoRequest struct {
	Ativo bool `json:"ativo"`
}
