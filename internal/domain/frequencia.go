package domain

import (
	apperror "pontoestagio/internal/errors"
)

// Tipos de registro de ponto aceitos.
const (
	TipoEntrada = "entrada"
	TipoSaida   = "saida"
)

// TipoValido informa se o tipo de registro pertence ao conjunto aceito.
func TipoValido(tipo string) bool {
	return tipo == TipoEntrada || tipo == TipoSaida
}

// Frequencia representa o registro diário de ponto de um estagiário.
// Existe no máximo um registro por par (estagiário, data); a saída nunca é
// preenchida sem a entrada. O registro nunca é apagado nem editado depois de
// completo.
type Frequencia struct {
	ID           string  `json:"id"`
	EstagiarioID int64   `json:"estagiario_id"`
	Data         string  `json:"data"`         // YYYY-MM-DD
	HoraEntrada  string  `json:"hora_entrada"` // HH:MM
	HoraSaida    *string `json:"hora_saida"`   // HH:MM, nil enquanto o dia está aberto
}

// Completa informa se o dia já tem entrada e saída registradas.
func (f *Frequencia) Completa() bool {
	return f != nil && f.HoraSaida != nil
}

// --- Máquina de estados do dia ---
//
// Estados possíveis para um par (estagiário, data):
//   sem registro  -> entrada cria o registro do dia
//   só entrada    -> saída completa o registro
//   completo      -> estado terminal, qualquer novo registro conflita
//
// As funções abaixo são puras; o repositório as aplica dentro da transação
// que tranca a linha do dia, de forma que a transição seja atômica.

// AplicarEntrada valida e produz a transição de entrada para o dia.
// atual == nil indica que ainda não existe registro para (estagiário, data).
func AplicarEntrada(atual *Frequencia, id string, estagiarioID int64, data, hora string) (Frequencia, error) {
	if atual != nil {
		return Frequencia{}, apperror.NewConflictError("Entrada já registrada hoje.")
	}
	return Frequencia{
		ID:           id,
		EstagiarioID: estagiarioID,
		Data:         data,
		HoraEntrada:  hora,
		HoraSaida:    nil,
	}, nil
}

// AplicarSaida valida e produz a transição de saída para o dia.
func AplicarSaida(atual *Frequencia, hora string) (Frequencia, error) {
	if atual == nil {
		return Frequencia{}, apperror.NewConflictError("É necessário registrar a entrada antes da saída.")
	}
	if atual.Completa() {
		return Frequencia{}, apperror.NewConflictError("Saída já registrada hoje.")
	}
	completa := *atual
	completa.HoraSaida = &hora
	return completa, nil
}

// RegistrarFrequenciaRequest é o payload de entrada para bater o ponto.
type RegistrarFrequenciaRequest struct {
	Codigo string `json:"codigo"`
	Tipo   string `json:"tipo"`
}

// RegistrarFrequenciaResponse é a resposta de sucesso do registro de ponto.
type RegistrarFrequenciaResponse struct {
	Status   string `json:"status"`
	Mensagem string `json:"mensagem"`
}
