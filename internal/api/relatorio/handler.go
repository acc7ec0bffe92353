package relatorio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"pontoestagio/internal/domain"
	apperror "pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/logger"
)

// RelatorioService define o contrato que o Handler espera da camada de Serviço.
type RelatorioService interface {
	RelatorioSemanal(ctx context.Context, filtro domain.FiltroRelatorio) (domain.RelatorioSemanal, error)
}

// Handler agrupa os métodos de Handler de relatórios.
type Handler struct {
	Service RelatorioService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc RelatorioService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas
// ao cliente. A mensagem de erro sai sob os campos "mensagem" e "message"
// (contrato legado do frontend).
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Mensagem: message,
		Message:  message,
	})
}

// SemanalHandler lida com GET /relatorio/semanal.
// Query opcionais: dataInicio e dataFim (YYYY-MM-DD); a ausência de ambos
// significa "todos os registros". Os limites são ecoados literalmente no
// campo periodo da resposta.
func (h *Handler) SemanalHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	filtro := domain.FiltroRelatorio{
		DataInicio: r.URL.Query().Get("dataInicio"),
		DataFim:    r.URL.Query().Get("dataFim"),
	}

	relatorio, err := h.Service.RelatorioSemanal(ctx, filtro)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, relatorio, nil, http.StatusOK)
}
