package frequencia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"pontoestagio/internal/domain"
	apperror "pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/logger"
)

// FrequenciaService define o contrato que o Handler espera da camada de Serviço.
type FrequenciaService interface {
	Registrar(ctx context.Context, codigo, tipo string) (domain.RegistrarFrequenciaResponse, error)
}

// Handler agrupa os métodos de Handler de frequência.
type Handler struct {
	Service FrequenciaService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc FrequenciaService, log logger.Logger) *Handler {
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

// RegistrarHandler lida com POST /frequencia.
// Body: { codigo, tipo: "entrada" | "saida" }.
// Resposta: 201 { status: "ok", mensagem }.
func (h *Handler) RegistrarHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req domain.RegistrarFrequenciaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	resultado, err := h.Service.Registrar(ctx, req.Codigo, req.Tipo)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, resultado, nil, http.StatusCreated)
}
