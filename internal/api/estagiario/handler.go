package estagiario

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pontoestagio/internal/domain"
	apperror "pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/logger"
)

// EstagiarioService define o contrato que o Handler espera da camada de Serviço.
type EstagiarioService interface {
	Criar(ctx context.Context, nome string) (domain.Estagiario, error)
	Listar(ctx context.Context) ([]domain.Estagiario, error)
	AtualizarAtivo(ctx context.Context, id int64, ativo bool) (domain.Estagiario, error)
}

// Handler agrupa os métodos de Handler de estagiários.
type Handler struct {
	Service EstagiarioService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc EstagiarioService, log logger.Logger) *Handler {
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

// EstagiariosHandler despacha a coleção /estagiarios por método HTTP.
func (h *Handler) EstagiariosHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.criar(w, r)
	case http.MethodGet:
		h.listar(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// criar lida com POST /estagiarios.
// Body: { nome }. Resposta: 201 { estagiario }.
func (h *Handler) criar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CriarEstagiarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	estagiario, err := h.Service.Criar(ctx, req.Nome)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{"estagiario": estagiario}, nil, http.StatusCreated)
}

// listar lida com GET /estagiarios.
// Resposta: 200 { estagiarios } em ordem de cadastro.
func (h *Handler) listar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	estagiarios, err := h.Service.Listar(ctx)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	if estagiarios == nil {
		estagiarios = []domain.Estagiario{}
	}

	h.handleServiceResponse(w, r, map[string]interface{}{"estagiarios": estagiarios}, nil, http.StatusOK)
}

// AtivoHandler lida com PATCH /estagiarios/{id}/ativo.
// Body: { ativo }. Resposta: 200 { estagiario } ou 404 se o id não existir.
func (h *Handler) AtivoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	// Caminho esperado: /estagiarios/{id}/ativo
	resto := strings.TrimPrefix(r.URL.Path, "/estagiarios/")
	idStr, sufixo, ok := strings.Cut(resto, "/")
	if !ok || sufixo != "ativo" {
		http.NotFound(w, r)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("O ID do estagiário deve ser numérico."), http.StatusOK)
		return
	}

	var req domain.AtualizarAtivoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	estagiario, err := h.Service.AtualizarAtivo(ctx, id, req.Ativo)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{"estagiario": estagiario}, nil, http.StatusOK)
}
