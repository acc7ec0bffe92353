package frequenciaservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"pontoestagio/internal/domain"
	apperror "pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/codigo"
	"pontoestagio/internal/pkg/logger"
)

// FrequenciaRepository define o contrato que o Serviço de Frequência espera
// da camada de Persistência. Registrar aplica a transição do dia de forma
// atômica (a serialização é responsabilidade do repositório).
type FrequenciaRepository interface {
	Registrar(ctx context.Context, estagiarioID int64, data, hora, tipo string) (domain.Frequencia, error)
	ListarTodas(ctx context.Context) ([]domain.Frequencia, error)
}

// EstagiarioResolver resolve o código público para a entidade Estagiario.
type EstagiarioResolver interface {
	BuscarPorCodigo(ctx context.Context, cod string) (domain.Estagiario, error)
}

// Service implementa o registro diário de ponto (entrada/saída).
type Service struct {
	repo        FrequenciaRepository
	estagiarios EstagiarioResolver
	logger      logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Frequência.
func NewService(repo FrequenciaRepository, estagiarios EstagiarioResolver, log logger.Logger) *Service {
	return &Service{
		repo:        repo,
		estagiarios: estagiarios,
		logger:      log,
	}
}

// Registrar valida o código e o tipo, resolve o estagiário e aplica a
// transição de ponto para o dia corrente (data e hora locais do host).
func (s *Service) Registrar(ctx context.Context, cod, tipo string) (domain.RegistrarFrequenciaResponse, error) {
	if strings.TrimSpace(cod) == "" {
		return domain.RegistrarFrequenciaResponse{}, apperror.NewValidationError("Código inválido.")
	}
	if !domain.TipoValido(tipo) {
		return domain.RegistrarFrequenciaResponse{}, apperror.NewValidationError(`Tipo deve ser "entrada" ou "saida".`)
	}

	estagiario, err := s.estagiarios.BuscarPorCodigo(ctx, codigo.Normalizar(cod))
	if err != nil {
		// Comportamento preservado do serviço original: código desconhecido
		// responde com a mesma classe 400 de um código malformado, sem
		// distinguir "não encontrado".
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			s.logger.Debug("Código não resolvido no registro de ponto.", map[string]interface{}{"codigo": codigo.Normalizar(cod)})
			return domain.RegistrarFrequenciaResponse{}, apperror.NewValidationError("Código inválido.")
		}
		s.logger.Error("Falha ao resolver código no registro de ponto.", err)
		return domain.RegistrarFrequenciaResponse{}, err
	}

	if !estagiario.Ativo {
		s.logger.Warn("Tentativa de registro com código desativado.", map[string]interface{}{"codigo": estagiario.Codigo})
		return domain.RegistrarFrequenciaResponse{}, apperror.NewForbiddenError("Estagiário desativado.")
	}

	agora := time.Now()
	data := agora.Format("2006-01-02")
	hora := agora.Format("15:04")

	if _, err := s.repo.Registrar(ctx, estagiario.ID, data, hora, tipo); err != nil {
		return domain.RegistrarFrequenciaResponse{}, err // ConflictError ou DBError do repositório
	}

	mensagem := "Entrada registrada."
	if tipo == domain.TipoSaida {
		mensagem = "Saída registrada."
	}

	s.logger.Info("Ponto registrado.", map[string]interface{}{
		"estagiario_id": estagiario.ID,
		"tipo":          tipo,
		"data":          data,
	})
	return domain.RegistrarFrequenciaResponse{Status: "ok", Mensagem: mensagem}, nil
}

// ListarRegistros retorna o snapshot de todos os registros de ponto em ordem
// de inserção. Usada somente pelo relatório.
func (s *Service) ListarRegistros(ctx context.Context) ([]domain.Frequencia, error) {
	return s.repo.ListarTodas(ctx)
}
