package estagioservice

import (
	"context"
	"errors"
	"strings"

	"pontoestagio/internal/domain"
	apperror "pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/codigo"
	"pontoestagio/internal/pkg/logger"
)

// Número máximo de sorteios de código antes de desistir. O espaço tem 36^5
// combinações; esgotar as tentativas indica base quase cheia ou corrompida,
// não azar.
const maxTentativasCodigo = 100

// EstagiarioRepository define o contrato que o Serviço de Estagiários espera
// da camada de Persistência.
type EstagiarioRepository interface {
	Criar(ctx context.Context, nome, codigo string) (domain.Estagiario, error)
	ExisteCodigo(ctx context.Context, codigo string) (bool, error)
	BuscarPorCodigo(ctx context.Context, codigo string) (domain.Estagiario, error)
	Listar(ctx context.Context) ([]domain.Estagiario, error)
	AtualizarAtivo(ctx context.Context, id int64, ativo bool) (domain.Estagiario, error)
}

// Service implementa o cadastro e a resolução de estagiários.
type Service struct {
	repo    EstagiarioRepository
	gerador *codigo.Gerador
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estagiários.
func NewService(repo EstagiarioRepository, gerador *codigo.Gerador, log logger.Logger) *Service {
	return &Service{repo: repo, gerador: gerador, logger: log}
}

// Criar cadastra um novo estagiário com um código único gerado
// automaticamente no formato EST-XXXXX. Códigos são sorteados até um não
// colidir, dentro do orçamento de tentativas; uma colisão detectada só na
// inserção (cadastro concorrente sorteou o mesmo código entre a verificação
// e o INSERT) também consome uma tentativa e sorteia outro código.
func (s *Service) Criar(ctx context.Context, nome string) (domain.Estagiario, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return domain.Estagiario{}, apperror.NewValidationError("O nome é obrigatório.")
	}

	for tentativa := 0; tentativa < maxTentativasCodigo; tentativa++ {
		candidato := s.gerador.Novo()
		existe, err := s.repo.ExisteCodigo(ctx, candidato)
		if err != nil {
			return domain.Estagiario{}, err
		}
		if existe {
			continue
		}

		estagiario, err := s.repo.Criar(ctx, nome, candidato)
		if err == nil {
			s.logger.Info("Estagiário cadastrado.", map[string]interface{}{"id": estagiario.ID, "codigo": estagiario.Codigo})
			return estagiario, nil
		}

		var conflito *apperror.ConflictError
		if errors.As(err, &conflito) {
			s.logger.Warn("Código colidiu na inserção; sorteando outro.", map[string]interface{}{"codigo": candidato})
			continue
		}

		s.logger.Error("Falha ao criar estagiário no repositório.", err)
		return domain.Estagiario{}, err
	}

	s.logger.Error("Orçamento de geração de códigos esgotado.", nil)
	return domain.Estagiario{}, apperror.NewInternalError("Não foi possível gerar um código único.", nil)
}

// BuscarPorCodigo resolve um estagiário pelo código público.
// Entrada em branco resolve para NotFound; o código é normalizado
// (trim + uppercase) antes da consulta.
func (s *Service) BuscarPorCodigo(ctx context.Context, cod string) (domain.Estagiario, error) {
	normalizado := codigo.Normalizar(cod)
	if normalizado == "" {
		return domain.Estagiario{}, apperror.NewNotFoundError("Estagiário não encontrado.")
	}
	return s.repo.BuscarPorCodigo(ctx, normalizado)
}

// Listar retorna todos os estagiários em ordem de cadastro, sem filtro.
func (s *Service) Listar(ctx context.Context) ([]domain.Estagiario, error) {
	estagiarios, err := s.repo.Listar(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar estagiários no repositório.", err)
		return nil, err
	}
	return estagiarios, nil
}

// AtualizarAtivo liga ou desliga o código de um estagiário.
func (s *Service) AtualizarAtivo(ctx context.Context, id int64, ativo bool) (domain.Estagiario, error) {
	estagiario, err := s.repo.AtualizarAtivo(ctx, id, ativo)
	if err != nil {
		return domain.Estagiario{}, err // NotFoundError ou DBError do repositório
	}

	s.logger.Info("Situação do estagiário atualizada.", map[string]interface{}{"id": id, "ativo": ativo})
	return estagiario, nil
}
