package estagiariorepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pontoestagio/internal/domain"
	"pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/cache"
	"pontoestagio/internal/pkg/logger"
)

// Chave de cache para a resolução código -> estagiário (caminho quente do
// registro de ponto).
const codigoCacheKey = "estagiario:codigo:%s"

// EstagiarioRepository implementa a persistência de estagiários sobre o
// PostgreSQL, com cache-aside no Redis para a busca por código.
type EstagiarioRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewEstagiarioRepository cria e retorna uma nova instância do Repositório.
func NewEstagiarioRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *EstagiarioRepository {
	return &EstagiarioRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

// Criar insere um novo estagiário. O id é atribuído pela sequência do banco
// (monotônico; estagiários nunca são removidos) e o índice único de codigo
// protege contra criações concorrentes com o mesmo código sorteado.
func (r *EstagiarioRepository) Criar(ctx context.Context, nome, codigo string) (domain.Estagiario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO estagiarios (nome, codigo, ativo, criado_em)
        VALUES ($1, $2, TRUE, now())
        RETURNING id, nome, codigo, ativo, criado_em`

	var e domain.Estagiario
	err := r.DB.QueryRowContext(ctxTimeout, query, nome, codigo).Scan(
		&e.ID, &e.Nome, &e.Codigo, &e.Ativo, &e.CriadoEm,
	)
	if err != nil {
		if errors.IsUniqueViolation(err) {
			// Dois cadastros simultâneos sortearam o mesmo código; o índice
			// único garante que apenas um persiste.
			r.logger.Warn("Colisão de código em criação concorrente.", map[string]interface{}{"codigo": codigo})
			return domain.Estagiario{}, errors.NewConflictError("Código de estagiário já utilizado.")
		}
		r.logger.Error("Falha ao inserir estagiário no DB.", err)
		return domain.Estagiario{}, errors.NewDBError("Falha ao criar estagiário", err)
	}

	r.logger.Info("Estagiário criado.", map[string]interface{}{"id": e.ID, "codigo": e.Codigo})
	return e, nil
}

// ExisteCodigo informa se o código já está em uso por algum estagiário.
func (r *EstagiarioRepository) ExisteCodigo(ctx context.Context, codigo string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var existe bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS (SELECT 1 FROM estagiarios WHERE codigo = $1)`, codigo,
	).Scan(&existe)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de código no DB.", err)
		return false, errors.NewDBError("Falha ao verificar código", err)
	}
	return existe, nil
}

// BuscarPorCodigo busca um estagiário pelo código já normalizado,
// utilizando a estratégia Cache-Aside.
func (r *EstagiarioRepository) BuscarPorCodigo(ctx context.Context, codigo string) (domain.Estagiario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(codigoCacheKey, codigo)
	var e domain.Estagiario

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &e) == nil {
			return e, nil
		}
		// Desserialização falhou: segue para o DB
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (conexão perdida etc.): loga e segue para o DB
		r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	query := `
        SELECT id, nome, codigo, ativo, criado_em
        FROM estagiarios
        WHERE codigo = $1`

	err = r.DB.QueryRowContext(ctxTimeout, query, codigo).Scan(
		&e.ID, &e.Nome, &e.Codigo, &e.Ativo, &e.CriadoEm,
	)
	if err == sql.ErrNoRows {
		return domain.Estagiario{}, errors.NewNotFoundError(fmt.Sprintf("Estagiário com código %s não encontrado.", codigo))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar estagiário por código no DB.", err)
		return domain.Estagiario{}, errors.NewDBError("Falha ao buscar estagiário", err)
	}

	// 3. Popular o cache para as próximas batidas de ponto
	if estagiarioJSON, marshalErr := json.Marshal(e); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, estagiarioJSON, r.CacheTTL)
	}

	return e, nil
}

// Listar retorna todos os estagiários em ordem de cadastro.
func (r *EstagiarioRepository) Listar(ctx context.Context) ([]domain.Estagiario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, nome, codigo, ativo, criado_em
        FROM estagiarios
        ORDER BY id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar a listagem de estagiários.", err)
		return nil, errors.NewDBError("Falha ao listar estagiários", err)
	}
	defer rows.Close()

	var estagiarios []domain.Estagiario
	for rows.Next() {
		var e domain.Estagiario
		if err := rows.Scan(&e.ID, &e.Nome, &e.Codigo, &e.Ativo, &e.CriadoEm); err != nil {
			r.logger.Error("Falha ao mapear estagiário na listagem.", err)
			return nil, errors.NewDBError("Falha ao mapear estagiários do DB", err)
		}
		estagiarios = append(estagiarios, e)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de estagiários.", err)
		return nil, errors.NewDBError("Erro após iteração de estagiários", err)
	}

	return estagiarios, nil
}

// AtualizarAtivo altera a flag ativo do estagiário e invalida o cache do
// código, para que a próxima batida de ponto observe o novo estado.
func (r *EstagiarioRepository) AtualizarAtivo(ctx context.Context, id int64, ativo bool) (domain.Estagiario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE estagiarios
        SET ativo = $1
        WHERE id = $2
        RETURNING id, nome, codigo, ativo, criado_em`

	var e domain.Estagiario
	err := r.DB.QueryRowContext(ctxTimeout, query, ativo, id).Scan(
		&e.ID, &e.Nome, &e.Codigo, &e.Ativo, &e.CriadoEm,
	)
	if err == sql.ErrNoRows {
		return domain.Estagiario{}, errors.NewNotFoundError(fmt.Sprintf("Estagiário com ID %d não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar flag ativo no DB.", err)
		return domain.Estagiario{}, errors.NewDBError("Falha ao atualizar estagiário", err)
	}

	if cacheErr := r.Cache.Delete(ctxTimeout, fmt.Sprintf(codigoCacheKey, e.Codigo)); cacheErr != nil {
		r.logger.Warn("Falha ao invalidar cache do código.", map[string]interface{}{"codigo": e.Codigo, "error": cacheErr.Error()})
	}

	r.logger.Info("Flag ativo atualizada.", map[string]interface{}{"id": e.ID, "ativo": e.Ativo})
	return e, nil
}
