package frequenciarepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"pontoestagio/internal/domain"
	"pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/logger"
)

// FrequenciaRepository implementa a persistência dos registros diários de
// ponto sobre o PostgreSQL.
type FrequenciaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewFrequenciaRepository cria e retorna uma nova instância do Repositório.
func NewFrequenciaRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *FrequenciaRepository {
	return &FrequenciaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Registrar aplica a transição de entrada ou saída para o par
// (estagiário, data) dentro de uma transação. A linha do dia é trancada com
// SELECT ... FOR UPDATE, de forma que a leitura, a validação da máquina de
// estados e a escrita sejam atômicas: duas batidas simultâneas para o mesmo
// dia são serializadas e leitores nunca observam uma transição pela metade.
//
// A criação do dia é a exceção: sem linha existente o FOR UPDATE não tranca
// nada, então duas entradas simultâneas podem ambas chegar ao INSERT. Nesse
// caso o índice único (estagiario_id, data) decide, e a perdedora recebe o
// mesmo conflito de uma entrada repetida.
func (r *FrequenciaRepository) Registrar(ctx context.Context, estagiarioID int64, data, hora, tipo string) (domain.Frequencia, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de registro de ponto.", err)
		return domain.Frequencia{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	// 1. Trancar e carregar o registro do dia, se existir
	querySelect := `
        SELECT id, estagiario_id, data, hora_entrada, hora_saida
        FROM frequencias
        WHERE estagiario_id = $1 AND data = $2 FOR UPDATE`

	var atual *domain.Frequencia
	var f domain.Frequencia
	var horaSaida sql.NullString
	err = tx.QueryRowContext(ctxTimeout, querySelect, estagiarioID, data).Scan(
		&f.ID, &f.EstagiarioID, &f.Data, &f.HoraEntrada, &horaSaida,
	)
	switch {
	case err == sql.ErrNoRows:
		atual = nil
	case err != nil:
		r.logger.Error("Falha ao carregar registro do dia.", err)
		return domain.Frequencia{}, errors.NewDBError("Falha ao carregar registro do dia", err)
	default:
		if horaSaida.Valid {
			f.HoraSaida = &horaSaida.String
		}
		atual = &f
	}

	// 2. Aplicar a máquina de estados e persistir a transição
	var resultado domain.Frequencia
	switch tipo {
	case domain.TipoEntrada:
		resultado, err = domain.AplicarEntrada(atual, uuid.New().String(), estagiarioID, data, hora)
		if err != nil {
			return domain.Frequencia{}, err
		}

		queryInsert := `
            INSERT INTO frequencias (id, estagiario_id, data, hora_entrada, hora_saida, criado_em)
            VALUES ($1, $2, $3, $4, NULL, now())`
		if _, err = tx.ExecContext(ctxTimeout, queryInsert,
			resultado.ID, resultado.EstagiarioID, resultado.Data, resultado.HoraEntrada,
		); err != nil {
			return domain.Frequencia{}, r.erroInsercaoEntrada(err, estagiarioID, data)
		}

	case domain.TipoSaida:
		resultado, err = domain.AplicarSaida(atual, hora)
		if err != nil {
			return domain.Frequencia{}, err
		}

		queryUpdate := `
            UPDATE frequencias
            SET hora_saida = $1
            WHERE id = $2`
		if _, err = tx.ExecContext(ctxTimeout, queryUpdate, *resultado.HoraSaida, resultado.ID); err != nil {
			r.logger.Error("Falha ao gravar registro de saída.", err)
			return domain.Frequencia{}, errors.NewDBError("Falha ao gravar registro de saída", err)
		}

	default:
		return domain.Frequencia{}, errors.NewValidationError(`Tipo deve ser "entrada" ou "saida".`)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de registro de ponto.", commitErr)
		return domain.Frequencia{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Registro de ponto persistido.", map[string]interface{}{
		"estagiario_id": estagiarioID,
		"data":          data,
		"tipo":          tipo,
	})
	return resultado, nil
}

// erroInsercaoEntrada traduz o erro do INSERT da entrada. Uma violação do
// índice único (estagiario_id, data) significa que outra entrada para o mesmo
// dia venceu a corrida de criação da linha; a perdedora vira conflito de
// negócio, não erro interno.
func (r *FrequenciaRepository) erroInsercaoEntrada(err error, estagiarioID int64, data string) error {
	if errors.IsUniqueViolation(err) {
		r.logger.Warn("Entrada concorrente para o mesmo dia.", map[string]interface{}{
			"estagiario_id": estagiarioID,
			"data":          data,
		})
		return errors.NewConflictError("Entrada já registrada hoje.")
	}
	r.logger.Error("Falha ao inserir registro de entrada.", err)
	return errors.NewDBError("Falha ao inserir registro de entrada", err)
}

// ListarTodas retorna todos os registros de ponto em ordem de inserção.
// Usada somente pelo relatório; leitura pura, sem travas.
func (r *FrequenciaRepository) ListarTodas(ctx context.Context) ([]domain.Frequencia, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, estagiario_id, data, hora_entrada, hora_saida
        FROM frequencias
        ORDER BY criado_em, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar a listagem de frequências.", err)
		return nil, errors.NewDBError("Falha ao listar frequências", err)
	}
	defer rows.Close()

	var frequencias []domain.Frequencia
	for rows.Next() {
		var f domain.Frequencia
		var horaSaida sql.NullString
		if err := rows.Scan(&f.ID, &f.EstagiarioID, &f.Data, &f.HoraEntrada, &horaSaida); err != nil {
			r.logger.Error("Falha ao mapear frequência na listagem.", err)
			return nil, errors.NewDBError("Falha ao mapear frequências do DB", err)
		}
		if horaSaida.Valid {
			hs := horaSaida.String
			f.HoraSaida = &hs
		}
		frequencias = append(frequencias, f)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de frequências.", err)
		return nil, errors.NewDBError("Erro após iteração de frequências", err)
	}

	return frequencias, nil
}
