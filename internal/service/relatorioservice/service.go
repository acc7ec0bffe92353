package relatorioservice

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"pontoestagio/internal/domain"
	apperror "pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/logger"
)

// FrequenciaReader fornece o snapshot de registros de ponto para o relatório.
type FrequenciaReader interface {
	ListarTodas(ctx context.Context) ([]domain.Frequencia, error)
}

// EstagiarioReader fornece o snapshot de estagiários (nome e código exibidos
// no relatório).
type EstagiarioReader interface {
	Listar(ctx context.Context) ([]domain.Estagiario, error)
}

// Service implementa o relatório semanal agregado de horas. É uma leitura
// pura sobre os dois snapshots; nenhuma mutação acontece aqui.
type Service struct {
	frequencias FrequenciaReader
	estagiarios EstagiarioReader
	logger      logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Relatórios.
func NewService(frequencias FrequenciaReader, estagiarios EstagiarioReader, log logger.Logger) *Service {
	return &Service{frequencias: frequencias, estagiarios: estagiarios, logger: log}
}

// SemanaISO descreve a semana ISO 8601 de uma data: ano/número da semana e
// os limites segunda..domingo em YYYY-MM-DD.
type SemanaISO struct {
	Ano        int
	Semana     int
	DataInicio string
	DataFim    string
}

// CalcularSemanaISO computa a semana ISO de uma data YYYY-MM-DD.
// O ano/número vêm da quinta-feira da semana (regra ISO: a semana 1 é a que
// contém a primeira quinta-feira do ano); o número é limitado a [1, 53].
// Toda a aritmética é feita em UTC para que dias encurtados ou alongados por
// horário de verão não desloquem o bucket.
func CalcularSemanaISO(data string) (SemanaISO, error) {
	t, err := time.Parse("2006-01-02", data)
	if err != nil {
		return SemanaISO{}, err
	}

	diaSemana := int(t.Weekday()) // 1 = segunda .. 7 = domingo
	if diaSemana == 0 {
		diaSemana = 7
	}

	segunda := t.AddDate(0, 0, -(diaSemana - 1))
	domingo := segunda.AddDate(0, 0, 6)
	quinta := t.AddDate(0, 0, 4-diaSemana)

	ano := quinta.Year()
	jan1 := time.Date(ano, time.January, 1, 0, 0, 0, 0, time.UTC)
	semana := 1 + int(quinta.Sub(jan1)/(7*24*time.Hour))
	if semana < 1 {
		semana = 1
	}
	if semana > 53 {
		semana = 53
	}

	return SemanaISO{
		Ano:        ano,
		Semana:     semana,
		DataInicio: segunda.Format("2006-01-02"),
		DataFim:    domingo.Format("2006-01-02"),
	}, nil
}

// CalcularHorasEntre calcula a duração em horas decimais entre os horários
// HH:MM de entrada e saída. Saída menor que entrada é tratada como saída no
// dia seguinte (turno noturno). Resultado arredondado para 2 casas.
func CalcularHorasEntre(horaEntrada, horaSaida string) (float64, error) {
	minutosEntrada, err := minutosDesdeMeiaNoite(horaEntrada)
	if err != nil {
		return 0, err
	}
	minutosSaida, err := minutosDesdeMeiaNoite(horaSaida)
	if err != nil {
		return 0, err
	}

	if minutosSaida < minutosEntrada {
		minutosSaida += 24 * 60
	}

	return round2(float64(minutosSaida-minutosEntrada) / 60.0), nil
}

// minutosDesdeMeiaNoite converte HH:MM em minutos desde a meia-noite.
func minutosDesdeMeiaNoite(hora string) (int, error) {
	h, m, ok := strings.Cut(hora, ":")
	if !ok {
		return 0, fmt.Errorf("hora fora do formato HH:MM: %q", hora)
	}
	horas, err := strconv.Atoi(h)
	if err != nil {
		return 0, err
	}
	minutos, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	return horas*60 + minutos, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// chaveBucket identifica um bucket semanal: um estagiário em uma semana ISO.
type chaveBucket struct {
	estagiarioID int64
	ano          int
	semana       int
}

type bucketSemana struct {
	semana     SemanaISO
	totalHoras float64
	dias       []domain.DiaRelatorio
}

// RelatorioSemanal agrega os registros completos de ponto por estagiário e
// semana ISO, aplicando o filtro opcional de datas.
//
// Registros incompletos (dia ainda aberto) e registros com horários fora do
// formato são excluídos do relatório, nunca o derrubam. O total de horas de
// cada semana acumula sem arredondamento intermediário e só é arredondado na
// saída.
func (s *Service) RelatorioSemanal(ctx context.Context, filtro domain.FiltroRelatorio) (domain.RelatorioSemanal, error) {
	registros, err := s.frequencias.ListarTodas(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar registros de ponto para o relatório.", err)
		return domain.RelatorioSemanal{}, apperror.NewInternalError("Falha interna ao gerar relatório.", err)
	}

	estagiarios, err := s.estagiarios.Listar(ctx)
	if err != nil {
		s.logger.Error("Falha ao carregar estagiários para o relatório.", err)
		return domain.RelatorioSemanal{}, apperror.NewInternalError("Falha interna ao gerar relatório.", err)
	}

	porID := make(map[int64]domain.Estagiario, len(estagiarios))
	for _, e := range estagiarios {
		porID[e.ID] = e
	}

	// 1. Agrupar os registros elegíveis em buckets (estagiário, ano, semana).
	// A ordem de primeira aparição é preservada para que a saída seja
	// determinística entre chamadas sobre o mesmo snapshot.
	buckets := make(map[chaveBucket]*bucketSemana)
	var ordemBuckets []chaveBucket

	for _, r := range registros {
		if !r.Completa() {
			continue
		}
		if filtro.DataInicio != "" && r.Data < filtro.DataInicio {
			continue
		}
		if filtro.DataFim != "" && r.Data > filtro.DataFim {
			continue
		}

		horas, err := CalcularHorasEntre(r.HoraEntrada, *r.HoraSaida)
		if err != nil {
			s.logger.Warn("Registro com horário inválido ignorado no relatório.", map[string]interface{}{"id": r.ID})
			continue
		}
		semana, err := CalcularSemanaISO(r.Data)
		if err != nil {
			s.logger.Warn("Registro com data inválida ignorado no relatório.", map[string]interface{}{"id": r.ID})
			continue
		}

		chave := chaveBucket{estagiarioID: r.EstagiarioID, ano: semana.Ano, semana: semana.Semana}
		bucket, ok := buckets[chave]
		if !ok {
			bucket = &bucketSemana{semana: semana}
			buckets[chave] = bucket
			ordemBuckets = append(ordemBuckets, chave)
		}

		bucket.totalHoras += horas
		bucket.dias = append(bucket.dias, domain.DiaRelatorio{
			Data:        r.Data,
			HoraEntrada: r.HoraEntrada,
			HoraSaida:   *r.HoraSaida,
			Horas:       horas,
		})
	}

	// 2. Reagrupar os buckets por estagiário. Estagiários sem nenhum registro
	// elegível ficam de fora do relatório.
	porEstagiario := make(map[int64]*domain.EstagiarioRelatorio)
	var ordemEstagiarios []int64

	for _, chave := range ordemBuckets {
		bucket := buckets[chave]

		item, ok := porEstagiario[chave.estagiarioID]
		if !ok {
			item = &domain.EstagiarioRelatorio{EstagiarioID: chave.estagiarioID}
			if est, conhecido := porID[chave.estagiarioID]; conhecido {
				item.Nome = &est.Nome
				item.Codigo = &est.Codigo
			}
			porEstagiario[chave.estagiarioID] = item
			ordemEstagiarios = append(ordemEstagiarios, chave.estagiarioID)
		}

		dias := bucket.dias
		sort.Slice(dias, func(i, j int) bool { return dias[i].Data < dias[j].Data })

		item.Semanas = append(item.Semanas, domain.SemanaRelatorio{
			Ano:        bucket.semana.Ano,
			Semana:     bucket.semana.Semana,
			DataInicio: bucket.semana.DataInicio,
			DataFim:    bucket.semana.DataFim,
			TotalHoras: round2(bucket.totalHoras),
			Dias:       dias,
		})
	}

	resultado := make([]domain.EstagiarioRelatorio, 0, len(ordemEstagiarios))
	for _, id := range ordemEstagiarios {
		item := porEstagiario[id]
		sort.Slice(item.Semanas, func(i, j int) bool {
			a, b := item.Semanas[i], item.Semanas[j]
			if a.Ano != b.Ano {
				return a.Ano < b.Ano
			}
			return a.Semana < b.Semana
		})
		resultado = append(resultado, *item)
	}

	// 3. Envelope: período ecoa literalmente os limites informados;
	// nil quando nenhum limite foi passado.
	var periodo *domain.PeriodoRelatorio
	if filtro.DataInicio != "" || filtro.DataFim != "" {
		periodo = &domain.PeriodoRelatorio{}
		if filtro.DataInicio != "" {
			periodo.DataInicio = &filtro.DataInicio
		}
		if filtro.DataFim != "" {
			periodo.DataFim = &filtro.DataFim
		}
	}

	return domain.RelatorioSemanal{
		Relatorio:     "semanal",
		GeradoEm:      time.Now().Format(time.RFC3339),
		Periodo:       periodo,
		PorEstagiario: resultado,
	}, nil
}
