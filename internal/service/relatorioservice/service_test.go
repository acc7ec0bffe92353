package relatorioservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pontoestagio/internal/domain"
	apperror "pontoestagio/internal/errors"
	"pontoestagio/internal/pkg/logger"
	"pontoestagio/internal/service/relatorioservice"
)

// MockFrequenciaReader é uma implementação mock da interface FrequenciaReader
type MockFrequenciaReader struct {
	mock.Mock
}

func (m *MockFrequenciaReader) ListarTodas(ctx context.Context) ([]domain.Frequencia, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Frequencia), args.Error(1)
}

// MockEstagiarioReader é uma implementação mock da interface EstagiarioReader
type MockEstagiarioReader struct {
	mock.Mock
}

func (m *MockEstagiarioReader) Listar(ctx context.Context) ([]domain.Estagiario, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Estagiario), args.Error(1)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("fatal")
}

func str(s string) *string { return &s }

func completa(id string, estagiarioID int64, data, entrada, saida string) domain.Frequencia {
	return domain.Frequencia{
		ID:           id,
		EstagiarioID: estagiarioID,
		Data:         data,
		HoraEntrada:  entrada,
		HoraSaida:    str(saida),
	}
}

// --- Aritmética de duração ---

func TestCalcularHorasEntre(t *testing.T) {
	casos := []struct {
		entrada  string
		saida    string
		esperado float64
	}{
		{"09:00", "17:30", 8.5},
		{"22:00", "06:00", 8.0}, // turno noturno: saída no dia seguinte
		{"08:00", "08:00", 0.0},
		{"08:00", "08:01", 0.02},
		{"23:59", "00:01", 0.03},
	}

	for _, c := range casos {
		horas, err := relatorioservice.CalcularHorasEntre(c.entrada, c.saida)
		assert.NoError(t, err)
		assert.Equal(t, c.esperado, horas, "entrada %s saida %s", c.entrada, c.saida)
	}
}

func TestCalcularHorasEntre_FormatoInvalido(t *testing.T) {
	_, err := relatorioservice.CalcularHorasEntre("0900", "17:30")
	assert.Error(t, err)

	_, err = relatorioservice.CalcularHorasEntre("09:00", "nove")
	assert.Error(t, err)
}

// --- Semana ISO ---

func TestCalcularSemanaISO_SegundaFeira(t *testing.T) {
	// 2024-01-01 é uma segunda-feira
	s, err := relatorioservice.CalcularSemanaISO("2024-01-01")

	assert.NoError(t, err)
	assert.Equal(t, 2024, s.Ano)
	assert.Equal(t, 1, s.Semana)
	assert.Equal(t, "2024-01-01", s.DataInicio)
	assert.Equal(t, "2024-01-07", s.DataFim)
}

func TestCalcularSemanaISO_SemanaDoAnoAnterior(t *testing.T) {
	// 2023-01-01 é um domingo: pertence à semana 52 de 2022
	s, err := relatorioservice.CalcularSemanaISO("2023-01-01")

	assert.NoError(t, err)
	assert.Equal(t, 2022, s.Ano)
	assert.Equal(t, 52, s.Semana)
	assert.Equal(t, "2022-12-26", s.DataInicio)
	assert.Equal(t, "2023-01-01", s.DataFim)
}

func TestCalcularSemanaISO_MeioDaSemana(t *testing.T) {
	// 2024-03-06 é uma quarta-feira da semana 10
	s, err := relatorioservice.CalcularSemanaISO("2024-03-06")

	assert.NoError(t, err)
	assert.Equal(t, 2024, s.Ano)
	assert.Equal(t, 10, s.Semana)
	assert.Equal(t, "2024-03-04", s.DataInicio)
	assert.Equal(t, "2024-03-10", s.DataFim)
}

func TestCalcularSemanaISO_DataInvalida(t *testing.T) {
	_, err := relatorioservice.CalcularSemanaISO("01/03/2024")
	assert.Error(t, err)
}

// --- Relatório Semanal ---

func TestRelatorioSemanal_AgrupaPorEstagiarioESemana(t *testing.T) {
	mockFreq := new(MockFrequenciaReader)
	mockEst := new(MockEstagiarioReader)
	svc := relatorioservice.NewService(mockFreq, mockEst, newTestLogger())

	mockFreq.On("ListarTodas", mock.Anything).Return([]domain.Frequencia{
		// Semana 9 de 2024 (26/02 a 03/03), registrados fora de ordem
		completa("f-2", 1, "2024-03-01", "09:00", "17:30"),
		completa("f-1", 1, "2024-02-26", "08:00", "12:00"),
		// Semana 10
		completa("f-3", 1, "2024-03-04", "22:00", "06:00"),
		// Dia ainda aberto: excluído do relatório
		{ID: "f-4", EstagiarioID: 1, Data: "2024-03-05", HoraEntrada: "09:00"},
	}, nil)
	mockEst.On("Listar", mock.Anything).Return([]domain.Estagiario{
		{ID: 1, Nome: "Maria", Codigo: "EST-A1B2C", Ativo: true},
		{ID: 2, Nome: "SemRegistros", Codigo: "EST-D3E4F", Ativo: true},
	}, nil)

	rel, err := svc.RelatorioSemanal(context.Background(), domain.FiltroRelatorio{})

	assert.NoError(t, err)
	assert.Equal(t, "semanal", rel.Relatorio)
	assert.NotEmpty(t, rel.GeradoEm)
	assert.Nil(t, rel.Periodo)

	// Estagiário sem registros elegíveis fica de fora
	assert.Len(t, rel.PorEstagiario, 1)
	est := rel.PorEstagiario[0]
	assert.Equal(t, int64(1), est.EstagiarioID)
	assert.Equal(t, str("Maria"), est.Nome)
	assert.Equal(t, str("EST-A1B2C"), est.Codigo)

	// Semanas em ordem crescente de (ano, semana)
	assert.Len(t, est.Semanas, 2)
	s9, s10 := est.Semanas[0], est.Semanas[1]
	assert.Equal(t, 9, s9.Semana)
	assert.Equal(t, 10, s10.Semana)

	// Dias da semana 9 ordenados por data, apesar da ordem de inserção
	assert.Equal(t, []string{"2024-02-26", "2024-03-01"}, []string{s9.Dias[0].Data, s9.Dias[1].Data})
	assert.Equal(t, 4.0+8.5, s9.TotalHoras)

	// Turno noturno soma 8 horas
	assert.Equal(t, 8.0, s10.TotalHoras)
	assert.Len(t, s10.Dias, 1)
}

func TestRelatorioSemanal_EstagiarioForaDoSnapshot_NomeECodigoNulos(t *testing.T) {
	mockFreq := new(MockFrequenciaReader)
	mockEst := new(MockEstagiarioReader)
	svc := relatorioservice.NewService(mockFreq, mockEst, newTestLogger())

	mockFreq.On("ListarTodas", mock.Anything).Return([]domain.Frequencia{
		completa("f-1", 9, "2024-03-06", "09:00", "17:00"),
	}, nil)
	mockEst.On("Listar", mock.Anything).Return([]domain.Estagiario{}, nil)

	rel, err := svc.RelatorioSemanal(context.Background(), domain.FiltroRelatorio{})

	assert.NoError(t, err)
	assert.Len(t, rel.PorEstagiario, 1)
	est := rel.PorEstagiario[0]
	assert.Equal(t, int64(9), est.EstagiarioID)
	assert.Nil(t, est.Nome)
	assert.Nil(t, est.Codigo)
	assert.Len(t, est.Semanas, 1)
	assert.Equal(t, 8.0, est.Semanas[0].TotalHoras)
}

func TestRelatorioSemanal_FiltroDeDatas(t *testing.T) {
	mockFreq := new(MockFrequenciaReader)
	mockEst := new(MockEstagiarioReader)
	svc := relatorioservice.NewService(mockFreq, mockEst, newTestLogger())

	mockFreq.On("ListarTodas", mock.Anything).Return([]domain.Frequencia{
		completa("f-1", 1, "2024-03-01", "09:00", "17:00"),
		completa("f-2", 1, "2024-03-10", "09:00", "17:00"),
	}, nil)
	mockEst.On("Listar", mock.Anything).Return([]domain.Estagiario{
		{ID: 1, Nome: "Maria", Codigo: "EST-A1B2C"},
	}, nil)

	rel, err := svc.RelatorioSemanal(context.Background(), domain.FiltroRelatorio{DataInicio: "2024-03-05"})

	assert.NoError(t, err)
	assert.Len(t, rel.PorEstagiario, 1)

	var datas []string
	for _, semana := range rel.PorEstagiario[0].Semanas {
		for _, dia := range semana.Dias {
			datas = append(datas, dia.Data)
		}
	}
	assert.Equal(t, []string{"2024-03-10"}, datas)

	// O período ecoa literalmente o limite informado; o outro lado fica nulo
	assert.NotNil(t, rel.Periodo)
	assert.Equal(t, "2024-03-05", *rel.Periodo.DataInicio)
	assert.Nil(t, rel.Periodo.DataFim)
}

func TestRelatorioSemanal_Idempotente(t *testing.T) {
	mockFreq := new(MockFrequenciaReader)
	mockEst := new(MockEstagiarioReader)
	svc := relatorioservice.NewService(mockFreq, mockEst, newTestLogger())

	registros := []domain.Frequencia{
		completa("f-1", 2, "2024-03-01", "09:00", "17:00"),
		completa("f-2", 1, "2024-03-01", "10:00", "16:00"),
		completa("f-3", 2, "2024-03-08", "09:00", "17:00"),
	}
	estagiarios := []domain.Estagiario{
		{ID: 1, Nome: "Ana", Codigo: "EST-00001"},
		{ID: 2, Nome: "Bia", Codigo: "EST-00002"},
	}
	mockFreq.On("ListarTodas", mock.Anything).Return(registros, nil)
	mockEst.On("Listar", mock.Anything).Return(estagiarios, nil)

	rel1, err := svc.RelatorioSemanal(context.Background(), domain.FiltroRelatorio{})
	assert.NoError(t, err)
	rel2, err := svc.RelatorioSemanal(context.Background(), domain.FiltroRelatorio{})
	assert.NoError(t, err)

	// Saída idêntica entre chamadas sobre o mesmo snapshot (exceto o carimbo
	// de geração)
	rel1.GeradoEm = ""
	rel2.GeradoEm = ""
	assert.Equal(t, rel1, rel2)

	// A primeira aparição nos registros define a ordem dos estagiários
	assert.Equal(t, int64(2), rel1.PorEstagiario[0].EstagiarioID)
	assert.Equal(t, int64(1), rel1.PorEstagiario[1].EstagiarioID)
}

func TestRelatorioSemanal_SemRegistros(t *testing.T) {
	mockFreq := new(MockFrequenciaReader)
	mockEst := new(MockEstagiarioReader)
	svc := relatorioservice.NewService(mockFreq, mockEst, newTestLogger())

	mockFreq.On("ListarTodas", mock.Anything).Return([]domain.Frequencia{}, nil)
	mockEst.On("Listar", mock.Anything).Return([]domain.Estagiario{
		{ID: 1, Nome: "Maria", Codigo: "EST-A1B2C"},
	}, nil)

	rel, err := svc.RelatorioSemanal(context.Background(), domain.FiltroRelatorio{})

	assert.NoError(t, err)
	assert.Empty(t, rel.PorEstagiario)
	assert.Nil(t, rel.Periodo)
}

func TestRelatorioSemanal_RegistroComHoraInvalidaIgnorado(t *testing.T) {
	mockFreq := new(MockFrequenciaReader)
	mockEst := new(MockEstagiarioReader)
	svc := relatorioservice.NewService(mockFreq, mockEst, newTestLogger())

	mockFreq.On("ListarTodas", mock.Anything).Return([]domain.Frequencia{
		completa("f-1", 1, "2024-03-01", "corrompida", "17:00"),
		completa("f-2", 1, "2024-03-02", "09:00", "12:00"),
	}, nil)
	mockEst.On("Listar", mock.Anything).Return([]domain.Estagiario{
		{ID: 1, Nome: "Maria", Codigo: "EST-A1B2C"},
	}, nil)

	rel, err := svc.RelatorioSemanal(context.Background(), domain.FiltroRelatorio{})

	// Dado histórico malformado não derruba o relatório
	assert.NoError(t, err)
	assert.Len(t, rel.PorEstagiario, 1)
	assert.Len(t, rel.PorEstagiario[0].Semanas, 1)
	assert.Len(t, rel.PorEstagiario[0].Semanas[0].Dias, 1)
	assert.Equal(t, "2024-03-02", rel.PorEstagiario[0].Semanas[0].Dias[0].Data)
}

func TestRelatorioSemanal_Fail_RepoError(t *testing.T) {
	mockFreq := new(MockFrequenciaReader)
	mockEst := new(MockEstagiarioReader)
	svc := relatorioservice.NewService(mockFreq, mockEst, newTestLogger())

	mockFreq.On("ListarTodas", mock.Anything).
		Return([]domain.Frequencia{}, errors.New("connection refused"))

	_, err := svc.RelatorioSemanal(context.Background(), domain.FiltroRelatorio{})

	assert.Error(t, err)
	assert.IsType(t, &apperror.InternalError{}, err)
	mockEst.AssertNotCalled(t, "Listar")
}
