package domain

// Tipos do relatório semanal. As chaves JSON preservam o contrato do
// frontend existente (por_estagiario, semanas, dias, total_horas).

// DiaRelatorio é a projeção de um dia completo de ponto dentro de uma semana.
type DiaRelatorio struct {
	Data        string  `json:"data"`
	HoraEntrada string  `json:"hora_entrada"`
	HoraSaida   string  `json:"hora_saida"`
	Horas       float64 `json:"horas"`
}

// SemanaRelatorio agrega os dias de um estagiário em uma semana ISO.
// É uma visão derivada: recalculada a cada requisição, nunca persistida.
type SemanaRelatorio struct {
	Ano        int            `json:"ano"`
	Semana     int            `json:"semana"`
	DataInicio string         `json:"data_inicio"`
	DataFim    string         `json:"data_fim"`
	TotalHoras float64        `json:"total_horas"`
	Dias       []DiaRelatorio `json:"dias"`
}

// EstagiarioRelatorio agrupa as semanas de um estagiário. Nome e código são
// nulos quando o estagiário do registro não está no snapshot do cadastro.
type EstagiarioRelatorio struct {
	EstagiarioID int64             `json:"estagiario_id"`
	Nome         *string           `json:"nome"`
	Codigo       *string           `json:"codigo"`
	Semanas      []SemanaRelatorio `json:"semanas"`
}

// PeriodoRelatorio ecoa o filtro de datas efetivamente aplicado.
// Um lado nulo indica que aquele limite não foi informado.
type PeriodoRelatorio struct {
	DataInicio *string `json:"data_inicio"`
	DataFim    *string `json:"data_fim"`
}

// RelatorioSemanal é o envelope de saída do relatório.
type RelatorioSemanal struct {
	Relatorio     string                `json:"relatorio"`
	GeradoEm      string                `json:"gerado_em"`
	Periodo       *PeriodoRelatorio     `json:"periodo"`
	PorEstagiario []EstagiarioRelatorio `json:"por_estagiario"`
}

// FiltroRelatorio é o filtro opcional de datas (YYYY-MM-DD) do relatório.
// Strings vazias significam "sem limite" naquele lado.
type FiltroRelatorio struct {
	DataInicio string
	DataFim    string
}
