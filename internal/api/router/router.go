package router

import (
	"net/http"
	"time"

	"pontoestagio/internal/api/estagiario"
	"pontoestagio/internal/api/frequencia"
	"pontoestagio/internal/api/relatorio"
	"pontoestagio/internal/pkg/cache"
	"pontoestagio/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
// Os caminhos preservam o contrato do frontend existente.
func NewRouter(
	estagiarioHandler *estagiario.Handler,
	frequenciaHandler *frequencia.Handler,
	relatorioHandler *relatorio.Handler,
	cacheClient cache.Client,
	corsOrigin string,
	rateLimitMax int,
	rateLimitPeriod time.Duration,
) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	// --- 1. Health Check ---
	mux.HandleFunc("/ping", PingHandler)

	// --- 2. Cadastro de Estagiários ---
	// POST /estagiarios (criar) e GET /estagiarios (listar)
	mux.HandleFunc("/estagiarios", estagiarioHandler.EstagiariosHandler)
	// PATCH /estagiarios/{id}/ativo (ativar/desativar código)
	mux.HandleFunc("/estagiarios/", estagiarioHandler.AtivoHandler)

	// --- 3. Registro de Ponto ---
	// POST /frequencia (entrada/saída)
	mux.HandleFunc("/frequencia", frequenciaHandler.RegistrarHandler)

	// --- 4. Relatórios ---
	// GET /relatorio/semanal
	mux.HandleFunc("/relatorio/semanal", relatorioHandler.SemanalHandler)

	// --- 5. Middlewares Globais ---
	var handler http.Handler = mux
	handler = middleware.RateLimiter(cacheClient, rateLimitMax, rateLimitPeriod)(handler)
	handler = middleware.CORS(corsOrigin)(handler)

	return handler
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
