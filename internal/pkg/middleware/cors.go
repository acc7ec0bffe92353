package middleware

import "net/http"

// CORS aplica os cabeçalhos de CORS esperados pelo frontend.
// origin vazio libera qualquer origem (comportamento do serviço original).
func CORS(origin string) func(http.Handler) http.Handler {
	allowed := origin
	if allowed == "" {
		allowed = "*"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			// Preflight não segue para os handlers
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
