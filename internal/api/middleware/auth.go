package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"tradebot/pkg/crypto"
)

const adminUsername = "admin"

// BasicAuth защищает админ API через HTTP Basic Authentication.
// Пароль сверяется с bcrypt-хешем из конфигурации (ADMIN_PASSWORD_HASH).
//
// Пустой хеш отключает аутентификацию: режим локального развертывания,
// когда API не выставлен наружу.
//
// Сравнение имени пользователя constant-time, сравнение пароля
// выполняет bcrypt (устойчив к timing attacks по построению).
func BasicAuth(passwordHash string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(adminUsername)) == 1
			passMatch := crypto.CheckPasswordMatch(pass, passwordHash)

			if !userMatch || !passMatch {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Admin API"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
