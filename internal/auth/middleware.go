package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskflow/pkg/respond"
)

// Identity - аутентифицированный пользователь запроса.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type ctxKey struct{}

// RequireAuth проверяет bearer-токен и кладет Identity в контекст.
// Без валидного токена тело роута не выполняется вовсе.
func RequireAuth(m *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond.Error(w, r, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			identity, err := m.Validate(token)
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext достает Identity, положенную RequireAuth.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// WithIdentity нужен тестам хэндлеров, чтобы не гонять настоящий токен.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}
