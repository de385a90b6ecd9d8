package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/CTR-HoldService/internal/api/handlers"
)

type ctxKey string

const adminIDKey ctxKey = "adminID"

const (
	msgMissingAdminID = "отсутствует заголовок X-Admin-ID"
	msgInvalidAdminID = "некорректный заголовок X-Admin-ID"
)

// AdminAuth проверяет наличие заголовка X-Admin-ID и кладёт ID администратора
// в контекст запроса. Аутентификация выполняется на API gateway, сервис
// доверяет заголовку внутри периметра.
func AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Admin-ID")
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingAdminID)
			return
		}

		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || adminID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidAdminID)
			return
		}

		ctx := context.WithValue(r.Context(), adminIDKey, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminID возвращает ID администратора из контекста запроса
func GetAdminID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminIDKey).(int64)
	return id, ok
}
