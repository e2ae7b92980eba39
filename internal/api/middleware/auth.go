package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

const (
	headerAuthorization = "Authorization"
	headerUserID        = "X-User-ID"
	headerUserRole      = "X-User-Role"
	bearerPrefix        = "Bearer "

	msgMissingIdentity = "authentication required"
	msgInvalidToken    = "invalid token"
)

var (
	ErrMissingIdentity = errors.New("middleware: missing caller identity")
	ErrInvalidToken    = errors.New("middleware: invalid token")
)

type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth определяет вызывающего по Bearer JWT (HS256, claims sub и role)
// При allowHeaders без токена используются заголовки X-User-ID и X-User-Role
func Auth(secret string, allowHeaders bool, log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := resolveCaller(r, secret, allowHeaders)
			if err != nil {
				log.Warn("Auth: %s %s rejected: %v", r.Method, r.URL.Path, err)
				if errors.Is(err, ErrInvalidToken) {
					handlers.RespondUnauthorized(w, msgInvalidToken)
					return
				}
				handlers.RespondUnauthorized(w, msgMissingIdentity)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func resolveCaller(r *http.Request, secret string, allowHeaders bool) (domain.Caller, error) {
	if auth := r.Header.Get(headerAuthorization); auth != "" {
		if !strings.HasPrefix(auth, bearerPrefix) || secret == "" {
			return domain.Caller{}, fmt.Errorf("%w: unsupported authorization header", ErrInvalidToken)
		}
		return ParseToken(strings.TrimPrefix(auth, bearerPrefix), secret)
	}

	if allowHeaders && r.Header.Get(headerUserID) != "" {
		id, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
		if err != nil || id <= 0 {
			return domain.Caller{}, fmt.Errorf("%w: bad %s header", ErrMissingIdentity, headerUserID)
		}
		return domain.Caller{ID: id, Role: roleOrDefault(r.Header.Get(headerUserRole))}, nil
	}

	return domain.Caller{}, ErrMissingIdentity
}

// ParseToken проверяет подпись и извлекает вызывающего
func ParseToken(raw, secret string) (domain.Caller, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := subjectID(claims)
	if err != nil {
		return domain.Caller{}, err
	}

	role, _ := claims["role"].(string)
	return domain.Caller{ID: id, Role: roleOrDefault(role)}, nil
}

// subjectID sub как строка, либо числовой user_id
func subjectID(claims jwt.MapClaims) (int64, error) {
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("%w: bad sub claim %q", ErrInvalidToken, sub)
		}
		return id, nil
	}

	if v, ok := claims["user_id"].(float64); ok && v > 0 {
		return int64(v), nil
	}

	return 0, fmt.Errorf("%w: no subject", ErrInvalidToken)
}

func roleOrDefault(role string) string {
	switch role {
	case domain.RoleOwner, domain.RoleAdmin:
		return role
	default:
		return domain.RoleCustomer
	}
}
