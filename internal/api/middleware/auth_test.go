package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func serve(t *testing.T, allowHeaders bool, setup func(r *http.Request)) (*httptest.ResponseRecorder, *domain.Caller) {
	t.Helper()

	var got *domain.Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		require.True(t, ok)
		got = &caller
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/bookings", nil)
	setup(req)
	rec := httptest.NewRecorder()
	Auth(testSecret, allowHeaders, nopLogger{})(next).ServeHTTP(rec, req)
	return rec, got
}

func TestAuth_Bearer(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub":  "42",
		"role": "owner",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	rec, caller := serve(t, false, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, caller)
	assert.Equal(t, domain.Caller{ID: 42, Role: domain.RoleOwner}, *caller)
}

func TestAuth_NumericUserIDClaim(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": 7})

	rec, caller := serve(t, false, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, caller)
	assert.Equal(t, domain.Caller{ID: 7, Role: domain.RoleCustomer}, *caller)
}

func TestAuth_Rejected(t *testing.T) {
	tests := []struct {
		name         string
		allowHeaders bool
		setup        func(t *testing.T, r *http.Request)
	}{
		{
			name: "no identity",
			setup: func(t *testing.T, r *http.Request) {},
		},
		{
			name: "headers disabled",
			setup: func(t *testing.T, r *http.Request) {
				r.Header.Set("X-User-ID", "5")
			},
		},
		{
			name: "wrong secret",
			setup: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "1"}))
			},
		},
		{
			name: "expired",
			setup: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
					"sub": "1",
					"exp": time.Now().Add(-time.Minute).Unix(),
				}))
			},
		},
		{
			name: "wrong algorithm",
			setup: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"sub": "1"}))
			},
		},
		{
			name: "no subject",
			setup: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "owner"}))
			},
		},
		{
			name: "basic scheme",
			setup: func(t *testing.T, r *http.Request) {
				r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			},
		},
		{
			name:         "bad header id",
			allowHeaders: true,
			setup: func(t *testing.T, r *http.Request) {
				r.Header.Set("X-User-ID", "abc")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, caller := serve(t, tt.allowHeaders, func(r *http.Request) { tt.setup(t, r) })
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, caller)
		})
	}
}

func TestAuth_HeaderIdentity(t *testing.T) {
	rec, caller := serve(t, true, func(r *http.Request) {
		r.Header.Set("X-User-ID", "9")
		r.Header.Set("X-User-Role", "owner")
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, caller)
	assert.Equal(t, domain.Caller{ID: 9, Role: domain.RoleOwner}, *caller)
}

func TestAuth_UnknownRoleFallsBackToCustomer(t *testing.T) {
	_, caller := serve(t, true, func(r *http.Request) {
		r.Header.Set("X-User-ID", "3")
		r.Header.Set("X-User-Role", "superuser")
	})

	require.NotNil(t, caller)
	assert.Equal(t, domain.RoleCustomer, caller.Role)
}
