package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/auth"
	"github.com/adityakumar60853/nirmaan/internal/logging"
	"github.com/adityakumar60853/nirmaan/internal/utils"
)

func newServer(t *testing.T) (*httptest.Server, fixture) {
	t.Helper()
	f := newFixture(t)
	h := auth.NewHandlers(f.svc, logging.Discard())
	srv := httptest.NewServer(auth.SetupRoutes(h, f.tokens, nil))
	t.Cleanup(srv.Close)
	return srv, f
}

func do(t *testing.T, method, url, bearer string, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestHTTP_RegisterThenLoginRegular(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/register", "", map[string]any{
		"name":          "Sunita Devi",
		"email":         "sunita@example.com",
		"password":      "pass1234",
		"role":          "regular",
		"contact":       "9123456780",
		"national_id":   "123456789012",
		"address":       "Ward 4, Rampur",
		"annual_income": 84000,
		"work_category": "Agriculture",
		"state":         "Bihar",
		"district":      "Gaya",
		"date_of_birth": "1990-05-17",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	registered := decode[auth.Session](t, body)
	assert.NotEmpty(t, registered.Token)
	assert.NotEmpty(t, registered.User.ID)
	assert.NotContains(t, string(body), "password")

	resp, body = do(t, http.MethodPost, srv.URL+"/login", "", map[string]string{
		"email":    "sunita@example.com",
		"password": "pass1234",
		"role":     "regular",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	loggedIn := decode[auth.Session](t, body)
	assert.NotEmpty(t, loggedIn.Token)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	resp, body = do(t, http.MethodGet, srv.URL+"/me", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	me := decode[map[string]any](t, body)
	assert.Equal(t, registered.User.ID, me["id"])
	assert.Equal(t, "1990-05-17", me["date_of_birth"])
	assert.NotContains(t, me, "password_hash")
}

func TestHTTP_ProviderDuplicateContact(t *testing.T) {
	srv, _ := newServer(t)

	provider := map[string]any{
		"name":            "Gaya Health Trust",
		"email":           "hr@example.com",
		"password":        "pass1234",
		"role":            "job_provider",
		"contact":         "9123456781",
		"company_sector":  "Healthcare",
		"company_address": "Station Road, Gaya",
	}
	resp, body := do(t, http.MethodPost, srv.URL+"/register", "", provider)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	provider["email"] = "other@example.com"
	resp, body = do(t, http.MethodPost, srv.URL+"/register", "", provider)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[utils.ErrorBody](t, body)
	assert.Equal(t, apperr.KindDuplicate, errBody.Kind)
	assert.Equal(t, "contact", errBody.Field)
}

func TestHTTP_RegisterValidation(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"bad date", map[string]any{
			"name": "A", "email": "a@example.com", "password": "pass1234", "contact": "9123456780",
			"role": "regular", "date_of_birth": "17/05/1990",
		}, "date_of_birth"},
		{"unknown role", map[string]any{
			"name": "A", "email": "a@example.com", "password": "pass1234", "contact": "9123456780",
			"role": "mayor",
		}, "role"},
		{"default role is regular", map[string]any{
			"name": "A", "email": "a@example.com", "password": "pass1234", "contact": "9123456780",
		}, "national_id"},
		{"admin", map[string]any{
			"name": "A", "email": "a@example.com", "password": "pass1234", "contact": "9123456780",
			"role": "admin",
		}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+"/register", "", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			errBody := decode[utils.ErrorBody](t, body)
			assert.Equal(t, apperr.KindValidation, errBody.Kind)
			assert.Equal(t, tt.field, errBody.Field)
		})
	}
}

func TestHTTP_MalformedJSON(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/login", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_LoginFailures(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/register", "", map[string]any{
		"name": "Operator", "email": "op@example.com", "password": "pass1234",
		"contact": "9123456782", "role": "csc_operator",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = do(t, http.MethodPost, srv.URL+"/login", "", map[string]string{
		"email": "op@example.com", "password": "pass1234", "role": "admin",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperr.KindRoleMismatch, decode[utils.ErrorBody](t, body).Kind)

	resp, body = do(t, http.MethodPost, srv.URL+"/login", "", map[string]string{
		"email": "op@example.com", "password": "wrong-pass", "role": "csc_operator",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperr.KindInvalidCredentials, decode[utils.ErrorBody](t, body).Kind)
}

func TestHTTP_ProtectedRoutesNeedToken(t *testing.T) {
	srv, _ := newServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTP_Logout(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/register", "", map[string]any{
		"name": "Operator", "email": "op@example.com", "password": "pass1234",
		"contact": "9123456782", "role": "csc",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	sess := decode[auth.Session](t, body)

	resp, body = do(t, http.MethodPost, srv.URL+"/logout", sess.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Logged out")
}
