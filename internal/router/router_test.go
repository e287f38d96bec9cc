package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"amicus-backend/internal/platform/metrics"
	"amicus-backend/internal/platform/security"
	"amicus-backend/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil,
		BcryptCost:   security.MinCost,
		Metrics:      metrics.New(),
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_RoleHierarchy(t *testing.T) {
	ts := newServer(t)

	a := register(t, ts.URL, "a@example.com", "FARMER")
	b := register(t, ts.URL, "b@example.com", "FARMER")
	c := register(t, ts.URL, "c@example.com", "FARMER")

	// 1) A crea Org1 y queda OWNER
	orgID := createOrg(t, ts.URL, a, "Org1")

	// 2) A agrega a B (FARMER) y a C (FARMER)
	bMembership := addMember(t, ts.URL, a, orgID, b, "FARMER")
	addMember(t, ts.URL, a, orgID, c, "FARMER")

	// 3) B no puede agregar miembros
	{
		st, body := doReq(t, ts.URL, "POST", "/organization-user", b, map[string]any{
			"organization_id": orgID, "user_id": c, "role": "EMPLOYEE",
		})
		require.Equal(t, http.StatusForbidden, st, string(body))
	}

	// 4) A promueve a B a EMPLOYEE
	{
		st, body := doReq(t, ts.URL, "PATCH", "/organization-user/"+bMembership, a, map[string]any{"role": "EMPLOYEE"})
		require.Equal(t, http.StatusOK, st, string(body))
		var m map[string]any
		require.NoError(t, json.Unmarshal(body, &m))
		assert.Equal(t, "EMPLOYEE", m["role"])
	}

	// 5) B edita a C (FARMER): campos no-rol sí, rol se ignora
	{
		st, body := doReq(t, ts.URL, "PATCH", "/users/"+c, b, map[string]any{
			"city": "Rosario",
			"role": "OWNER",
		})
		require.Equal(t, http.StatusOK, st, string(body))
		var u map[string]any
		require.NoError(t, json.Unmarshal(body, &u))
		assert.Equal(t, "Rosario", u["city"])
		assert.Equal(t, "FARMER", u["role"])
	}

	// 6) B no puede editar a A (OWNER de Org1)
	{
		st, body := doReq(t, ts.URL, "PATCH", "/users/"+a, b, map[string]any{"city": "Nope"})
		require.Equal(t, http.StatusForbidden, st, string(body))
	}

	// 7) B (EMPLOYEE) no puede borrar a C; A (OWNER) sí
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/users/"+c, b, nil)
		require.Equal(t, http.StatusForbidden, st)

		st, _ = doReq(t, ts.URL, "DELETE", "/users/"+c, a, nil)
		require.Equal(t, http.StatusNoContent, st)
	}

	// 8) A (OWNER) sí cambia el rol de usuario de B
	{
		st, body := doReq(t, ts.URL, "PATCH", "/users/"+b, a, map[string]any{"role": "VET"})
		require.Equal(t, http.StatusOK, st, string(body))
		var u map[string]any
		require.NoError(t, json.Unmarshal(body, &u))
		assert.Equal(t, "VET", u["role"])
	}
}

func TestHTTP_SelfEditRoleLock(t *testing.T) {
	ts := newServer(t)
	a := register(t, ts.URL, "self@example.com", "FARMER")

	st, body := doReq(t, ts.URL, "PATCH", "/users/"+a, a, map[string]any{
		"first_name": "Ana",
		"city":       "Córdoba",
		"role":       "OWNER",
	})
	require.Equal(t, http.StatusOK, st, string(body))

	var u map[string]any
	require.NoError(t, json.Unmarshal(body, &u))
	assert.Equal(t, "Ana", u["first_name"])
	assert.Equal(t, "Córdoba", u["city"])
	assert.Equal(t, "FARMER", u["role"])
}

func TestHTTP_ZeroMembershipsSeeNothing(t *testing.T) {
	ts := newServer(t)

	owner := register(t, ts.URL, "owner@example.com", "FARMER")
	loner := register(t, ts.URL, "loner@example.com", "FARMER")

	orgID := createOrg(t, ts.URL, owner, "Busy Org")
	{
		st, body := doReq(t, ts.URL, "POST", "/herds", owner, map[string]any{
			"herd_id": "H-1", "owner_type": "ORGANIZATION", "owner_id": orgID,
		})
		require.Equal(t, http.StatusCreated, st, string(body))
	}

	for _, path := range []string{"/organizations", "/herds", "/organization-user"} {
		st, body := doReq(t, ts.URL, "GET", path, loner, nil)
		require.Equal(t, http.StatusOK, st, path)
		assert.JSONEq(t, "[]", string(body), path)
	}

	// Detalle ajeno => 404 (no se revela existencia)
	st, _ := doReq(t, ts.URL, "GET", "/organizations/"+orgID, loner, nil)
	assert.Equal(t, http.StatusNotFound, st)

	// Perfil ajeno sin organización compartida => 403
	st, _ = doReq(t, ts.URL, "GET", "/users/"+owner, loner, nil)
	assert.Equal(t, http.StatusForbidden, st)
}

func TestHTTP_HerdUniqueness(t *testing.T) {
	ts := newServer(t)
	a := register(t, ts.URL, "ha@example.com", "FARMER")
	b := register(t, ts.URL, "hb@example.com", "FARMER")

	st, body := doReq(t, ts.URL, "POST", "/herds", a, map[string]any{
		"herd_id": "H-7", "owner_type": "USER", "owner_id": a,
	})
	require.Equal(t, http.StatusCreated, st, string(body))

	// mismo herd_id, otro dueño
	st, _ = doReq(t, ts.URL, "POST", "/herds", b, map[string]any{
		"herd_id": "H-7", "owner_type": "USER", "owner_id": b,
	})
	assert.Equal(t, http.StatusConflict, st)

	// crear a nombre de otro usuario no está permitido
	st, _ = doReq(t, ts.URL, "POST", "/herds", b, map[string]any{
		"herd_id": "H-8", "owner_type": "USER", "owner_id": a,
	})
	assert.Equal(t, http.StatusForbidden, st)

	st, body = doReq(t, ts.URL, "GET", "/herds", a, nil)
	require.Equal(t, http.StatusOK, st)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 1)
	assert.Equal(t, a, items[0]["owner_id"])
}

func TestHTTP_ProvisionClient(t *testing.T) {
	ts := newServer(t)
	staff := register(t, ts.URL, "staff@example.com", "VET")

	st, body := doReq(t, ts.URL, "POST", "/clients", staff, map[string]any{
		"first_name": "Juan",
		"last_name":  "Pérez",
		"email":      "juan@example.com",
		"hasCompany": true,
		"orgName":    "VetCo",
		"herd_id":    "H-100",
	})
	require.Equal(t, http.StatusCreated, st, string(body))

	var res struct {
		UserID         string  `json:"user_id"`
		OrganizationID *string `json:"organization_id"`
		HerdID         *string `json:"herd_id"`
		RawPassword    string  `json:"rawPassword"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	require.NotEmpty(t, res.UserID)
	require.NotNil(t, res.OrganizationID)
	require.NotEmpty(t, res.RawPassword)

	// exactamente una membresía OWNER para (user, org)
	{
		st, body := doReq(t, ts.URL, "GET", "/organization-user", res.UserID, nil)
		require.Equal(t, http.StatusOK, st)
		var ms []map[string]any
		require.NoError(t, json.Unmarshal(body, &ms))
		require.Len(t, ms, 1)
		assert.Equal(t, *res.OrganizationID, ms[0]["organization_id"])
		assert.Equal(t, "OWNER", ms[0]["role"])
	}

	// exactamente un rebaño de la organización
	{
		st, body := doReq(t, ts.URL, "GET", "/herds", res.UserID, nil)
		require.Equal(t, http.StatusOK, st)
		var hs []map[string]any
		require.NoError(t, json.Unmarshal(body, &hs))
		require.Len(t, hs, 1)
		assert.Equal(t, "H-100", hs[0]["herd_id"])
		assert.Equal(t, "ORGANIZATION", hs[0]["owner_type"])
		assert.Equal(t, *res.OrganizationID, hs[0]["owner_id"])
	}

	// la contraseña generada sirve para loguearse
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
			"email": "juan@example.com", "password": res.RawPassword,
		})
		require.Equal(t, http.StatusOK, st, string(body))
	}

	// mismo herd_id => 409 y no queda el usuario nuevo
	{
		st, body := doReq(t, ts.URL, "POST", "/clients", staff, map[string]any{
			"first_name": "Otro",
			"last_name":  "Cliente",
			"email":      "otro@example.com",
			"hasCompany": true,
			"orgName":    "VetCo 2",
			"herd_id":    "H-100",
		})
		require.Equal(t, http.StatusConflict, st, string(body))

		st, _ = doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
			"email": "otro@example.com", "password": "whatever-123",
		})
		assert.Equal(t, http.StatusNotFound, st)
	}

	// métricas de provisión
	{
		st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
		require.Equal(t, http.StatusOK, st)
		assert.Contains(t, string(body), `amicus_client_provisioning_total{outcome="created"} 1`)
		assert.Contains(t, string(body), `amicus_client_provisioning_total{outcome="conflict"} 1`)
	}
}

func TestHTTP_RequiresAuth(t *testing.T) {
	ts := newServer(t)

	for _, path := range []string{"/organizations", "/herds", "/organization-user", "/users/search"} {
		st, _ := doReq(t, ts.URL, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, st, path)
	}
	st, _ := doReq(t, ts.URL, "POST", "/clients", "", map[string]any{"email": "x@example.com"})
	assert.Equal(t, http.StatusUnauthorized, st)

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", strings.TrimSpace(string(body)))
}

func TestHTTP_RegisterRejectsOverlongPassword(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"first_name": "Test",
		"last_name":  "User",
		"email":      "long@example.com",
		"password":   strings.Repeat("x", 80),
	})
	assert.Equal(t, http.StatusBadRequest, st, string(body))
}

func register(t *testing.T, baseURL, email, role string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/auth/register", "", map[string]any{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "secret-123",
		"role":       role,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}
	return idFrom(t, body)
}

func createOrg(t *testing.T, baseURL, userID, name string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/organizations", userID, map[string]any{"name": name})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create organization, got %d body=%s", st, string(body))
	}
	return idFrom(t, body)
}

func addMember(t *testing.T, baseURL, ownerID, orgID, userID, role string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/organization-user", ownerID, map[string]any{
		"organization_id": orgID,
		"user_id":         userID,
		"role":            role,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create membership, got %d body=%s", st, string(body))
	}
	return idFrom(t, body)
}

func idFrom(t *testing.T, body []byte) string {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, string(body))
	}
	id, _ := out["id"].(string)
	if id == "" {
		t.Fatalf("missing id in response: %s", string(body))
	}
	return id
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
