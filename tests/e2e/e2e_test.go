//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/config"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/infra"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/router"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("kioskos_test"),
		tcPostgres.WithUsername("kioskos"),
		tcPostgres.WithPassword("kioskos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		WorkerPoolSize:     1,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		ReportStoragePath:  t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("kioskos2026"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin.e2e",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}).Error)

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	srv := httptest.NewServer(router.New(cfg, db, rdb, smtpCB))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "kioskos2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) crearProducto(t *testing.T, barcode, nombre string, costo, venta float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo_barras": barcode,
			"nombre":        nombre,
			"precio_costo":  costo,
			"precio_venta":  venta,
			"stock_actual":  10,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Apply a bulk revision, verify the new price at the public price check,
// revert, and verify the original price is back. A second revert must 409.
func TestE2E_RevisionCicloCompleto(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "7790000000001", "Yerba 1kg", 600, 1000)

	// Aplicar +10%
	aplicarResp := do(t, env.server, "POST", "/v1/revisiones-precios",
		jsonBody(t, map[string]any{
			"producto_ids": []string{prodID},
			"porcentaje":   "10",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, aplicarResp.StatusCode)
	var revision struct {
		ID         string `json:"id"`
		TipoAccion string `json:"tipo_accion"`
	}
	decodeJSON(t, aplicarResp, &revision)
	assert.Equal(t, "aplicacion", revision.TipoAccion)

	// Precio público refleja el nuevo base
	precioResp := do(t, env.server, "GET", "/v1/precio/7790000000001", nil, "")
	require.Equal(t, http.StatusOK, precioResp.StatusCode)
	var precio struct {
		PrecioFinal string `json:"precio_final"`
	}
	decodeJSON(t, precioResp, &precio)
	assert.Equal(t, "1100", precio.PrecioFinal)

	// Revertir
	revertResp := do(t, env.server, "POST", "/v1/revisiones-precios/"+revision.ID+"/revertir", nil, env.token)
	require.Equal(t, http.StatusCreated, revertResp.StatusCode)

	precioResp = do(t, env.server, "GET", "/v1/precio/7790000000001", nil, "")
	require.Equal(t, http.StatusOK, precioResp.StatusCode)
	decodeJSON(t, precioResp, &precio)
	assert.Equal(t, "1000", precio.PrecioFinal)

	// Segunda reversión rechazada
	revertResp = do(t, env.server, "POST", "/v1/revisiones-precios/"+revision.ID+"/revertir", nil, env.token)
	assert.Equal(t, http.StatusConflict, revertResp.StatusCode)
	revertResp.Body.Close()
}

// An always-on lista with a surcharge and rounding changes the public quote
// without touching the stored base price; deleting it restores the base.
func TestE2E_ListaActivaAfectaConsulta(t *testing.T) {
	env := setupTestEnv(t)

	env.crearProducto(t, "7790000000002", "Cafe 500g", 700, 1000)

	listaResp := do(t, env.server, "POST", "/v1/listas-precios",
		jsonBody(t, map[string]any{
			"nombre":            "Recargo tarjeta",
			"porcentaje_ajuste": "15",
			"regla_redondeo":    "multiplo_100",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, listaResp.StatusCode)
	var lista struct {
		ID string `json:"id"`
	}
	decodeJSON(t, listaResp, &lista)

	precioResp := do(t, env.server, "GET", "/v1/precio/7790000000002", nil, "")
	require.Equal(t, http.StatusOK, precioResp.StatusCode)
	var precio struct {
		PrecioBase    string  `json:"precio_base"`
		PrecioFinal   string  `json:"precio_final"`
		ListaAplicada *string `json:"lista_aplicada"`
	}
	decodeJSON(t, precioResp, &precio)
	assert.Equal(t, "1000", precio.PrecioBase)
	assert.Equal(t, "1200", precio.PrecioFinal) // 1150 → multiplo_100
	require.NotNil(t, precio.ListaAplicada)
	assert.Equal(t, "Recargo tarjeta", *precio.ListaAplicada)

	delResp := do(t, env.server, "DELETE", "/v1/listas-precios/"+lista.ID, nil, env.token)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()

	precioResp = do(t, env.server, "GET", "/v1/precio/7790000000002", nil, "")
	decodeJSON(t, precioResp, &precio)
	assert.Equal(t, "1000", precio.PrecioFinal)
	assert.Nil(t, precio.ListaAplicada)
}

// A cajero can quote prices but cannot apply revisions or edit listas.
func TestE2E_RolesCajero(t *testing.T) {
	env := setupTestEnv(t)

	crearUsr := do(t, env.server, "POST", "/v1/usuarios",
		jsonBody(t, map[string]any{
			"username": "caja1",
			"password": "caja1234",
			"nombre":   "Cajero Uno",
			"rol":      "cajero",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, crearUsr.StatusCode)
	crearUsr.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "caja1", "password": "caja1234"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)

	prodID := env.crearProducto(t, "7790000000003", "Azucar 1kg", 400, 800)

	revResp := do(t, env.server, "POST", "/v1/revisiones-precios",
		jsonBody(t, map[string]any{"producto_ids": []string{prodID}, "porcentaje": "10"}),
		loginBody.AccessToken,
	)
	assert.Equal(t, http.StatusForbidden, revResp.StatusCode)
	revResp.Body.Close()

	listaResp := do(t, env.server, "POST", "/v1/listas-precios",
		jsonBody(t, map[string]any{"nombre": "Prohibida"}),
		loginBody.AccessToken,
	)
	assert.Equal(t, http.StatusForbidden, listaResp.StatusCode)
	listaResp.Body.Close()
}

// Listing shows the reversion chained to its origin and flags revertibility.
func TestE2E_ListadoDeRevisiones(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProducto(t, "7790000000004", "Fideos 500g", 300, 600)

	aplicarResp := do(t, env.server, "POST", "/v1/revisiones-precios",
		jsonBody(t, map[string]any{"producto_ids": []string{prodID}, "porcentaje": "5"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, aplicarResp.StatusCode)
	var revision struct {
		ID string `json:"id"`
	}
	decodeJSON(t, aplicarResp, &revision)

	revertResp := do(t, env.server, "POST", "/v1/revisiones-precios/"+revision.ID+"/revertir", nil, env.token)
	require.Equal(t, http.StatusCreated, revertResp.StatusCode)
	revertResp.Body.Close()

	listResp := do(t, env.server, "GET", "/v1/revisiones-precios", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var listado struct {
		Data []struct {
			ID               string  `json:"id"`
			TipoAccion       string  `json:"tipo_accion"`
			OrigenRevisionID *string `json:"origen_revision_id"`
			Revertible       bool    `json:"revertible"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &listado)
	require.Len(t, listado.Data, 2)
	assert.EqualValues(t, 2, listado.Total)

	for _, item := range listado.Data {
		assert.False(t, item.Revertible)
		if item.TipoAccion == "reversion" {
			require.NotNil(t, item.OrigenRevisionID)
			assert.Equal(t, revision.ID, *item.OrigenRevisionID)
		}
	}
}
