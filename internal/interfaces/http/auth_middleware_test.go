package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/dental-ops-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/dental-ops-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUserName  = "Dra. Salma"
	testFacility  = "عيادة الرياض"
	testIssuer    = "dental-ops-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// signToken genera un JWT con la identidad indicada.
func signToken(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, id, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// tokenForRole genera un JWT con el rol indicado y sin centro.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return signToken(t, pkgjwt.Identity{UserID: testUserID, Name: testUserName, Role: role})
}

// doRequest lanza una petición GET al path y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

// Caso 1b: uno de varios roles permitidos → HTTP 200.
func TestRequireRole_ManagerAccedeRutaAdminOManager(t *testing.T) {
	app := buildTestApp("admin", "manager")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "manager"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: rol distinto al requerido → HTTP 403 Forbidden.
func TestRequireRole_StaffBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "staff"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"staff no debe poder eliminar registros")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// Caso 3: token sin claim de rol → HTTP 401 MISSING_ROLE.
func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// Caso 4: sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 5: token malformado → HTTP 401 INVALID_TOKEN.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Caso 6: token firmado por otro emisor → HTTP 401.
func TestAuthMiddleware_EmisorDistinto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, "otro-emisor", pkgjwt.Identity{UserID: testUserID, Role: "admin"}, testExpMin)
	require.NoError(t, err)

	app := buildTestApp("admin")
	resp := doRequest(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, testIssuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"actor":    apphttp.GetActor(c),
			"role":     apphttp.GetRole(c),
			"facility": apphttp.GetFacility(c),
		})
	})

	token := signToken(t, pkgjwt.Identity{UserID: testUserID, Name: testUserName, Role: "manager", Facility: testFacility})
	resp := doRequest(t, app, "/me", token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUserName, body["actor"])
	assert.Equal(t, "manager", body["role"])
	assert.Equal(t, testFacility, body["facility"])
}

func TestAuthMiddleware_ActorSinNombreUsaUserID(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, testIssuer), func(c *fiber.Ctx) error {
		return c.SendString(apphttp.GetActor(c))
	})

	resp := doRequest(t, app, "/me", signToken(t, pkgjwt.Identity{UserID: testUserID, Role: "staff"}))
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, testUserID, string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireKnownFacility
// ──────────────────────────────────────────────────────────────────────────────

type stubFacilities struct {
	known map[string]bool
	err   error
}

func (s stubFacilities) Exists(_ context.Context, name string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.known[name], nil
}

func buildFacilityApp(checker stubFacilities) *fiber.App {
	app := fiber.New()
	app.Get("/scoped",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.RequireKnownFacility(checker),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) },
	)
	return app
}

func TestRequireKnownFacility_CentroRegistrado_Pasa(t *testing.T) {
	app := buildFacilityApp(stubFacilities{known: map[string]bool{testFacility: true}})
	resp := doRequest(t, app, "/scoped", signToken(t, pkgjwt.Identity{UserID: testUserID, Role: "staff", Facility: testFacility}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRequireKnownFacility_SinCentro_Pasa(t *testing.T) {
	app := buildFacilityApp(stubFacilities{})
	resp := doRequest(t, app, "/scoped", tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "un token sin centro accede a toda la red")
}

func TestRequireKnownFacility_CentroDesconocido_Retorna403(t *testing.T) {
	app := buildFacilityApp(stubFacilities{known: map[string]bool{}})
	resp := doRequest(t, app, "/scoped", signToken(t, pkgjwt.Identity{UserID: testUserID, Role: "staff", Facility: "centro-fantasma"}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FACILITY_UNKNOWN")
}

func TestRequireKnownFacility_FalloDB_Retorna503(t *testing.T) {
	app := buildFacilityApp(stubFacilities{err: errors.New("db caída")})
	resp := doRequest(t, app, "/scoped", signToken(t, pkgjwt.Identity{UserID: testUserID, Role: "staff", Facility: testFacility}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FACILITY_CHECK_FAILED")
}
