package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bmu-backend/lib/scrapers/bmusite"
	"bmu-backend/lib/scrapers/gnums"
	"bmu-backend/lib/testutil"
	"bmu-backend/services/auth"
	authdb "bmu-backend/services/auth/db"
	"bmu-backend/services/departments"
	departmentsdb "bmu-backend/services/departments/db"
	"bmu-backend/services/student"

	"github.com/stretchr/testify/require"
)

const loginFormPage = `<html><body><form>
<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value="vs" />
<input type="hidden" name="__VIEWSTATEGENERATOR" id="__VIEWSTATEGENERATOR" value="gen" />
<input type="hidden" name="__EVENTVALIDATION" id="__EVENTVALIDATION" value="ev" />
<input type="text" name="txtUsername" id="txtUsername" />
<input type="password" name="txtPassword" id="txtPassword" />
</form></body></html>`

func setupServer(t *testing.T) *httptest.Server {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "internal/api",
		DbSchema: authdb.Schema,
	})
	t.Cleanup(cleanup)
	_, err := setup.DB.Exec(departmentsdb.Schema)
	require.NoError(t, err)

	portalMux := http.NewServeMux()
	portalMux.HandleFunc("/Login.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, loginFormPage)
			return
		}
		if r.FormValue("txtUsername") == "student1" && r.FormValue("txtPassword") == "hunter2" {
			http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "abc123"})
			w.Header().Set("Location", "/StudentPanel/StudentDashboard.aspx")
			w.WriteHeader(http.StatusFound)
			return
		}
		fmt.Fprint(w, loginFormPage)
	})
	// any authenticated page bounces to the login form, so session-bound
	// routes read as expired
	portalMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginFormPage)
	})
	portalServer := httptest.NewServer(portalMux)
	t.Cleanup(portalServer.Close)

	portal, err := gnums.NewClient(gnums.ClientOptions{
		BaseUrl: portalServer.URL,
		Timeout: time.Second * 5,
	})
	require.NoError(t, err)

	siteServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	t.Cleanup(siteServer.Close)

	site, err := bmusite.NewClient(bmusite.ClientOptions{
		BaseUrl: siteServer.URL,
		Timeout: time.Second * 5,
	})
	require.NoError(t, err)

	server := NewServer(
		auth.NewService(setup.DB, portal),
		student.NewService(portal),
		departments.NewService(setup.DB, site),
		site,
	)
	api := httptest.NewServer(server.Router())
	t.Cleanup(api.Close)
	return api
}

func postJSON(t *testing.T, url string, body any) (int, envelope) {
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	require.NoError(t, err)
	defer res.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return res.StatusCode, out
}

func TestLoginRoute(t *testing.T) {
	api := setupServer(t)

	status, out := postJSON(t, api.URL+"/v2/auth/login", map[string]string{
		"username": "student1",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, out.Success)
	require.Equal(t, "Login successful.", out.Message)

	data, ok := out.Data.(map[string]any)
	require.True(t, ok)
	cookies, ok := data["session_cookies"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "abc123", cookies["ASP.NET_SessionId"])

	status, out = postJSON(t, api.URL+"/v2/auth/login", map[string]string{
		"username": "student1",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.False(t, out.Success)
	require.Equal(t, "Invalid username or password.", out.Message)

	status, out = postJSON(t, api.URL+"/v2/auth/login", map[string]string{
		"username": "student1",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Missing required fields: 'username' and 'password'.", out.Message)
}

func TestGoogleLinkingCodes(t *testing.T) {
	api := setupServer(t)

	status, out := postJSON(t, api.URL+"/v2/auth/google", map[string]string{
		"google_id": "google-1",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, out.Success)
	require.Equal(t, "ACCOUNT_CREATED_NEEDS_LINKING", out.Code)

	status, out = postJSON(t, api.URL+"/v2/auth/google", map[string]string{
		"google_id": "google-1",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ACCOUNT_NEEDS_LINKING", out.Code)

	status, out = postJSON(t, api.URL+"/v2/auth/google", map[string]string{
		"google_id": "google-1",
		"username":  "student1",
		"password":  "hunter2",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, out.Success)
	require.Empty(t, out.Code)
}

func TestSessionBoundRouteValidation(t *testing.T) {
	api := setupServer(t)

	res, err := http.Post(api.URL+"/v2/student/profile", "application/json", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	status, out := postJSON(t, api.URL+"/v2/student/profile", map[string]any{})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Missing 'session_cookies' in request body.", out.Message)

	// the fake portal serves the login form for every authed page, so a
	// carried session reads as expired
	status, out = postJSON(t, api.URL+"/v2/student/profile", map[string]any{
		"session_cookies": map[string]string{"ASP.NET_SessionId": "stale"},
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid session or expired cookies.", out.Message)
}

func TestSessionValidateRoute(t *testing.T) {
	api := setupServer(t)

	status, out := postJSON(t, api.URL+"/v2/auth/session/validate", map[string]any{
		"session_cookies": map[string]string{"ASP.NET_SessionId": "stale"},
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, out.Success)

	data, ok := out.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, false, data["isSessionValid"])
}

func TestDepartmentRoutes(t *testing.T) {
	api := setupServer(t)

	res, err := http.Get(api.URL + "/v2/departments")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.True(t, out.Success)

	status, out := postJSON(t, api.URL+"/v2/department/details", map[string]any{
		"bmu_id": 42,
	})
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Department not found.", out.Message)

	status, out = postJSON(t, api.URL+"/v2/department/details", map[string]any{})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "bmu_id is required.", out.Message)
}

func TestHealthRoutes(t *testing.T) {
	api := setupServer(t)

	for path, expected := range map[string]string{
		"/":       "running",
		"/health": "healthy",
	} {
		res, err := http.Get(api.URL + path)
		require.NoError(t, err)
		var body map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Equal(t, expected, body["status"])
	}
}
