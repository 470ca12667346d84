package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bmu-backend/lib/scrapers/gnums"
	"bmu-backend/lib/testutil"
	"bmu-backend/services/auth/db"

	"github.com/stretchr/testify/require"
)

const fakeLoginPage = `<html><body><form>
<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value="vs" />
<input type="hidden" name="__VIEWSTATEGENERATOR" id="__VIEWSTATEGENERATOR" value="gen" />
<input type="hidden" name="__EVENTVALIDATION" id="__EVENTVALIDATION" value="ev" />
<input type="text" name="txtUsername" id="txtUsername" />
<input type="password" name="txtPassword" id="txtPassword" />
</form></body></html>`

// a minimal portal that accepts exactly one credential pair
func fakePortal(t *testing.T, username, password string) *gnums.Client {
	mux := http.NewServeMux()
	mux.HandleFunc("/Login.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, fakeLoginPage)
			return
		}
		if r.FormValue("txtUsername") == username && r.FormValue("txtPassword") == password {
			http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "fake-session"})
			w.Header().Set("Location", "/StudentPanel/StudentDashboard.aspx")
			w.WriteHeader(http.StatusFound)
			return
		}
		fmt.Fprint(w, fakeLoginPage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := gnums.NewClient(gnums.ClientOptions{
		BaseUrl: server.URL,
		Timeout: time.Second * 5,
	})
	require.NoError(t, err)
	return client
}

func TestGoogleLoginLinkFlow(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/auth",
		DbSchema: db.Schema,
	})
	defer cleanup()
	service := NewService(setup.DB, fakePortal(t, "student1", "hunter2"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	// first contact creates an unlinked account
	_, err := service.GoogleLogin(ctx, "google-1", "", "")
	require.ErrorIs(t, err, ErrAccountCreatedNeedsLinking)

	// still unlinked on the next attempt
	_, err = service.GoogleLogin(ctx, "google-1", "", "")
	require.ErrorIs(t, err, ErrAccountNeedsLinking)

	// linking with valid credentials returns a session
	session, err := service.GoogleLogin(ctx, "google-1", "student1", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "fake-session", session["ASP.NET_SessionId"])

	// from then on the stored credentials log in on their own
	session, err = service.GoogleLogin(ctx, "google-1", "", "")
	require.NoError(t, err)
	require.Equal(t, "fake-session", session["ASP.NET_SessionId"])

	// the same portal account cannot link to a second google account
	_, err = service.GoogleLogin(ctx, "google-2", "student1", "hunter2")
	require.ErrorIs(t, err, ErrAccountAlreadyLinked)
}

func TestGoogleLoginRejectsBadCredentials(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/auth",
		DbSchema: db.Schema,
	})
	defer cleanup()
	service := NewService(setup.DB, fakePortal(t, "student1", "hunter2"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, err := service.GoogleLogin(ctx, "google-1", "student1", "wrong")
	require.ErrorIs(t, err, gnums.ErrInvalidCredentials)

	// failed verification must not create a link
	_, err = service.GoogleLogin(ctx, "google-1", "", "")
	require.ErrorIs(t, err, ErrAccountCreatedNeedsLinking)
}

func TestLoginPassthrough(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/auth",
	})
	defer cleanup()
	service := NewService(setup.DB, fakePortal(t, "student1", "hunter2"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	session, err := service.Login(ctx, "student1", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, session)

	_, err = service.Login(ctx, "student1", "nope")
	require.ErrorIs(t, err, gnums.ErrInvalidCredentials)
}
