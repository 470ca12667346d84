package student

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bmu-backend/lib/scrapers/gnums"
	"bmu-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const profilePagePath = "/StudentPanel/STU_Student/STU_Student_ProfileView.aspx"

const profilePage = `<html><body>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblStudentLCName">Patel Raj Kumar</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblEmail">raj@example.com</span>
</body></html>`

const expiredPage = `<html><body><form>
<input type="text" name="txtUsername" id="txtUsername" />
</form></body></html>`

func setupTestService(t *testing.T) Service {
	cleanup := telemetry.SetupForTesting(t, "test:services/student")
	t.Cleanup(cleanup)

	mux := http.NewServeMux()
	mux.HandleFunc(profilePagePath, func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("ASP.NET_SessionId")
		if err != nil || cookie.Value != "live" {
			fmt.Fprint(w, expiredPage)
			return
		}
		fmt.Fprint(w, profilePage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	portal, err := gnums.NewClient(gnums.ClientOptions{
		BaseUrl: server.URL,
		Timeout: time.Second * 5,
	})
	require.NoError(t, err)
	return NewService(portal)
}

func TestProfile(t *testing.T) {
	service := setupTestService(t)

	profile, err := service.Profile(context.Background(),
		gnums.Session{"ASP.NET_SessionId": "live"})
	require.NoError(t, err)
	require.Equal(t, "Patel Raj Kumar", *profile.PersonalInfo.StudentName)
	require.Equal(t, "raj@example.com", *profile.ContactInfo.Email)
}

func TestProfileExpiredSession(t *testing.T) {
	service := setupTestService(t)

	_, err := service.Profile(context.Background(),
		gnums.Session{"ASP.NET_SessionId": "stale"})
	require.ErrorIs(t, err, gnums.ErrInvalidSession)
}

func TestValidationErrorsPassThrough(t *testing.T) {
	service := setupTestService(t)

	_, err := service.AttendanceByDate(context.Background(), gnums.Session{}, "")
	var portalErr *gnums.PortalError
	require.ErrorAs(t, err, &portalErr)
	require.Equal(t, gnums.KindValidation, portalErr.Kind)
}
