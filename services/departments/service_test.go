package departments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bmu-backend/lib/scrapers/bmusite"
	"bmu-backend/lib/testutil"
	"bmu-backend/services/departments/db"

	"github.com/stretchr/testify/require"
)

const fakeInstitutePage = `<html><body>
<div id="intellectualmember">
  <div id="director">
    <div class="col-md-4"><img src="/uploads/director.jpg" /></div>
    <div class="col-md-8"><font><b>Dr. A Sharma</b></font></div>
    <p>Welcome message.</p>
  </div>
</div>
</body></html>`

func setupTestService(t *testing.T) Service {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/departments",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	mux := http.NewServeMux()
	mux.HandleFunc("/bmu_website/institute/get_detail", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("institute_id") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, fakeInstitutePage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	site, err := bmusite.NewClient(bmusite.ClientOptions{
		BaseUrl: server.URL,
		Timeout: time.Second * 5,
	})
	require.NoError(t, err)

	return NewService(setup.DB, site)
}

func seed(t *testing.T, ctx context.Context, service Service) {
	for _, department := range []Department{
		{BmuId: 1, Name: "Bhagwan Mahavir College of Management", ShortName: "BMCM"},
		{BmuId: 2, Name: "Bhagwan Mahavir College of Computer Application", ShortName: "BMCCA"},
		{BmuId: 3, Name: "Bhagwan Mahavir College of Engineering", ShortName: "BMCE"},
	} {
		require.NoError(t, service.Upsert(ctx, department))
	}
}

func TestListAndDetails(t *testing.T) {
	service := setupTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	seed(t, ctx, service)

	departments, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 3)
	require.Equal(t, "BMCM", departments[0].ShortName)

	details, err := service.Details(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), details.BmuId)
	require.NotNil(t, details.Director)
	require.NotNil(t, details.Director.Name)
	require.Equal(t, "Dr. A Sharma", *details.Director.Name)

	_, err = service.Details(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	service := setupTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	seed(t, ctx, service)

	results, err := service.Search(ctx, "bmcca")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, int64(2), results[0].BmuId)

	results, err = service.Search(ctx, "zzzzzz")
	require.NoError(t, err)
	require.Empty(t, results)
}
