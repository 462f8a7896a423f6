package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/database/accounts"
	"github.com/avolkau/biblio/internal/database/analytics"
	"github.com/avolkau/biblio/internal/database/catalog"
	"github.com/avolkau/biblio/internal/database/circulation"
)

// testEnv wires a fresh database and the full router the way the
// entrypoint does, minus the background queue.
type testEnv struct {
	db          *database.Database
	catalog     *catalog.Repository
	circulation *circulation.Repository
	accounts    *accounts.Repository
	analytics   *analytics.Repository
	router      *gin.Engine
	refresher   *fakeRefresher
}

type fakeRefresher struct {
	calls int
}

func (f *fakeRefresher) RunNow() { f.calls++ }

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	env := &testEnv{
		db:          db,
		catalog:     catalog.NewRepository(db.DB),
		circulation: circulation.NewRepository(db.DB),
		accounts:    accounts.NewRepository(db.DB),
		analytics:   analytics.NewRepository(db.DB),
		refresher:   &fakeRefresher{},
	}
	env.router = NewRouter(RouterConfig{
		Database:          db,
		Version:           "test",
		CatalogReader:     env.catalog,
		CatalogAdmin:      env.catalog,
		CirculationStore:  env.circulation,
		AccountsStore:     env.accounts,
		AnalyticsStore:    env.analytics,
		SnapshotRefresher: env.refresher,
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return env, cleanup
}

// do performs a request against the router, marshalling body as JSON
// when non-nil.
func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
}
