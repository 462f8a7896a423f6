package http

import (
	"github.com/avolkau/biblio/internal/database"
)

// RouterConfig carries the dependencies for NewRouter. Grouping them
// in a struct keeps the constructor signature stable as controllers
// are added.
type RouterConfig struct {
	Database *database.Database
	Version  string

	CatalogReader    CatalogReader
	CatalogAdmin     CatalogAdmin
	CirculationStore CirculationStore
	AccountsStore    AccountsStore
	AnalyticsStore   AnalyticsStore

	// Optional; the refresh endpoint returns 503 when nil.
	SnapshotRefresher SnapshotRefresher
}
