package seed

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func countRows(t *testing.T, db *database.Database, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.DB.Model(model).Count(&count).Error)
	return count
}

func TestLoad(t *testing.T) {
	t.Run("populates the demonstration catalog", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, Load(db))

		assert.EqualValues(t, 3, countRows(t, db, &entities.Category{}))
		assert.EqualValues(t, 3, countRows(t, db, &entities.Author{}))
		assert.EqualValues(t, 3, countRows(t, db, &entities.AuthorProfile{}))
		assert.EqualValues(t, 3, countRows(t, db, &entities.Publisher{}))
		assert.EqualValues(t, 4, countRows(t, db, &entities.Book{}))
		assert.EqualValues(t, 5, countRows(t, db, &entities.Publication{}))
	})

	t.Run("slugs are derived from the category names", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, Load(db))

		var category entities.Category
		require.NoError(t, db.DB.Where("name = ?", "Science Fiction").First(&category).Error)
		assert.Equal(t, "science-fiction", category.Slug)
	})

	t.Run("running twice converges on the same dataset", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, Load(db))
		require.NoError(t, Load(db))

		assert.EqualValues(t, 3, countRows(t, db, &entities.Category{}))
		assert.EqualValues(t, 3, countRows(t, db, &entities.Author{}))
		assert.EqualValues(t, 3, countRows(t, db, &entities.Publisher{}))
		assert.EqualValues(t, 4, countRows(t, db, &entities.Book{}))
		assert.EqualValues(t, 5, countRows(t, db, &entities.Publication{}))

		var links int64
		require.NoError(t, db.DB.Table("book_categories").Count(&links).Error)
		assert.EqualValues(t, 4, links)
	})

	t.Run("books carry their authors", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		require.NoError(t, Load(db))

		var book entities.Book
		require.NoError(t, db.DB.Preload("Author").Where("isbn = ?", "9780451524935").First(&book).Error)
		assert.Equal(t, "1984", book.Title)
		assert.Equal(t, "George Orwell", book.Author.Name)
	})
}
