package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/biblio/internal/entities"
)

func seedCatalog(t *testing.T, env *testEnv) (*entities.Author, *entities.Book, *entities.Category) {
	t.Helper()
	author := &entities.Author{Name: "George Orwell"}
	require.NoError(t, env.catalog.CreateAuthor(author))
	book := &entities.Book{Title: "1984", ISBN: "9780451524935", AuthorID: author.ID}
	require.NoError(t, env.catalog.CreateBook(book))
	category := &entities.Category{Name: "Dystopia"}
	require.NoError(t, env.catalog.CreateCategory(category))
	require.NoError(t, env.catalog.AddBookToCategory(book.ID, category.ID))
	return author, book, category
}

func TestHomeStats(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	seedCatalog(t, env)

	w := env.do(t, "GET", "/api/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalBooks      int64            `json:"total_books"`
		TotalAuthors    int64            `json:"total_authors"`
		TotalCategories int64            `json:"total_categories"`
		Categories      []map[string]any `json:"categories"`
		RecentBooks     []map[string]any `json:"recent_books"`
	}
	decodeJSON(t, w, &stats)
	assert.EqualValues(t, 1, stats.TotalBooks)
	assert.EqualValues(t, 1, stats.TotalAuthors)
	assert.EqualValues(t, 1, stats.TotalCategories)
	assert.Len(t, stats.Categories, 1)
	assert.Len(t, stats.RecentBooks, 1)
}

func TestListBooks(t *testing.T) {
	t.Run("lists everything without a query", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		seedCatalog(t, env)

		w := env.do(t, "GET", "/api/books", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Books []entities.Book `json:"books"`
		}
		decodeJSON(t, w, &resp)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "George Orwell", resp.Books[0].Author.Name)
	})

	t.Run("filters with the q parameter", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		seedCatalog(t, env)

		w := env.do(t, "GET", "/api/books?q=orwell", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Books []entities.Book `json:"books"`
		}
		decodeJSON(t, w, &resp)
		assert.Len(t, resp.Books, 1)

		w = env.do(t, "GET", "/api/books?q=austen", nil)
		decodeJSON(t, w, &resp)
		assert.Empty(t, resp.Books)
	})
}

func TestBookDetail(t *testing.T) {
	t.Run("returns the book and records a view", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)

		w := env.do(t, "GET", fmt.Sprintf("/api/books/%d", book.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got entities.Book
		decodeJSON(t, w, &got)
		assert.Equal(t, "1984", got.Title)
		require.Len(t, got.Categories, 1)

		count, err := env.analytics.GetViewCountForBook(book.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("attributes the view to the user parameter", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)
		user, err := env.accounts.CreateUser("reader", "reader@example.com", "correct horse battery")
		require.NoError(t, err)

		w := env.do(t, "GET", fmt.Sprintf("/api/books/%d?user=%d", book.ID, user.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var view entities.BookView
		require.NoError(t, env.db.DB.Where("book_id = ?", book.ID).First(&view).Error)
		require.NotNil(t, view.UserID)
		assert.Equal(t, user.ID, *view.UserID)
	})

	t.Run("malformed user parameter is 400", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()
		_, book, _ := seedCatalog(t, env)

		w := env.do(t, "GET", fmt.Sprintf("/api/books/%d?user=abc", book.ID), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		count, err := env.analytics.GetViewCountForBook(book.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("missing book is 404", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		w := env.do(t, "GET", "/api/books/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		w := env.do(t, "GET", "/api/books/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCategoryDetail(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	seedCatalog(t, env)

	w := env.do(t, "GET", "/api/categories/dystopia", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var category entities.Category
	decodeJSON(t, w, &category)
	assert.Equal(t, "Dystopia", category.Name)
	assert.Len(t, category.Books, 1)

	w = env.do(t, "GET", "/api/categories/no-such", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAuthors(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()
	author, _, _ := seedCatalog(t, env)

	w := env.do(t, "GET", "/api/authors?q=orwell", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Authors []entities.Author `json:"authors"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Authors, 1)
	assert.Equal(t, author.ID, resp.Authors[0].ID)
}
