package catalog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/entities"
)

// setupTestRepo creates a fresh test database with a catalog repository.
func setupTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), cleanup
}

func createTestAuthor(t *testing.T, repo *Repository, name string) *entities.Author {
	t.Helper()
	author := &entities.Author{Name: name}
	require.NoError(t, repo.CreateAuthor(author))
	return author
}

func createTestBook(t *testing.T, repo *Repository, title, isbn string, authorID uint) *entities.Book {
	t.Helper()
	book := &entities.Book{Title: title, ISBN: isbn, AuthorID: authorID}
	require.NoError(t, repo.CreateBook(book))
	return book
}

func TestAuthors(t *testing.T) {
	t.Run("create and retrieve with profile and books", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		require.NoError(t, repo.SetAuthorProfile(&entities.AuthorProfile{
			AuthorID: author.ID,
			Website:  "https://orwell.example",
		}))
		createTestBook(t, repo, "1984", "9780451524935", author.ID)

		got, err := repo.GetAuthorByID(author.ID)
		require.NoError(t, err)
		assert.Equal(t, "George Orwell", got.Name)
		require.NotNil(t, got.Profile)
		assert.Equal(t, "https://orwell.example", got.Profile.Website)
		require.Len(t, got.Books, 1)
		assert.Equal(t, "1984", got.Books[0].Title)
	})

	t.Run("create rejects empty name", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		err := repo.CreateAuthor(&entities.Author{})
		assert.ErrorIs(t, err, database.ErrValidation)
	})

	t.Run("get missing author returns not found", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.GetAuthorByID(999)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("search matches case-insensitively", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		createTestAuthor(t, repo, "Jane Austen")
		createTestAuthor(t, repo, "George Orwell")

		found, err := repo.SearchAuthors("austen")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Jane Austen", found[0].Name)
	})

	t.Run("set profile for missing author fails", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		err := repo.SetAuthorProfile(&entities.AuthorProfile{AuthorID: 42})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("delete cascades to books and their references", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		book := createTestBook(t, repo, "1984", "9780451524935", author.ID)

		publisher := &entities.Publisher{Name: "Penguin"}
		require.NoError(t, repo.CreatePublisher(publisher))
		require.NoError(t, repo.CreatePublication(&entities.Publication{
			BookID:      book.ID,
			PublisherID: publisher.ID,
			Country:     "UK",
		}))

		require.NoError(t, repo.DeleteAuthor(author.ID))

		_, err := repo.GetAuthorByID(author.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)
		_, err = repo.GetBookByID(book.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)
		pubs, err := repo.GetPublicationsForBook(book.ID)
		require.NoError(t, err)
		assert.Empty(t, pubs)
	})
}

func TestCategories(t *testing.T) {
	t.Run("slug is derived from name when missing", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		category := &entities.Category{Name: "Science Fiction"}
		require.NoError(t, repo.CreateCategory(category))
		assert.Equal(t, "science-fiction", category.Slug)
	})

	t.Run("explicit slug is kept", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		category := &entities.Category{Name: "Science Fiction", Slug: "sf"}
		require.NoError(t, repo.CreateCategory(category))
		assert.Equal(t, "sf", category.Slug)
	})

	t.Run("duplicate slug is a constraint violation", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		require.NoError(t, repo.CreateCategory(&entities.Category{Name: "Science Fiction"}))
		err := repo.CreateCategory(&entities.Category{Name: "Science  Fiction"})
		assert.ErrorIs(t, err, database.ErrConstraintViolation)
	})

	t.Run("rename keeps the original slug", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		category := &entities.Category{Name: "Science Fiction"}
		require.NoError(t, repo.CreateCategory(category))

		category.Name = "Speculative Fiction"
		require.NoError(t, repo.UpdateCategory(category))

		got, err := repo.GetCategoryByID(category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Speculative Fiction", got.Name)
		assert.Equal(t, "science-fiction", got.Slug)
	})

	t.Run("lookup by slug includes books", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		book := createTestBook(t, repo, "1984", "9780451524935", author.ID)
		category := &entities.Category{Name: "Science Fiction"}
		require.NoError(t, repo.CreateCategory(category))
		require.NoError(t, repo.AddBookToCategory(book.ID, category.ID))

		got, err := repo.GetCategoryBySlug("science-fiction")
		require.NoError(t, err)
		require.Len(t, got.Books, 1)
		assert.Equal(t, "George Orwell", got.Books[0].Author.Name)

		_, err = repo.GetCategoryBySlug("no-such-slug")
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("delete detaches books without removing them", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		book := createTestBook(t, repo, "1984", "9780451524935", author.ID)
		category := &entities.Category{Name: "Science Fiction"}
		require.NoError(t, repo.CreateCategory(category))
		require.NoError(t, repo.AddBookToCategory(book.ID, category.ID))

		require.NoError(t, repo.DeleteCategory(category.ID))

		got, err := repo.GetBookByID(book.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Categories)
	})

	t.Run("top categories are ordered by book count", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		b1 := createTestBook(t, repo, "1984", "9780451524935", author.ID)
		b2 := createTestBook(t, repo, "Animal Farm", "9780451526342", author.ID)

		popular := &entities.Category{Name: "Dystopia"}
		require.NoError(t, repo.CreateCategory(popular))
		niche := &entities.Category{Name: "Satire"}
		require.NoError(t, repo.CreateCategory(niche))

		require.NoError(t, repo.AddBookToCategory(b1.ID, popular.ID))
		require.NoError(t, repo.AddBookToCategory(b2.ID, popular.ID))
		require.NoError(t, repo.AddBookToCategory(b2.ID, niche.ID))

		top, err := repo.GetTopCategories(1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, "Dystopia", top[0].Name)
		assert.EqualValues(t, 2, top[0].BookCount)
	})
}

func TestBooks(t *testing.T) {
	t.Run("create requires existing author", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		err := repo.CreateBook(&entities.Book{Title: "1984", ISBN: "9780451524935", AuthorID: 42})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("duplicate isbn is a constraint violation", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		createTestBook(t, repo, "1984", "9780451524935", author.ID)

		err := repo.CreateBook(&entities.Book{Title: "Another 1984", ISBN: "9780451524935", AuthorID: author.ID})
		assert.ErrorIs(t, err, database.ErrConstraintViolation)
	})

	t.Run("update cannot steal another book's isbn", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		createTestBook(t, repo, "1984", "9780451524935", author.ID)
		other := createTestBook(t, repo, "Animal Farm", "9780451526342", author.ID)

		other.ISBN = "9780451524935"
		err := repo.UpdateBook(other)
		assert.ErrorIs(t, err, database.ErrConstraintViolation)
	})

	t.Run("search covers title, author name and isbn", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		orwell := createTestAuthor(t, repo, "George Orwell")
		austen := createTestAuthor(t, repo, "Jane Austen")
		createTestBook(t, repo, "1984", "9780451524935", orwell.ID)
		createTestBook(t, repo, "Pride and Prejudice", "9780141439518", austen.ID)

		byTitle, err := repo.SearchBooks("pride")
		require.NoError(t, err)
		require.Len(t, byTitle, 1)
		assert.Equal(t, "Pride and Prejudice", byTitle[0].Title)

		byAuthor, err := repo.SearchBooks("orwell")
		require.NoError(t, err)
		require.Len(t, byAuthor, 1)
		assert.Equal(t, "1984", byAuthor[0].Title)

		byISBN, err := repo.SearchBooks("9780141439518")
		require.NoError(t, err)
		require.Len(t, byISBN, 1)
		assert.Equal(t, "Pride and Prejudice", byISBN[0].Title)
	})

	t.Run("recent books are newest first", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		older := time.Date(1945, 8, 17, 0, 0, 0, 0, time.UTC)
		newer := time.Date(1949, 6, 8, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.CreateBook(&entities.Book{
			Title: "Animal Farm", ISBN: "9780451526342", AuthorID: author.ID, PublicationDate: &older,
		}))
		require.NoError(t, repo.CreateBook(&entities.Book{
			Title: "1984", ISBN: "9780451524935", AuthorID: author.ID, PublicationDate: &newer,
		}))

		recent, err := repo.GetRecentBooks(2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "1984", recent[0].Title)
		assert.Equal(t, "Animal Farm", recent[1].Title)
	})

	t.Run("totals count all entity types", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		createTestBook(t, repo, "1984", "9780451524935", author.ID)
		require.NoError(t, repo.CreateCategory(&entities.Category{Name: "Dystopia"}))
		require.NoError(t, repo.CreatePublisher(&entities.Publisher{Name: "Penguin"}))

		totals, err := repo.GetTotals()
		require.NoError(t, err)
		assert.EqualValues(t, 1, totals.Books)
		assert.EqualValues(t, 1, totals.Authors)
		assert.EqualValues(t, 1, totals.Categories)
		assert.EqualValues(t, 1, totals.Publishers)
	})
}

func TestPublications(t *testing.T) {
	t.Run("duplicate edition triple is a constraint violation", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		book := createTestBook(t, repo, "1984", "9780451524935", author.ID)
		publisher := &entities.Publisher{Name: "Penguin"}
		require.NoError(t, repo.CreatePublisher(publisher))

		require.NoError(t, repo.CreatePublication(&entities.Publication{
			BookID: book.ID, PublisherID: publisher.ID, Country: "UK",
		}))
		err := repo.CreatePublication(&entities.Publication{
			BookID: book.ID, PublisherID: publisher.ID, Country: "UK",
		})
		assert.ErrorIs(t, err, database.ErrConstraintViolation)

		// Same pair in a different country is a separate edition.
		require.NoError(t, repo.CreatePublication(&entities.Publication{
			BookID: book.ID, PublisherID: publisher.ID, Country: "US",
		}))
	})

	t.Run("deleting the publisher removes its editions", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		author := createTestAuthor(t, repo, "George Orwell")
		book := createTestBook(t, repo, "1984", "9780451524935", author.ID)
		publisher := &entities.Publisher{Name: "Penguin"}
		require.NoError(t, repo.CreatePublisher(publisher))
		require.NoError(t, repo.CreatePublication(&entities.Publication{
			BookID: book.ID, PublisherID: publisher.ID, Country: "UK",
		}))

		require.NoError(t, repo.DeletePublisher(publisher.ID))

		pubs, err := repo.GetPublicationsForBook(book.ID)
		require.NoError(t, err)
		assert.Empty(t, pubs)
	})

	t.Run("publication against a missing book fails", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		publisher := &entities.Publisher{Name: "Penguin"}
		require.NoError(t, repo.CreatePublisher(publisher))

		err := repo.CreatePublication(&entities.Publication{
			BookID: 42, PublisherID: publisher.ID, Country: "UK",
		})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Science Fiction":   "science-fiction",
		"Science  Fiction":  "science-fiction",
		"  Romance  ":       "romance",
		"Children's Books!": "childrens-books",
		"Sci-Fi & Fantasy":  "sci-fi-fantasy",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}
