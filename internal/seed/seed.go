// Package seed loads the fixed demonstration dataset: a handful of
// well-known authors, their books and the publishers that printed them.
//
// Load clears previously seeded rows first, so running it repeatedly
// always converges on the same dataset.
package seed

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/database/catalog"
	"github.com/avolkau/biblio/internal/entities"
)

// Load wipes the seeded entity types and inserts the demonstration
// dataset in dependency order: categories, authors, profiles,
// publishers, books, category links, publications.
func Load(db *database.Database) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		log.Printf("Clearing existing catalog data...")
		if err := clear(tx); err != nil {
			return err
		}

		log.Printf("Creating categories...")
		categories := []*entities.Category{
			{Name: "Science Fiction", Description: "Imaginative fiction that explores advanced science and technology"},
			{Name: "Fantasy", Description: "Fiction with magical or supernatural elements"},
			{Name: "Romance", Description: "Fiction that focuses on romantic relationships"},
		}
		for _, category := range categories {
			category.Slug = catalog.Slugify(category.Name)
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("create category %q: %w", category.Name, err)
			}
		}

		log.Printf("Creating authors...")
		authors := []*entities.Author{
			{Name: "J.K. Rowling", BirthDate: date(1965, 7, 31),
				Biography: "British author best known for the Harry Potter series."},
			{Name: "George Orwell", BirthDate: date(1903, 6, 25),
				Biography: "English novelist, essayist, and critic known for works like '1984' and 'Animal Farm'."},
			{Name: "Jane Austen", BirthDate: date(1775, 12, 16),
				Biography: "English novelist known for works such as 'Pride and Prejudice' and 'Sense and Sensibility'."},
		}
		for _, author := range authors {
			if err := tx.Create(author).Error; err != nil {
				return fmt.Errorf("create author %q: %w", author.Name, err)
			}
		}

		log.Printf("Creating author profiles...")
		profiles := []*entities.AuthorProfile{
			{AuthorID: authors[0].ID, Website: "https://www.jkrowling.com", TwitterHandle: "@jk_rowling"},
			{AuthorID: authors[1].ID},
			{AuthorID: authors[2].ID},
		}
		for _, profile := range profiles {
			if err := tx.Create(profile).Error; err != nil {
				return fmt.Errorf("create profile for author %d: %w", profile.AuthorID, err)
			}
		}

		log.Printf("Creating publishers...")
		publishers := []*entities.Publisher{
			{Name: "Penguin Books", Website: "https://www.penguin.com", Email: "info@penguin.com"},
			{Name: "HarperCollins", Website: "https://www.harpercollins.com", Email: "info@harpercollins.com"},
			{Name: "Bloomsbury", Website: "https://www.bloomsbury.com", Email: "info@bloomsbury.com"},
		}
		for _, publisher := range publishers {
			if err := tx.Create(publisher).Error; err != nil {
				return fmt.Errorf("create publisher %q: %w", publisher.Name, err)
			}
		}

		log.Printf("Creating books...")
		books := []*entities.Book{
			{Title: "Harry Potter and the Philosopher's Stone", AuthorID: authors[0].ID,
				ISBN: "9780747532743", PublicationDate: date(1997, 6, 26),
				Summary: "The first book in the Harry Potter series."},
			{Title: "1984", AuthorID: authors[1].ID,
				ISBN: "9780451524935", PublicationDate: date(1949, 6, 8),
				Summary: "A dystopian novel set in a totalitarian society."},
			{Title: "Pride and Prejudice", AuthorID: authors[2].ID,
				ISBN: "9780141439518", PublicationDate: date(1813, 1, 28),
				Summary: "A romantic novel that follows the character development of Elizabeth Bennet."},
			{Title: "Harry Potter and the Chamber of Secrets", AuthorID: authors[0].ID,
				ISBN: "9780747538486", PublicationDate: date(1998, 7, 2),
				Summary: "The second book in the Harry Potter series."},
		}
		for _, book := range books {
			if err := tx.Omit("Author", "Categories", "Publications").Create(book).Error; err != nil {
				return fmt.Errorf("create book %q: %w", book.Title, err)
			}
		}

		log.Printf("Adding categories to books...")
		links := []struct {
			book     *entities.Book
			category *entities.Category
		}{
			{books[0], categories[1]}, // Harry Potter - Fantasy
			{books[1], categories[0]}, // 1984 - Science Fiction
			{books[2], categories[2]}, // Pride and Prejudice - Romance
			{books[3], categories[1]}, // Harry Potter 2 - Fantasy
		}
		for _, link := range links {
			if err := tx.Model(link.book).Association("Categories").Append(link.category); err != nil {
				return fmt.Errorf("link book %q to category %q: %w", link.book.Title, link.category.Name, err)
			}
		}

		log.Printf("Creating publications...")
		publications := []*entities.Publication{
			{BookID: books[0].ID, PublisherID: publishers[2].ID, DatePublished: *date(1997, 6, 26), Country: "United Kingdom"},
			{BookID: books[0].ID, PublisherID: publishers[0].ID, DatePublished: *date(1998, 9, 1), Country: "United States"},
			{BookID: books[1].ID, PublisherID: publishers[0].ID, DatePublished: *date(1949, 6, 8), Country: "United Kingdom"},
			{BookID: books[2].ID, PublisherID: publishers[1].ID, DatePublished: *date(1813, 1, 28), Country: "United Kingdom"},
			{BookID: books[3].ID, PublisherID: publishers[2].ID, DatePublished: *date(1998, 7, 2), Country: "United Kingdom"},
		}
		for _, publication := range publications {
			if err := tx.Omit("Book", "Publisher").Create(publication).Error; err != nil {
				return fmt.Errorf("create publication of book %d: %w", publication.BookID, err)
			}
		}

		log.Printf("Successfully populated the database")
		return nil
	})
}

// clear removes seeded rows in reverse dependency order.
func clear(tx *gorm.DB) error {
	tables := []string{
		"publications",
		"book_categories",
		"books",
		"author_profiles",
		"authors",
		"categories",
		"publishers",
	}
	for _, table := range tables {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
