// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── errors.go        # Store-level error kinds
//	├── catalog/         # Authors, categories, publishers, books, publications
//	├── circulation/     # Branches, copies, loans, reservations
//	├── accounts/        # Users, reading lists, reviews
//	└── analytics/       # View/recommendation logs, derived snapshots
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./library.db")
//
//	// Create domain-specific repositories
//	catalogRepo := catalog.NewRepository(db.DB)
//	accountsRepo := accounts.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := catalogRepo.GetBookByID(123)
//	review, err := accountsRepo.CreateReview(userID, bookID, 5, "great read")
//
// # Error Handling
//
// Write operations surface three error kinds, matched with errors.Is:
//
//   - database.ErrNotFound: a referenced parent record is absent
//   - database.ErrConstraintViolation: a uniqueness rule was violated
//   - database.ErrValidation: a field value is outside its declared domain
//
// Deleting a parent record walks its dependents explicitly inside one
// transaction rather than relying on engine-level cascade declarations;
// see the DeleteAuthor, DeleteBook and DeleteUser repository methods.
package database
