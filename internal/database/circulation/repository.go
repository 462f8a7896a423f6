// Package circulation provides database operations for physical inventory
// and lending: library branches, book copies, loans and reservations.
//
// Loan and reservation rows move through small state machines. The store
// never advances a state on its own — overdue and lost are explicit writes
// made by an external policy (e.g. a scheduled job comparing due dates),
// and copy availability is an independent flag toggled by the caller.
//
// # Usage
//
//	repo := circulation.NewRepository(db)
//	loan, err := repo.CheckoutCopy(copyID, userID, time.Now(), due)
//	err = repo.ReturnLoan(loan.ID, time.Now())
package circulation

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/entities"
)

// Repository handles all circulation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new circulation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Branches ---

// CreateBranch inserts a new library branch.
func (r *Repository) CreateBranch(branch *entities.LibraryBranch) error {
	if branch.Name == "" {
		return fmt.Errorf("%w: branch name is required", database.ErrValidation)
	}
	return r.db.Create(branch).Error
}

// GetBranchByID retrieves a branch with its inventory.
func (r *Repository) GetBranchByID(id uint) (*entities.LibraryBranch, error) {
	var branch entities.LibraryBranch
	err := r.db.Preload("Inventory.Book").First(&branch, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: branch %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// GetAllBranches returns all branches ordered by name.
func (r *Repository) GetAllBranches() ([]entities.LibraryBranch, error) {
	var branches []entities.LibraryBranch
	err := r.db.Order("name ASC").Find(&branches).Error
	return branches, err
}

// UpdateBranch saves changes to an existing branch.
func (r *Repository) UpdateBranch(branch *entities.LibraryBranch) error {
	if err := r.ensureExists(&entities.LibraryBranch{}, branch.ID, "branch"); err != nil {
		return err
	}
	return r.db.Save(branch).Error
}

// DeleteBranch removes a branch together with its copies, their loans
// and the reservations held at the branch.
func (r *Repository) DeleteBranch(id uint) error {
	if err := r.ensureExists(&entities.LibraryBranch{}, id, "branch"); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("copy_id IN (?)",
			tx.Model(&entities.BookCopy{}).Select("id").Where("branch_id = ?", id),
		).Delete(&entities.BookLoan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("branch_id = ?", id).Delete(&entities.BookCopy{}).Error; err != nil {
			return err
		}
		if err := tx.Where("branch_id = ?", id).Delete(&entities.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.LibraryBranch{}, id).Error
	})
}

// --- Copies ---

var validConditions = map[entities.CopyCondition]bool{
	entities.CopyConditionNew:     true,
	entities.CopyConditionGood:    true,
	entities.CopyConditionFair:    true,
	entities.CopyConditionPoor:    true,
	entities.CopyConditionDamaged: true,
}

// CreateCopy inserts a physical copy. The referenced book and branch
// must exist; the inventory number is globally unique.
func (r *Repository) CreateCopy(copy *entities.BookCopy) error {
	if err := r.ensureExists(&entities.Book{}, copy.BookID, "book"); err != nil {
		return err
	}
	if err := r.ensureExists(&entities.LibraryBranch{}, copy.BranchID, "branch"); err != nil {
		return err
	}
	if copy.Condition == "" {
		copy.Condition = entities.CopyConditionGood
	}
	if !validConditions[copy.Condition] {
		return fmt.Errorf("%w: unknown condition %q", database.ErrValidation, copy.Condition)
	}
	var count int64
	if err := r.db.Model(&entities.BookCopy{}).
		Where("inventory_number = ?", copy.InventoryNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: inventory number %q already exists",
			database.ErrConstraintViolation, copy.InventoryNumber)
	}
	err := r.db.Omit("Book", "Branch", "Loans").Create(copy).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: inventory number %q already exists",
			database.ErrConstraintViolation, copy.InventoryNumber)
	}
	return err
}

// GetCopyByID retrieves a copy with its book, branch and loan history.
func (r *Repository) GetCopyByID(id uint) (*entities.BookCopy, error) {
	var copy entities.BookCopy
	err := r.db.Preload("Book").Preload("Branch").Preload("Loans").First(&copy, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: copy %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &copy, nil
}

// GetCopiesForBook returns all copies of a book across branches.
func (r *Repository) GetCopiesForBook(bookID uint) ([]entities.BookCopy, error) {
	var copies []entities.BookCopy
	err := r.db.Preload("Branch").Where("book_id = ?", bookID).
		Order("inventory_number ASC").Find(&copies).Error
	return copies, err
}

// GetAvailableCopies returns available copies of a book, optionally
// limited to one branch (branchID 0 means any branch).
func (r *Repository) GetAvailableCopies(bookID, branchID uint) ([]entities.BookCopy, error) {
	var copies []entities.BookCopy
	query := r.db.Preload("Branch").Where("book_id = ? AND is_available = ?", bookID, true)
	if branchID > 0 {
		query = query.Where("branch_id = ?", branchID)
	}
	err := query.Order("inventory_number ASC").Find(&copies).Error
	return copies, err
}

// SetCopyAvailability toggles the availability flag. The flag is not
// derived from loan state; circulation workflows own it.
func (r *Repository) SetCopyAvailability(copyID uint, available bool) error {
	if err := r.ensureExists(&entities.BookCopy{}, copyID, "copy"); err != nil {
		return err
	}
	return r.db.Model(&entities.BookCopy{}).
		Where("id = ?", copyID).
		Update("is_available", available).Error
}

// UpdateCopy saves changes to a copy, keeping the inventory number unique.
func (r *Repository) UpdateCopy(copy *entities.BookCopy) error {
	if err := r.ensureExists(&entities.BookCopy{}, copy.ID, "copy"); err != nil {
		return err
	}
	if !validConditions[copy.Condition] {
		return fmt.Errorf("%w: unknown condition %q", database.ErrValidation, copy.Condition)
	}
	var count int64
	if err := r.db.Model(&entities.BookCopy{}).
		Where("inventory_number = ? AND id <> ?", copy.InventoryNumber, copy.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: inventory number %q already exists",
			database.ErrConstraintViolation, copy.InventoryNumber)
	}
	return r.db.Omit("Book", "Branch", "Loans").Save(copy).Error
}

// DeleteCopy removes a copy and its loan history.
func (r *Repository) DeleteCopy(id uint) error {
	if err := r.ensureExists(&entities.BookCopy{}, id, "copy"); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("copy_id = ?", id).Delete(&entities.BookLoan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.BookCopy{}, id).Error
	})
}

// --- Loans ---

// CheckoutCopy opens an active loan of a copy to a borrower. It does
// not touch the copy's availability flag.
func (r *Repository) CheckoutCopy(copyID, borrowerID uint, checkout, due time.Time) (*entities.BookLoan, error) {
	if err := r.ensureExists(&entities.BookCopy{}, copyID, "copy"); err != nil {
		return nil, err
	}
	if err := r.ensureExists(&entities.User{}, borrowerID, "user"); err != nil {
		return nil, err
	}
	if due.Before(checkout) {
		return nil, fmt.Errorf("%w: due date precedes checkout date", database.ErrValidation)
	}
	loan := &entities.BookLoan{
		CopyID:       copyID,
		BorrowerID:   borrowerID,
		CheckoutDate: checkout,
		DueDate:      due,
		Status:       entities.LoanStatusActive,
	}
	if err := r.db.Omit("Copy", "Borrower").Create(loan).Error; err != nil {
		return nil, err
	}
	return loan, nil
}

// GetLoanByID retrieves a loan with its copy.
func (r *Repository) GetLoanByID(id uint) (*entities.BookLoan, error) {
	var loan entities.BookLoan
	err := r.db.Preload("Copy.Book").First(&loan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: loan %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetLoansForUser returns a borrower's loans, most recent checkout first.
func (r *Repository) GetLoansForUser(userID uint) ([]entities.BookLoan, error) {
	var loans []entities.BookLoan
	err := r.db.Preload("Copy.Book").Where("borrower_id = ?", userID).
		Order("checkout_date DESC").Find(&loans).Error
	return loans, err
}

// GetActiveLoans returns every loan still in the active state.
func (r *Repository) GetActiveLoans() ([]entities.BookLoan, error) {
	var loans []entities.BookLoan
	err := r.db.Preload("Copy.Book").
		Where("status = ?", entities.LoanStatusActive).
		Order("due_date ASC").Find(&loans).Error
	return loans, err
}

// ReturnLoan transitions a loan to returned, recording the return date.
// Returned and lost loans cannot be returned again.
func (r *Repository) ReturnLoan(loanID uint, returnDate time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		loan, err := lockLoan(tx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != entities.LoanStatusActive && loan.Status != entities.LoanStatusOverdue {
			return fmt.Errorf("%w: cannot return a %s loan", database.ErrValidation, loan.Status)
		}
		loan.Status = entities.LoanStatusReturned
		loan.ReturnDate = &returnDate
		return tx.Omit("Copy", "Borrower").Save(loan).Error
	})
}

// MarkLoanOverdue records an external overdue determination for an
// active loan.
func (r *Repository) MarkLoanOverdue(loanID uint) error {
	return r.setLoanStatus(loanID, entities.LoanStatusOverdue, entities.LoanStatusActive)
}

// MarkLoanLost records an external lost determination for an active or
// overdue loan.
func (r *Repository) MarkLoanLost(loanID uint) error {
	return r.setLoanStatus(loanID, entities.LoanStatusLost,
		entities.LoanStatusActive, entities.LoanStatusOverdue)
}

func (r *Repository) setLoanStatus(loanID uint, target entities.LoanStatus, from ...entities.LoanStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		loan, err := lockLoan(tx, loanID)
		if err != nil {
			return err
		}
		allowed := false
		for _, s := range from {
			if loan.Status == s {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: cannot mark a %s loan as %s", database.ErrValidation, loan.Status, target)
		}
		return tx.Model(&entities.BookLoan{}).
			Where("id = ?", loanID).
			Update("status", target).Error
	})
}

func lockLoan(tx *gorm.DB, loanID uint) (*entities.BookLoan, error) {
	var loan entities.BookLoan
	err := tx.First(&loan, loanID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: loan %d", database.ErrNotFound, loanID)
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// --- Reservations ---

// CreateReservation opens a pending reservation of a book for pickup at
// a branch. The request date is set by the store at creation.
func (r *Repository) CreateReservation(bookID, userID, branchID uint) (*entities.Reservation, error) {
	if err := r.ensureExists(&entities.Book{}, bookID, "book"); err != nil {
		return nil, err
	}
	if err := r.ensureExists(&entities.User{}, userID, "user"); err != nil {
		return nil, err
	}
	if err := r.ensureExists(&entities.LibraryBranch{}, branchID, "branch"); err != nil {
		return nil, err
	}
	reservation := &entities.Reservation{
		BookID:      bookID,
		UserID:      userID,
		BranchID:    branchID,
		RequestDate: time.Now(),
		Status:      entities.ReservationStatusPending,
	}
	if err := r.db.Omit("Book", "User", "Branch").Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

// GetReservationByID retrieves a reservation with its book and branch.
func (r *Repository) GetReservationByID(id uint) (*entities.Reservation, error) {
	var reservation entities.Reservation
	err := r.db.Preload("Book").Preload("Branch").First(&reservation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: reservation %d", database.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetReservationsForUser returns a user's reservations, newest first.
func (r *Repository) GetReservationsForUser(userID uint) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	err := r.db.Preload("Book").Preload("Branch").
		Where("user_id = ?", userID).
		Order("request_date DESC").Find(&reservations).Error
	return reservations, err
}

// GetPendingReservationsForBranch returns a branch's open reservation queue.
func (r *Repository) GetPendingReservationsForBranch(branchID uint) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	err := r.db.Preload("Book").
		Where("branch_id = ? AND status = ?", branchID, entities.ReservationStatusPending).
		Order("request_date ASC").Find(&reservations).Error
	return reservations, err
}

var validReservationStatuses = map[entities.ReservationStatus]bool{
	entities.ReservationStatusPending:   true,
	entities.ReservationStatusReady:     true,
	entities.ReservationStatusFulfilled: true,
	entities.ReservationStatusCancelled: true,
}

// UpdateReservationStatus moves a reservation to a new state. Fulfilled
// and cancelled reservations are terminal.
func (r *Repository) UpdateReservationStatus(id uint, status entities.ReservationStatus) error {
	if !validReservationStatuses[status] {
		return fmt.Errorf("%w: unknown reservation status %q", database.ErrValidation, status)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var reservation entities.Reservation
		err := tx.First(&reservation, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reservation %d", database.ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		if reservation.IsTerminal() {
			return fmt.Errorf("%w: reservation is already %s", database.ErrValidation, reservation.Status)
		}
		return tx.Model(&entities.Reservation{}).
			Where("id = ?", id).
			Update("status", status).Error
	})
}

func (r *Repository) ensureExists(model any, id uint, kind string) error {
	if id == 0 {
		return fmt.Errorf("%w: %s 0", database.ErrNotFound, kind)
	}
	var count int64
	if err := r.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %d", database.ErrNotFound, kind, id)
	}
	return nil
}
