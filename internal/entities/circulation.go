package entities

import (
	"time"
)

type CopyCondition string

const (
	CopyConditionNew     CopyCondition = "new"
	CopyConditionGood    CopyCondition = "good"
	CopyConditionFair    CopyCondition = "fair"
	CopyConditionPoor    CopyCondition = "poor"
	CopyConditionDamaged CopyCondition = "damaged"
)

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
	LoanStatusLost     LoanStatus = "lost"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusReady     ReservationStatus = "ready"
	ReservationStatusFulfilled ReservationStatus = "fulfilled"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

type LibraryBranch struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"index;size:100;not null" json:"name"`
	Address      string `gorm:"type:text" json:"address"`
	Phone        string `gorm:"size:20" json:"phone"`
	Email        string `gorm:"size:255" json:"email"`
	OpeningHours string `gorm:"type:text" json:"opening_hours"`

	Inventory []BookCopy `gorm:"foreignKey:BranchID" json:"inventory,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookCopy struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	BookID          uint          `gorm:"index" json:"book_id"`
	BranchID        uint          `gorm:"index" json:"branch_id"`
	Condition       CopyCondition `gorm:"size:10;default:'good'" json:"condition"`
	AcquisitionDate time.Time     `json:"acquisition_date"`
	InventoryNumber string        `gorm:"uniqueIndex;size:50" json:"inventory_number"`
	IsAvailable     bool          `gorm:"default:true" json:"is_available"`
	Notes           string        `gorm:"type:text" json:"notes,omitempty"`

	Book   Book          `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Branch LibraryBranch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Loans  []BookLoan    `gorm:"foreignKey:CopyID" json:"loans,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookLoan struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CopyID       uint       `gorm:"index" json:"copy_id"`
	BorrowerID   uint       `gorm:"index" json:"borrower_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	Status       LoanStatus `gorm:"size:10;default:'active'" json:"status"`

	Copy     BookCopy `gorm:"foreignKey:CopyID" json:"copy,omitempty"`
	Borrower User     `gorm:"foreignKey:BorrowerID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Reservation struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	BookID      uint              `gorm:"index" json:"book_id"`
	UserID      uint              `gorm:"index" json:"user_id"`
	BranchID    uint              `gorm:"index" json:"branch_id"`
	RequestDate time.Time         `json:"request_date"`
	Status      ReservationStatus `gorm:"size:10;default:'pending'" json:"status"`

	Book   Book          `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User   User          `gorm:"foreignKey:UserID" json:"-"`
	Branch LibraryBranch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

// IsTerminal reports whether the reservation can no longer change state.
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationStatusFulfilled || r.Status == ReservationStatusCancelled
}

func (LibraryBranch) TableName() string {
	return "library_branches"
}

func (BookCopy) TableName() string {
	return "book_copies"
}

func (BookLoan) TableName() string {
	return "book_loans"
}

func (Reservation) TableName() string {
	return "reservations"
}
