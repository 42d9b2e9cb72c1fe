package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the whole persisted state: every user keyed by username plus
// the shared pods they split expenses through.
type Document struct {
	Users map[string]*User `json:"users"`
	Pods  []*Pod           `json:"pods"`
}

// NewDocument returns an empty document, the state of a first run.
func NewDocument() *Document {
	return &Document{
		Users: make(map[string]*User),
		Pods:  []*Pod{},
	}
}

// User is one account. Usernames are unique and stored lower-cased; the
// password and recovery word are kept only as bcrypt hashes.
type User struct {
	Username     string     `json:"username"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	RecoveryHash string     `json:"recovery_hash"`
	CreatedAt    time.Time  `json:"created_at"`
	Goals        []*Goal    `json:"goals"`
	Expenses     []*Expense `json:"expenses"`
	PodIDs       []string   `json:"pod_ids"`
	Streak       Streak     `json:"streak"`
}

// Goal is a savings goal. Saved only ever grows, one contribution at a time.
type Goal struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"target"`
	Saved     decimal.Decimal `json:"saved"`
	Deadline  *time.Time      `json:"deadline,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	History   []Contribution  `json:"history"`
}

// Contribution is one append-only entry in a goal's history.
type Contribution struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// Expense is a personal expense. Immutable once recorded.
type Expense struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Note     string          `json:"note,omitempty"`
	Date     time.Time       `json:"date"`
}

// PodType says whether a pod runs indefinitely or ends on a date.
type PodType string

const (
	PodOngoing   PodType = "ongoing"
	PodTemporary PodType = "temporary"
)

// Pod is a named group of users splitting expenses. Members is kept sorted
// and free of duplicates.
type Pod struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      PodType          `json:"type"`
	Members   []string         `json:"members"`
	CreatedAt time.Time        `json:"created_at"`
	EndDate   *time.Time       `json:"end_date,omitempty"`
	Expenses  []*SharedExpense `json:"expenses"`
}

// SplitMethod is the algorithm used to divide a shared expense.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitPercentage SplitMethod = "percentage"
	SplitCustom     SplitMethod = "custom"
)

// SharedExpense is one expense split across a pod. The Split shares always
// sum to Amount. Approvals tracks each member's acceptance status.
type SharedExpense struct {
	ID        string                     `json:"id"`
	Amount    decimal.Decimal            `json:"amount"`
	Category  string                     `json:"category"`
	Note      string                     `json:"note,omitempty"`
	Date      time.Time                  `json:"date"`
	Method    SplitMethod                `json:"split_method"`
	Split     map[string]decimal.Decimal `json:"split"`
	Approvals map[string]string          `json:"approvals"`
}

// ApprovalPending is the initial approval status for every pod member.
const ApprovalPending = "pending"

// Streak is the per-user consistency counter. LastActiveOn is a plain
// calendar day in 2006-01-02 form, empty before the first activity.
type Streak struct {
	Count        int    `json:"count"`
	LastActiveOn string `json:"last_active_on,omitempty"`
}
