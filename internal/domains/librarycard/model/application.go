package model

import "time"

// ApplicationStatus is the lifecycle state of a card application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s ApplicationStatus) String() string {
	return string(s)
}

// Application is a library-card application. CardNumber, StudentID,
// IssueDate and ValidThrough are generated at submission time.
type Application struct {
	ID     string  `json:"id" db:"id"`
	UserID *string `json:"userId" db:"user_id"` // nil when submitted anonymously

	// Personal identity
	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	FatherName string `json:"fatherName" db:"father_name"`
	DOB        string `json:"dob" db:"dob"`

	// Academic
	Class  string `json:"class" db:"class"`
	Field  string `json:"field" db:"field"`
	RollNo string `json:"rollNo" db:"roll_no"`

	// Contact
	Email         string `json:"email" db:"email"`
	Phone         string `json:"phone" db:"phone"`
	AddressStreet string `json:"addressStreet" db:"address_street"`
	AddressCity   string `json:"addressCity" db:"address_city"`
	AddressState  string `json:"addressState" db:"address_state"`
	AddressZip    string `json:"addressZip" db:"address_zip"`

	// Generated
	CardNumber   string `json:"cardNumber" db:"card_number"`
	StudentID    string `json:"studentId" db:"student_id"`
	IssueDate    string `json:"issueDate" db:"issue_date"`       // YYYY-MM-DD
	ValidThrough string `json:"validThrough" db:"valid_through"` // YYYY-MM-DD

	Status    ApplicationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty" db:"updated_at"`
}

// FullName joins first and last name with a single space, the exact format
// copied into Student projections and borrow snapshots.
func (a *Application) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Student is the read-optimized projection created when an application is
// approved. Never independently mutated.
type Student struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"` // account id or "card-<applicationID>"
	CardID    string    `json:"cardId" db:"card_id"` // the originating card number
	Name      string    `json:"name" db:"name"`
	Class     string    `json:"class" db:"class"`
	Field     string    `json:"field" db:"field"`
	RollNo    string    `json:"rollNo" db:"roll_no"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
