package model

type Employee struct {
	ID                int     `json:"id"`
	DocumentTypeID    int     `json:"document_type_id"`
	DocumentNumber    string  `json:"document_number"`
	FullName          string  `json:"full_name"`
	Email             *string `json:"email,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	GenderID          int     `json:"gender_id"`
	OperationalRoleID int     `json:"operational_role_id"`
	BirthDate         string  `json:"birth_date"`
	HireDate          string  `json:"hire_date"`
	TerminationDate   *string `json:"termination_date,omitempty"`
	IsActive          bool    `json:"is_active"`
}

func (e Employee) EntityID() string { return intID(e.ID) }

// DailyAvailability is the status of one employee on one date. The HR service
// rejects a second record for the same (employee_id, date).
type DailyAvailability struct {
	ID         int     `json:"id"`
	EmployeeID int     `json:"employee_id"`
	Date       string  `json:"date"`
	StatusID   int     `json:"status_id"`
	Notes      *string `json:"notes,omitempty"`
}

func (d DailyAvailability) EntityID() string { return intID(d.ID) }
