package dto

import "nutripae/internal/model"

type CreateEmployeeRequest struct {
	DocumentTypeID    int     `json:"document_type_id"           validate:"required,gt=0"`
	DocumentNumber    string  `json:"document_number"            validate:"required,numeric,min=5,max=15"`
	FullName          string  `json:"full_name"                  validate:"required,notblank,max=150"`
	Email             *string `json:"email,omitempty"            validate:"omitempty,email"`
	Phone             *string `json:"phone,omitempty"            validate:"omitempty,numeric,min=7,max=15"`
	GenderID          int     `json:"gender_id"                  validate:"required,gt=0"`
	OperationalRoleID int     `json:"operational_role_id"        validate:"required,gt=0"`
	BirthDate         string  `json:"birth_date"                 validate:"required,isodate" normalize:"date"`
	HireDate          string  `json:"hire_date"                  validate:"required,isodate" normalize:"date"`
	TerminationDate   *string `json:"termination_date,omitempty" validate:"omitempty,isodate" normalize:"date"`
	IsActive          bool    `json:"is_active"`
}

type UpdateEmployeeRequest struct {
	FullName          string  `json:"full_name"                  validate:"required,notblank,max=150"`
	Email             *string `json:"email,omitempty"            validate:"omitempty,email"`
	Phone             *string `json:"phone,omitempty"            validate:"omitempty,numeric,min=7,max=15"`
	GenderID          int     `json:"gender_id"                  validate:"required,gt=0"`
	OperationalRoleID int     `json:"operational_role_id"        validate:"required,gt=0"`
	BirthDate         string  `json:"birth_date"                 validate:"required,isodate" normalize:"date"`
	HireDate          string  `json:"hire_date"                  validate:"required,isodate" normalize:"date"`
	TerminationDate   *string `json:"termination_date,omitempty" validate:"omitempty,isodate" normalize:"date"`
	IsActive          bool    `json:"is_active"`
}

type CreateDailyAvailabilityRequest struct {
	EmployeeID int     `json:"employee_id"     validate:"required,gt=0"`
	Date       string  `json:"date"            validate:"required,isodate" normalize:"date"`
	StatusID   int     `json:"status_id"       validate:"required,gt=0"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateDailyAvailabilityRequest struct {
	StatusID int     `json:"status_id"       validate:"required,gt=0"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func UpdateEmployeeFrom(m model.Employee) UpdateEmployeeRequest {
	return UpdateEmployeeRequest{
		FullName:          m.FullName,
		Email:             m.Email,
		Phone:             m.Phone,
		GenderID:          m.GenderID,
		OperationalRoleID: m.OperationalRoleID,
		BirthDate:         m.BirthDate,
		HireDate:          m.HireDate,
		TerminationDate:   m.TerminationDate,
		IsActive:          m.IsActive,
	}
}

func UpdateDailyAvailabilityFrom(m model.DailyAvailability) UpdateDailyAvailabilityRequest {
	return UpdateDailyAvailabilityRequest{StatusID: m.StatusID, Notes: m.Notes}
}
