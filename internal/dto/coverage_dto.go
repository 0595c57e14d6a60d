package dto

import "nutripae/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────
// Update requests drop the immutable identifiers (DANE codes, document numbers).

type CreateDepartmentRequest struct {
	DaneCode string `json:"dane_code" validate:"required,numeric,len=2"`
	Name     string `json:"name"      validate:"required,notblank,max=100"`
}

type UpdateDepartmentRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

type CreateTownRequest struct {
	DaneCode     string `json:"dane_code"     validate:"required,numeric,len=5"`
	Name         string `json:"name"          validate:"required,notblank,max=100"`
	DepartmentID int    `json:"department_id" validate:"required,gt=0"`
}

type UpdateTownRequest struct {
	Name         string `json:"name"          validate:"required,notblank,max=100"`
	DepartmentID int    `json:"department_id" validate:"required,gt=0"`
}

type CreateInstitutionRequest struct {
	DaneCode string `json:"dane_code" validate:"required,numeric,min=6,max=12"`
	Name     string `json:"name"      validate:"required,notblank,max=200"`
	TownID   int    `json:"town_id"   validate:"required,gt=0"`
}

type UpdateInstitutionRequest struct {
	Name   string `json:"name"    validate:"required,notblank,max=200"`
	TownID int    `json:"town_id" validate:"required,gt=0"`
}

type CreateCampusRequest struct {
	DaneCode      string  `json:"dane_code"      validate:"required,numeric,min=6,max=14"`
	Name          string  `json:"name"           validate:"required,notblank,max=200"`
	InstitutionID int     `json:"institution_id" validate:"required,gt=0"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=250"`
}

type UpdateCampusRequest struct {
	Name          string  `json:"name"           validate:"required,notblank,max=200"`
	InstitutionID int     `json:"institution_id" validate:"required,gt=0"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=250"`
}

type CreateBeneficiaryRequest struct {
	DocumentTypeID   int     `json:"document_type_id"             validate:"required,gt=0"`
	NumberDocument   string  `json:"number_document"              validate:"required,numeric,min=5,max=15"`
	FirstName        string  `json:"first_name"                   validate:"required,notblank,max=60"`
	SecondName       *string `json:"second_name,omitempty"        validate:"omitempty,max=60"`
	FirstSurname     string  `json:"first_surname"                validate:"required,notblank,max=60"`
	SecondSurname    *string `json:"second_surname,omitempty"     validate:"omitempty,max=60"`
	BirthDate        string  `json:"birth_date"                   validate:"required,isodate" normalize:"date"`
	GenderID         int     `json:"gender_id"                    validate:"required,gt=0"`
	GradeID          int     `json:"grade_id"                     validate:"required,gt=0"`
	EthnicGroupID    int     `json:"ethnic_group_id"              validate:"required,gt=0"`
	DisabilityTypeID *int    `json:"disability_type_id,omitempty" validate:"omitempty,gt=0"`
	VictimConflict   bool    `json:"victim_conflict"`
	GuardianName     *string `json:"guardian_name,omitempty"      validate:"omitempty,max=120"`
	GuardianPhone    *string `json:"guardian_phone,omitempty"     validate:"omitempty,numeric,min=7,max=15"`
	GuardianEmail    *string `json:"guardian_email,omitempty"     validate:"omitempty,email"`
	Address          *string `json:"address,omitempty"            validate:"omitempty,max=250"`
	CampusID         int     `json:"campus_id"                    validate:"required,gt=0"`
}

type UpdateBeneficiaryRequest struct {
	FirstName        string  `json:"first_name"                   validate:"required,notblank,max=60"`
	SecondName       *string `json:"second_name,omitempty"        validate:"omitempty,max=60"`
	FirstSurname     string  `json:"first_surname"                validate:"required,notblank,max=60"`
	SecondSurname    *string `json:"second_surname,omitempty"     validate:"omitempty,max=60"`
	BirthDate        string  `json:"birth_date"                   validate:"required,isodate" normalize:"date"`
	GenderID         int     `json:"gender_id"                    validate:"required,gt=0"`
	GradeID          int     `json:"grade_id"                     validate:"required,gt=0"`
	EthnicGroupID    int     `json:"ethnic_group_id"              validate:"required,gt=0"`
	DisabilityTypeID *int    `json:"disability_type_id,omitempty" validate:"omitempty,gt=0"`
	VictimConflict   bool    `json:"victim_conflict"`
	GuardianName     *string `json:"guardian_name,omitempty"      validate:"omitempty,max=120"`
	GuardianPhone    *string `json:"guardian_phone,omitempty"     validate:"omitempty,numeric,min=7,max=15"`
	GuardianEmail    *string `json:"guardian_email,omitempty"     validate:"omitempty,email"`
	Address          *string `json:"address,omitempty"            validate:"omitempty,max=250"`
	CampusID         int     `json:"campus_id"                    validate:"required,gt=0"`
}

type CreateCoverageRequest struct {
	BeneficiaryID int  `json:"beneficiary_id"  validate:"required,gt=0"`
	CampusID      int  `json:"campus_id"       validate:"required,gt=0"`
	BenefitTypeID int  `json:"benefit_type_id" validate:"required,gt=0"`
	Active        bool `json:"active"`
}

type UpdateCoverageRequest struct {
	CampusID      int  `json:"campus_id"       validate:"required,gt=0"`
	BenefitTypeID int  `json:"benefit_type_id" validate:"required,gt=0"`
	Active        bool `json:"active"`
}

// ─── Edit prefill ────────────────────────────────────────────────────────────

func UpdateDepartmentFrom(m model.Department) UpdateDepartmentRequest {
	return UpdateDepartmentRequest{Name: m.Name}
}

func UpdateTownFrom(m model.Town) UpdateTownRequest {
	return UpdateTownRequest{Name: m.Name, DepartmentID: m.DepartmentID}
}

func UpdateInstitutionFrom(m model.Institution) UpdateInstitutionRequest {
	return UpdateInstitutionRequest{Name: m.Name, TownID: m.TownID}
}

func UpdateCampusFrom(m model.Campus) UpdateCampusRequest {
	return UpdateCampusRequest{Name: m.Name, InstitutionID: m.InstitutionID, Address: m.Address}
}

func UpdateBeneficiaryFrom(m model.Beneficiary) UpdateBeneficiaryRequest {
	return UpdateBeneficiaryRequest{
		FirstName:        m.FirstName,
		SecondName:       m.SecondName,
		FirstSurname:     m.FirstSurname,
		SecondSurname:    m.SecondSurname,
		BirthDate:        m.BirthDate,
		GenderID:         m.GenderID,
		GradeID:          m.GradeID,
		EthnicGroupID:    m.EthnicGroupID,
		DisabilityTypeID: m.DisabilityTypeID,
		VictimConflict:   m.VictimConflict,
		GuardianName:     m.GuardianName,
		GuardianPhone:    m.GuardianPhone,
		GuardianEmail:    m.GuardianEmail,
		Address:          m.Address,
		CampusID:         m.CampusID,
	}
}

func UpdateCoverageFrom(m model.Coverage) UpdateCoverageRequest {
	return UpdateCoverageRequest{CampusID: m.CampusID, BenefitTypeID: m.BenefitTypeID, Active: m.Active}
}
