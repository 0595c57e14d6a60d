package model

import "strings"

// ── Geographic / organisational hierarchy ────────────────────────────────────
// Department → Town → Institution → Campus. Parents are referenced by id only.

type Department struct {
	ID         int    `json:"id"`
	DaneCode   string `json:"dane_code"`
	Name       string `json:"name"`
	TownsCount int    `json:"towns_count"`
}

func (d Department) EntityID() string { return intID(d.ID) }

type Town struct {
	ID                int    `json:"id"`
	DaneCode          string `json:"dane_code"`
	Name              string `json:"name"`
	DepartmentID      int    `json:"department_id"`
	InstitutionsCount int    `json:"institutions_count"`
}

func (t Town) EntityID() string { return intID(t.ID) }

type Institution struct {
	ID            int    `json:"id"`
	DaneCode      string `json:"dane_code"`
	Name          string `json:"name"`
	TownID        int    `json:"town_id"`
	CampusesCount int    `json:"campuses_count"`
}

func (i Institution) EntityID() string { return intID(i.ID) }

type Campus struct {
	ID                 int     `json:"id"`
	DaneCode           string  `json:"dane_code"`
	Name               string  `json:"name"`
	InstitutionID      int     `json:"institution_id"`
	Address            *string `json:"address,omitempty"`
	BeneficiariesCount int     `json:"beneficiaries_count"`
}

func (c Campus) EntityID() string { return intID(c.ID) }

// ── Beneficiaries ─────────────────────────────────────────────────────────────

type Beneficiary struct {
	ID               int     `json:"id"`
	DocumentTypeID   int     `json:"document_type_id"`
	NumberDocument   string  `json:"number_document"`
	FirstName        string  `json:"first_name"`
	SecondName       *string `json:"second_name,omitempty"`
	FirstSurname     string  `json:"first_surname"`
	SecondSurname    *string `json:"second_surname,omitempty"`
	BirthDate        string  `json:"birth_date"`
	GenderID         int     `json:"gender_id"`
	GradeID          int     `json:"grade_id"`
	EthnicGroupID    int     `json:"ethnic_group_id"`
	DisabilityTypeID *int    `json:"disability_type_id,omitempty"`
	VictimConflict   bool    `json:"victim_conflict"`
	GuardianName     *string `json:"guardian_name,omitempty"`
	GuardianPhone    *string `json:"guardian_phone,omitempty"`
	GuardianEmail    *string `json:"guardian_email,omitempty"`
	Address          *string `json:"address,omitempty"`
	CampusID         int     `json:"campus_id"`
}

func (b Beneficiary) EntityID() string { return intID(b.ID) }

// FullName joins the non-empty name parts in document order.
func (b Beneficiary) FullName() string {
	parts := []string{b.FirstName}
	if b.SecondName != nil {
		parts = append(parts, *b.SecondName)
	}
	parts = append(parts, b.FirstSurname)
	if b.SecondSurname != nil {
		parts = append(parts, *b.SecondSurname)
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Coverage links a beneficiary to a campus for one benefit type.
type Coverage struct {
	ID            int  `json:"id"`
	BeneficiaryID int  `json:"beneficiary_id"`
	CampusID      int  `json:"campus_id"`
	BenefitTypeID int  `json:"benefit_type_id"`
	Active        bool `json:"active"`
}

func (c Coverage) EntityID() string { return intID(c.ID) }
