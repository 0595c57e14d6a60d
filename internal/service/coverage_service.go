package service

import (
	"time"

	"nutripae/internal/cache"
	"nutripae/internal/dto"
	"nutripae/internal/model"
	"nutripae/internal/repository"
)

type (
	DepartmentService  = CRUDService[model.Department, dto.CreateDepartmentRequest, dto.UpdateDepartmentRequest]
	TownService        = CRUDService[model.Town, dto.CreateTownRequest, dto.UpdateTownRequest]
	InstitutionService = CRUDService[model.Institution, dto.CreateInstitutionRequest, dto.UpdateInstitutionRequest]
	CampusService      = CRUDService[model.Campus, dto.CreateCampusRequest, dto.UpdateCampusRequest]
	BeneficiaryService = CRUDService[model.Beneficiary, dto.CreateBeneficiaryRequest, dto.UpdateBeneficiaryRequest]
	CoverageService    = CRUDService[model.Coverage, dto.CreateCoverageRequest, dto.UpdateCoverageRequest]
)

type CoverageServices struct {
	Departments   *DepartmentService
	Towns         *TownService
	Institutions  *InstitutionService
	Campuses      *CampusService
	Beneficiaries *BeneficiaryService
	Coverages     *CoverageService
}

func NewCoverageServices(repos *repository.CoverageRepositories, store *cache.Store, stale time.Duration, auditor Auditor) *CoverageServices {
	cfg := func(resource string) CRUDConfig {
		return CRUDConfig{Resource: resource, Stale: stale, Auditor: auditor}
	}
	return &CoverageServices{
		Departments:   NewCRUDService(repos.Departments, store, cfg(ResDepartments)),
		Towns:         NewCRUDService(repos.Towns, store, cfg(ResTowns)),
		Institutions:  NewCRUDService(repos.Institutions, store, cfg(ResInstitutions)),
		Campuses:      NewCRUDService(repos.Campuses, store, cfg(ResCampuses)),
		Beneficiaries: NewCRUDService(repos.Beneficiaries, store, cfg(ResBeneficiaries)),
		Coverages:     NewCRUDService(repos.Coverages, store, cfg(ResCoverages)),
	}
}
