package repository

import (
	"context"

	"nutripae/internal/dto"
	"nutripae/internal/model"
)

type (
	DepartmentRepository  = ResourceRepository[model.Department, dto.CreateDepartmentRequest, dto.UpdateDepartmentRequest]
	TownRepository        = ResourceRepository[model.Town, dto.CreateTownRequest, dto.UpdateTownRequest]
	InstitutionRepository = ResourceRepository[model.Institution, dto.CreateInstitutionRequest, dto.UpdateInstitutionRequest]
	CampusRepository      = ResourceRepository[model.Campus, dto.CreateCampusRequest, dto.UpdateCampusRequest]
	BeneficiaryRepository = ResourceRepository[model.Beneficiary, dto.CreateBeneficiaryRequest, dto.UpdateBeneficiaryRequest]
	CoverageRepository    = ResourceRepository[model.Coverage, dto.CreateCoverageRequest, dto.UpdateCoverageRequest]
)

// CatalogRepository reads the reference lists of one service.
type CatalogRepository interface {
	Catalog(ctx context.Context, name string) ([]model.CatalogItem, error)
}

// CoverageRepositories groups the coverage service resources. Every edit on
// this service is a PATCH.
type CoverageRepositories struct {
	Departments   DepartmentRepository
	Towns         TownRepository
	Institutions  InstitutionRepository
	Campuses      CampusRepository
	Beneficiaries BeneficiaryRepository
	Coverages     CoverageRepository
	Catalogs      CatalogRepository
}

func NewCoverageRepositories(c Client) *CoverageRepositories {
	return &CoverageRepositories{
		Departments:   NewResource[model.Department, dto.CreateDepartmentRequest, dto.UpdateDepartmentRequest](c, "/departments", UpdatePatch),
		Towns:         NewResource[model.Town, dto.CreateTownRequest, dto.UpdateTownRequest](c, "/towns", UpdatePatch),
		Institutions:  NewResource[model.Institution, dto.CreateInstitutionRequest, dto.UpdateInstitutionRequest](c, "/institutions", UpdatePatch),
		Campuses:      NewResource[model.Campus, dto.CreateCampusRequest, dto.UpdateCampusRequest](c, "/campuses", UpdatePatch),
		Beneficiaries: NewResource[model.Beneficiary, dto.CreateBeneficiaryRequest, dto.UpdateBeneficiaryRequest](c, "/beneficiaries", UpdatePatch),
		Coverages:     NewResource[model.Coverage, dto.CreateCoverageRequest, dto.UpdateCoverageRequest](c, "/coverages", UpdatePatch),
		Catalogs:      &catalogRepo{client: c, prefix: "/parametrics/"},
	}
}

type catalogRepo struct {
	client Client
	prefix string
}

func (r *catalogRepo) Catalog(ctx context.Context, name string) ([]model.CatalogItem, error) {
	return getList[model.CatalogItem](ctx, r.client, r.prefix+name, nil)
}
