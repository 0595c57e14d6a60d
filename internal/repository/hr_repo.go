package repository

import (
	"nutripae/internal/dto"
	"nutripae/internal/model"
)

type (
	EmployeeRepository          = ResourceRepository[model.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest]
	DailyAvailabilityRepository = ResourceRepository[model.DailyAvailability, dto.CreateDailyAvailabilityRequest, dto.UpdateDailyAvailabilityRequest]
)

// HRRepositories groups the HR service resources. Daily availabilities are
// listed with start_date, end_date and employee_id filters.
type HRRepositories struct {
	Employees           EmployeeRepository
	DailyAvailabilities DailyAvailabilityRepository
	Catalogs            CatalogRepository
}

func NewHRRepositories(c Client) *HRRepositories {
	return &HRRepositories{
		Employees:           NewResource[model.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest](c, "/employees", UpdatePatch),
		DailyAvailabilities: NewResource[model.DailyAvailability, dto.CreateDailyAvailabilityRequest, dto.UpdateDailyAvailabilityRequest](c, "/daily-availabilities", UpdatePatch),
		Catalogs:            &catalogRepo{client: c, prefix: "/options/"},
	}
}
