package service

import (
	"time"

	"nutripae/internal/cache"
	"nutripae/internal/dto"
	"nutripae/internal/model"
	"nutripae/internal/repository"
)

type (
	EmployeeService          = CRUDService[model.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest]
	DailyAvailabilityService = CRUDService[model.DailyAvailability, dto.CreateDailyAvailabilityRequest, dto.UpdateDailyAvailabilityRequest]
)

type HRServices struct {
	Employees           *EmployeeService
	DailyAvailabilities *DailyAvailabilityService
}

// NewHRServices wires the HR resources. A created availability is not
// appended to any cached list; the list is invalidated and re-read like
// every other resource.
func NewHRServices(repos *repository.HRRepositories, store *cache.Store, stale time.Duration, auditor Auditor) *HRServices {
	return &HRServices{
		Employees: NewCRUDService(repos.Employees, store, CRUDConfig{
			Resource: ResEmployees, Stale: stale, Auditor: auditor,
		}),
		DailyAvailabilities: NewCRUDService(repos.DailyAvailabilities, store, CRUDConfig{
			Resource: ResDailyAvailability, Stale: stale, Auditor: auditor,
		}),
	}
}
