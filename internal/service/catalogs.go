package service

import (
	"nutripae/internal/cache"
	"nutripae/internal/catalog"
	"nutripae/internal/repository"
)

// RegisterRemoteCatalogs binds every service catalog to its upstream endpoint
// through the query cache. Fixtures loaded afterwards override them.
func RegisterRemoteCatalogs(reg *catalog.Registry, store *cache.Store, coverage, hr repository.CatalogRepository) {
	for _, name := range []string{
		catalog.DocumentTypes,
		catalog.Genders,
		catalog.Grades,
		catalog.EthnicGroups,
		catalog.DisabilityTypes,
		catalog.BenefitTypes,
	} {
		reg.Register(name, catalog.NewRemote(name, store, coverage.Catalog))
	}
	for _, name := range []string{
		catalog.HRDocumentTypes,
		catalog.HRGenders,
		catalog.OperationalRoles,
		catalog.AvailabilityStatuses,
	} {
		reg.Register(name, catalog.NewRemote(name, store, hr.Catalog))
	}
}
