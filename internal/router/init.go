package router

import (
	"geoatlas/internal/application"
	"geoatlas/internal/container"
	pginfra "geoatlas/internal/infrastructure/postgres"
	handlers "geoatlas/internal/interface/http"
	"geoatlas/internal/router/modules"
	"geoatlas/pkg/helpers"
)

// InitModules constructs the repository, service and handler graph from the
// container singletons and registers every feature module. Called once
// during startup.
func InitModules(r *Registry) {
	pool := container.GetPGPool()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	countryRepo := pginfra.NewCountryRepository(pool)
	stateRepo := pginfra.NewStateRepository(pool)
	cityRepo := pginfra.NewCityRepository(pool)
	treeRepo := pginfra.NewCountryTreeRepository(pool)
	userRepo := pginfra.NewUserRepository(pool)

	countrySvc := application.NewCountryService(countryRepo, logger)
	stateSvc := application.NewStateService(countryRepo, stateRepo, logger)
	citySvc := application.NewCityService(countryRepo, stateRepo, cityRepo, logger)
	nestedSvc := application.NewNestedService(countryRepo, stateRepo, cityRepo, treeRepo, logger)
	sessions := helpers.NewRedisSessionStore(container.GetRedis())
	userSvc := application.NewUserService(userRepo, sessions, jwt, container.GetRabbitPub(), logger)

	r.Add(modules.NewGeoModule(
		handlers.NewCountryHandler(countrySvc, logger),
		handlers.NewStateHandler(stateSvc, logger),
		handlers.NewCityHandler(citySvc, logger),
		jwt,
	))
	r.Add(modules.NewNestedModule(handlers.NewNestedHandler(nestedSvc, logger), jwt))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), jwt))
}
