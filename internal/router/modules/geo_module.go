package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"geoatlas/internal/container"
	handlers "geoatlas/internal/interface/http"
	"geoatlas/internal/interface/middleware"
	"geoatlas/pkg/helpers"
)

// GeoModule registers the flat CRUD surface of the hierarchy. Every route is
// protected; the handlers scope all reads and writes to the token's user.
//
// /countries                                   list, create, bulk_insert, bulk_update
// /countries/:country_code                     get, put, delete
// /countries/:country_code/states              ... same shape, one level down
// /countries/:country_code/states/:state_code/cities
// /countries/:country_code/cities              country-wide city listing
type GeoModule struct {
	Countries *handlers.CountryHandler
	States    *handlers.StateHandler
	Cities    *handlers.CityHandler
	JWT       *helpers.JWTManager
}

func NewGeoModule(countries *handlers.CountryHandler, states *handlers.StateHandler, cities *handlers.CityHandler, jwt *helpers.JWTManager) *GeoModule {
	return &GeoModule{Countries: countries, States: states, Cities: cities, JWT: jwt}
}

func (m *GeoModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))

	countries := auth.Group("/countries")
	{
		countries.GET("", m.Countries.List)
		countries.POST("", m.Countries.Create)
		countries.POST("/bulk_insert", m.Countries.BulkCreate)
		countries.PUT("/bulk_update", m.Countries.BulkUpdate)
		countries.GET("/:country_code", m.Countries.Get)
		countries.PUT("/:country_code", m.Countries.Update)
		countries.DELETE("/:country_code", m.Countries.Delete)

		countries.GET("/:country_code/cities", m.Cities.ListInCountry)
	}

	states := countries.Group("/:country_code/states")
	{
		states.GET("", m.States.List)
		states.POST("", m.States.Create)
		states.POST("/bulk_insert", m.States.BulkCreate)
		states.PUT("/bulk_update", m.States.BulkUpdate)
		states.GET("/:state_code", m.States.Get)
		states.PUT("/:state_code", m.States.Update)
		states.DELETE("/:state_code", m.States.Delete)
	}

	cities := states.Group("/:state_code/cities")
	{
		cities.GET("", m.Cities.List)
		cities.POST("", m.Cities.Create)
		cities.GET("/:city_code", m.Cities.Get)
		cities.PUT("/:city_code", m.Cities.Update)
		cities.DELETE("/:city_code", m.Cities.Delete)
	}
}
