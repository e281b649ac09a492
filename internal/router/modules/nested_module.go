package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"geoatlas/internal/container"
	handlers "geoatlas/internal/interface/http"
	"geoatlas/internal/interface/middleware"
	"geoatlas/pkg/helpers"
)

// NestedModule registers the aggregate endpoints under /nested/countries,
// where a country travels with its full subtree and writes are atomic.
type NestedModule struct {
	Handler *handlers.NestedHandler
	JWT     *helpers.JWTManager
}

func NewNestedModule(h *handlers.NestedHandler, jwt *helpers.JWTManager) *NestedModule {
	return &NestedModule{Handler: h, JWT: jwt}
}

func (m *NestedModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/nested")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))

	countries := auth.Group("/countries")
	{
		countries.GET("", m.Handler.List)
		countries.POST("", m.Handler.Create)
		countries.GET("/:country_code", m.Handler.Get)
		countries.PUT("/:country_code", m.Handler.Update)
		countries.DELETE("/:country_code", m.Handler.Delete)
	}
}
