package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"geoatlas/internal/container"
	handlers "geoatlas/internal/interface/http"
	"geoatlas/internal/interface/middleware"
	"geoatlas/pkg/helpers"
)

// UserModule wires signup, token signin/signout and the user endpoints.
// Public: POST /users/create, POST /auth/signin
// Protected: POST /auth/signout, GET /users, GET/DELETE /users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signinLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	// Internal traffic skips the signup throttle.
	signupLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/auth/signin", signinLimiter, m.Handler.Signin)
	rg.POST("/users/create", signupLimiter, m.Handler.Register)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/auth/signout", m.Handler.Signout)
		auth.GET("/users", m.Handler.List)
		auth.GET("/users/:id", m.Handler.Get)
		auth.DELETE("/users/:id", m.Handler.Delete)
	}
}
