package handlers

import (
	"blog_api/internal/logger"
	"blog_api/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. log may be nil.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerPublicRoutes(router)
	h.registerAPIRoutes(router)

	router.GET("/ws/posts", h.wsPosts)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

// registerPublicRoutes exposes read-only endpoints without a token.
func (h *Handler) registerPublicRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/posts", h.listPosts)
		api.GET("/posts/:id", h.getPost)
		api.GET("/users/:id", h.getUser)
		api.GET("/users/:id/posts", h.getUserPosts)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdentity)
	{
		api.POST("/auth/sign-out", h.signOut)
		api.GET("/me", h.getMe)
		api.DELETE("/me", h.deleteMe)

		api.POST("/posts", h.createPost)
		api.PUT("/posts/:id", h.updatePost)
		api.DELETE("/posts/:id", h.deletePost)
	}
}
