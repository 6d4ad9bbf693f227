// Package api exposes the location-sharing CRUD surface over HTTP.
// Every response uses the {status, message, data?, details?} envelope.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geopin/geopin-bot/internal/group"
	"github.com/geopin/geopin-bot/internal/health"
	"github.com/geopin/geopin-bot/internal/location"
	"github.com/geopin/geopin-bot/internal/user"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	users     *user.Service
	groups    *group.Service
	locations *location.Service
	checker   *health.Checker
	log       *slog.Logger
}

// NewHandler constructs the API handler set.
func NewHandler(users *user.Service, groups *group.Service, locations *location.Service, checker *health.Checker, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		users:     users,
		groups:    groups,
		locations: locations,
		checker:   checker,
		log:       log,
	}
}

// InitRoutes builds the gin engine with all middleware and routes attached.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()

	router.Use(recovery(h.log))
	router.Use(requestLogging(h.log))
	router.Use(requestMetrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	api := router.Group("/api")
	{
		userRoutes := api.Group("/user")
		{
			userRoutes.POST("/add", h.addUser)
			userRoutes.POST("/update_training_stage", h.updateTrainingStage)
			userRoutes.GET("/:telegram_id/groups", h.userGroups)
			userRoutes.GET("/:telegram_id/admin-groups", h.adminGroups)
			userRoutes.GET("/:telegram_id/locations", h.userLocations)
		}

		groupRoutes := api.Group("/group")
		{
			groupRoutes.POST("/create", h.createGroup)
			groupRoutes.POST("/:group_link/join", h.joinGroup)
			groupRoutes.DELETE("/:group_id/delete", h.deleteGroup)
			groupRoutes.DELETE("/:group_id/leave", h.leaveGroup)
		}

		api.GET("/invite/:invite_code/check", h.checkInvite)

		api.POST("/location/add", h.addLocation)
		api.DELETE("/location/:location_id/delete", h.deleteLocation)

		api.GET("/all-map-data", h.allMapData)
	}

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (h *Handler) healthCheck(c *gin.Context) {
	if h.checker == nil {
		respondSuccess(c, http.StatusOK, "OK", nil)
		return
	}

	results := h.checker.Check(c.Request.Context())
	for _, status := range results {
		if status != "OK" {
			respondError(c, http.StatusServiceUnavailable, "degraded", "")
			return
		}
	}

	respondSuccess(c, http.StatusOK, "OK", results)
}
