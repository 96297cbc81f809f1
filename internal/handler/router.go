package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"room-scheduler-api/internal/middleware"
)

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Check(ctx context.Context) error
}

type RouterOptions struct {
	Health      HealthChecker
	RateLimiter *middleware.RateLimiter // nil disables limiting
}

// NewRouter mounts the resource endpoints under their plain paths.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(h.log),
		middleware.Recover(h.log),
	)
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Detail: "Not Found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorBody{Detail: "Method Not Allowed"})
	})

	if opts.Health != nil {
		r.GET("/healthz", healthz(opts.Health))
	}

	users := r.Group("/users")
	users.POST("", h.wrap(h.CreateUser))
	users.GET("", h.wrap(h.ListUsers))
	users.GET("/:id", h.wrap(h.GetUser))
	users.PUT("/:id", h.wrap(h.UpdateUser))
	users.DELETE("/:id", h.wrap(h.DeleteUser))

	rooms := r.Group("/rooms")
	rooms.POST("", h.wrap(h.CreateRoom))
	rooms.GET("", h.wrap(h.ListRooms))
	rooms.GET("/:id", h.wrap(h.GetRoom))
	rooms.PUT("/:id", h.wrap(h.UpdateRoom))
	rooms.DELETE("/:id", h.wrap(h.DeleteRoom))

	apts := r.Group("/appointments")
	apts.POST("", h.wrap(h.CreateAppointment))
	apts.GET("", h.wrap(h.ListAppointments))
	apts.GET("/:id", h.wrap(h.GetAppointment))
	apts.PUT("/:id", h.wrap(h.UpdateAppointment))
	apts.DELETE("/:id", h.wrap(h.DeleteAppointment))

	return r
}

func healthz(hc HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := hc.Check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
