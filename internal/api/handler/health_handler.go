package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dndvault/character-api/internal/core/recovery"
)

// HealthHandler handles GET /health — liveness check.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Check pings one dependency.
type Check func(ctx context.Context) error

// ReadinessHandler handles GET /health/ready — readiness check.
// Runs every dependency check and reports the data store circuit breaker.
// Check failures are logged; the response only says which dependency is down.
type ReadinessHandler struct {
	checks  map[string]Check
	breaker *recovery.Breaker
	log     zerolog.Logger
}

func NewReadinessHandler(checks map[string]Check, breaker *recovery.Breaker, log zerolog.Logger) *ReadinessHandler {
	return &ReadinessHandler{checks: checks, breaker: breaker, log: log}
}

// MongoCheck pings the server and runs a ping command against the database.
func MongoCheck(db *mongo.Database) Check {
	return func(ctx context.Context) error {
		if err := db.Client().Ping(ctx, nil); err != nil {
			return err
		}
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}
}

func RedisCheck(rdb *redis.Client) Check {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
}

type breakerStatus struct {
	State               recovery.State `json:"state"`
	ConsecutiveFailures int64          `json:"consecutive_failures"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	Breaker      *breakerStatus              `json:"circuit_breaker,omitempty"`
}

// Readiness handles GET /health/ready.
//
// @Summary      Readiness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			deps[name] = dependencyStatus{Status: "unhealthy"}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	resp := readinessResponse{Dependencies: deps}
	if h.breaker != nil {
		state := h.breaker.State()
		resp.Breaker = &breakerStatus{
			State:               state,
			ConsecutiveFailures: h.breaker.ConsecutiveFailures(),
		}
		if state == recovery.StateOpen {
			healthy = false
		}
	}

	resp.Status = "ok"
	httpStatus := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, resp)
}
