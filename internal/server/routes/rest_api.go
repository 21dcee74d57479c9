package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/shiftgate/shiftgate/internal/usecase"
)

// DeploymentRequest is the JSON body accepted by POST /api/deployments.
// Durations are strings like "30s"; omitted windows and thresholds fall
// back to the server defaults.
type DeploymentRequest struct {
	Target                string  `json:"target"`
	Strategy              string  `json:"strategy"`
	Artifact              string  `json:"artifact"`
	Steps                 []int   `json:"steps"`
	ObservationWindow     string  `json:"observation_window"`
	Timeout               string  `json:"timeout"`
	MaxErrorRate          float64 `json:"max_error_rate"`
	MaxLatencyP99         string  `json:"max_latency_p99"`
	MinSaturationHeadroom float64 `json:"min_saturation_headroom"`
}

func (r DeploymentRequest) toConfig() (entity.DeploymentConfig, error) {
	cfg := entity.DeploymentConfig{
		Target:   r.Target,
		Strategy: entity.StrategyKind(r.Strategy),
		Artifact: r.Artifact,
		Steps:    r.Steps,
		Thresholds: entity.Thresholds{
			MaxErrorRate:          r.MaxErrorRate,
			MinSaturationHeadroom: r.MinSaturationHeadroom,
		},
	}
	var err error
	if cfg.ObservationWindow, err = parseDuration(r.ObservationWindow); err != nil {
		return cfg, err
	}
	if cfg.Timeout, err = parseDuration(r.Timeout); err != nil {
		return cfg, err
	}
	if cfg.Thresholds.MaxLatencyP99, err = parseDuration(r.MaxLatencyP99); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func RegisterRestAPI(injector *do.Injector, e *echo.Echo) {
	g := e.Group("/api")

	g.POST("/deployments", func(c echo.Context) error {
		var req DeploymentRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("malformed request body"))
		}
		cfg, err := req.toConfig()
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		}

		start := do.MustInvoke[usecase.StartDeploymentUsecase](injector)
		id, err := start.Execute(c.Request().Context(), cfg)
		if err != nil {
			return mapError(c, err)
		}

		type response struct {
			ID entity.ID `json:"id"`
		}
		return c.JSON(http.StatusCreated, &response{ID: id})
	})

	g.GET("/deployments", func(c echo.Context) error {
		list := do.MustInvoke[usecase.ListDeploymentsUsecase](injector)
		deployments, err := list.Execute(c.Request().Context(), c.QueryParam("target"))
		if err != nil {
			return mapError(c, err)
		}

		type response struct {
			Deployments []*entity.Deployment `json:"deployments"`
		}
		return c.JSON(http.StatusOK, &response{Deployments: deployments})
	})

	g.GET("/deployments/:id", func(c echo.Context) error {
		get := do.MustInvoke[usecase.GetDeploymentUsecase](injector)
		d, err := get.Execute(c.Request().Context(), entity.ID(c.Param("id")))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(http.StatusOK, d)
	})

	g.GET("/deployments/:id/transitions", func(c echo.Context) error {
		get := do.MustInvoke[usecase.GetTransitionsUsecase](injector)
		transitions, err := get.Execute(c.Request().Context(), entity.ID(c.Param("id")))
		if err != nil {
			return mapError(c, err)
		}

		type response struct {
			Transitions []entity.StateTransition `json:"transitions"`
		}
		return c.JSON(http.StatusOK, &response{Transitions: transitions})
	})

	g.POST("/deployments/:id/abort", func(c echo.Context) error {
		abort := do.MustInvoke[usecase.AbortDeploymentUsecase](injector)
		if err := abort.Execute(c.Request().Context(), entity.ID(c.Param("id"))); err != nil {
			return mapError(c, err)
		}
		return c.NoContent(http.StatusAccepted)
	})
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, entity.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, entity.ErrConflict):
		return c.JSON(http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, entity.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
}
