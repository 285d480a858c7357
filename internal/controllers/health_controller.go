package controllers

import (
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Sitara-Husain/ECommerce/internal/dtos"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

type HealthController struct {
	pool *pgxpool.Pool
}

func NewHealthController(pool *pgxpool.Pool) *HealthController {
	return &HealthController{pool: pool}
}

func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	if err := c.pool.Ping(r.Context()); err != nil {
		utils.Logger.WithError(err).Error("health check failed")
		utils.RespondWithJSON(w, http.StatusServiceUnavailable, dtos.HealthCheckResponse{Status: "unavailable"})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "ok"})
}
