package controllers

import (
	"net/http"

	"taskmanager/backend/app/dto"
	"taskmanager/backend/app/middleware"
	"taskmanager/backend/app/response"
	"taskmanager/backend/app/services"
)

type DashboardController struct{ Dashboard *services.DashboardService }

func NewDashboardController(d *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: d}
}

func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Dashboard.StatsFor(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.NewStatsResponse(stats))
}
