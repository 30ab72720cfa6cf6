package controllers

import (
	"context"
	"net/http"
	"time"

	"taskmanager/backend/app/dto"
	"taskmanager/backend/app/response"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HTTPController struct{ Store pinger }

func NewHTTPController(store pinger) *HTTPController {
	return &HTTPController{Store: store}
}

func (c *HTTPController) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Welcome to my API!"})
}

func (c *HTTPController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := c.Store.Ping(ctx); err != nil {
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
