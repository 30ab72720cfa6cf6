package controllers

import (
	"net/http"

	"taskmanager/backend/app/dto"
	"taskmanager/backend/app/middleware"
	"taskmanager/backend/app/response"
	"taskmanager/backend/app/services"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	u, err := c.Auth.Register(r.Context(), services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.NewUserResponse(u))
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	token, u, err := c.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer", User: dto.NewUserResponse(u)})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.NewUserResponse(middleware.GetCaller(r.Context())))
}
