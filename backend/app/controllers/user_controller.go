package controllers

import (
	"net/http"

	"taskmanager/backend/app/dto"
	"taskmanager/backend/app/response"
	"taskmanager/backend/app/services"
)

// UserController serves the admin-only user management routes.
type UserController struct{ Users *services.UserService }

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.Users.List(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.NewUserResponses(users))
}

func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	u, err := c.Users.Create(r.Context(), services.CreateUserInput{
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

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	u, err := c.Users.Update(r.Context(), r.PathValue("id"), services.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.NewUserResponse(u))
}

func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Users.Delete(r.Context(), r.PathValue("id")); err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
