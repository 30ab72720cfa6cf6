package controllers

import (
	"net/http"

	"taskmanager/backend/app/dto"
	"taskmanager/backend/app/middleware"
	"taskmanager/backend/app/response"
	"taskmanager/backend/app/services"
)

type TaskController struct{ Tasks *services.TaskService }

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{Tasks: tasks}
}

func (c *TaskController) List(w http.ResponseWriter, r *http.Request) {
	views, err := c.Tasks.ListFor(r.Context(), middleware.GetCaller(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.NewTaskResponses(views))
}

func (c *TaskController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	v, err := c.Tasks.Create(r.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Deadline:    req.Deadline.Time,
	}, middleware.GetCaller(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.NewTaskResponse(v))
}

func (c *TaskController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTaskRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}
	v, err := c.Tasks.Update(r.Context(), r.PathValue("id"), req.Input(), middleware.GetCaller(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.NewTaskResponse(v))
}

func (c *TaskController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Tasks.Delete(r.Context(), r.PathValue("id")); err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}
