package handler

import (
	"github.com/gofiber/fiber/v2"

	"travelapi/internal/http/middleware"
	"travelapi/internal/model"
	"travelapi/internal/service"
)

// ListTodos returns the caller's todos.
//
// @Summary   List todos
// @Tags      todos
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array} model.Todo
// @Router    /api/todos [get]
func ListTodos(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		todos, err := svc.List(c.UserContext(), middleware.ClaimsFrom(c).UserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(todos)
	}
}

// CreateTodo adds a todo for the caller.
//
// @Summary   Create todo
// @Tags      todos
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body service.CreateTodoInput true "todo"
// @Success   200 {object} model.Todo
// @Failure   400 {object} errorPayload
// @Router    /api/todos [post]
func CreateTodo(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateTodoInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		todo, err := svc.Create(c.UserContext(), middleware.ClaimsFrom(c).UserID, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(todo)
	}
}

// UpdateTodo patches one of the caller's todos. Only title, description, priority,
// dueDate and completed are read from the body.
//
// @Summary   Update todo
// @Tags      todos
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path string          true "todo id"
// @Param     body body model.TodoPatch true "fields to change"
// @Success   200 {object} model.Todo
// @Failure   404 {object} errorPayload
// @Router    /api/todos/{id} [put]
func UpdateTodo(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.TodoPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		todo, err := svc.Update(c.UserContext(), middleware.ClaimsFrom(c).UserID, c.Params("id"), patch)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(todo)
	}
}

// DeleteTodo removes one of the caller's todos.
//
// @Summary   Delete todo
// @Tags      todos
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "todo id"
// @Success   200 {object} map[string]bool
// @Failure   404 {object} errorPayload
// @Router    /api/todos/{id} [delete]
func DeleteTodo(svc service.TodoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), middleware.ClaimsFrom(c).UserID, c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
