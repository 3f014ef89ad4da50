package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"task-management/internal/model"
	"task-management/internal/service"
)

const dateLayout = "2006-01-02"

type TaskHandler struct {
	service  *service.TaskService
	pageSize int
}

type taskRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Done        bool   `json:"done"`
	PersonaID   uint   `json:"personaId"`
}

type doneRequest struct {
	Done *bool `json:"done"`
}

// TaskResponse renders dueDate as a plain calendar date.
type TaskResponse struct {
	ID           uint           `json:"id"`
	Description  string         `json:"description"`
	CreationDate time.Time      `json:"creationDate"`
	DueDate      *string        `json:"dueDate"`
	Done         bool           `json:"done"`
	PersonaID    uint           `json:"personaId"`
	Persona      *model.Persona `json:"persona,omitempty"`
}

func NewTaskHandler(service *service.TaskService, pageSize int) *TaskHandler {
	return &TaskHandler{service: service, pageSize: pageSize}
}

func toTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:           task.ID,
		Description:  task.Description,
		CreationDate: task.CreationDate,
		Done:         task.Done,
		PersonaID:    task.PersonaID,
		Persona:      task.Persona,
	}
	if task.DueDate != nil {
		due := task.DueDate.Format(dateLayout)
		resp.DueDate = &due
	}
	return resp
}

func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	due, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &service.ValidationError{Field: "dueDate", Reason: "expected YYYY-MM-DD"}
	}
	return &due, nil
}

// List returns one page of tasks: ?page=0&size=20&order=desc|asc.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	page := model.PageOf(c.QueryInt("page", 0), c.QueryInt("size", h.pageSize))
	newestFirst := !strings.EqualFold(c.Query("order", "desc"), "asc")

	tasks, err := h.service.ListPage(c.UserContext(), page, newestFirst)
	if err != nil {
		return writeError(c, err)
	}
	data := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		data = append(data, toTaskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": data, "page": page.Page, "size": page.Size})
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	task, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": toTaskResponse(task)})
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return writeError(c, err)
	}

	task, err := h.service.Create(c.UserContext(), service.TaskInput{
		Description: req.Description,
		DueDate:     due,
		PersonaID:   req.PersonaID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": toTaskResponse(task)})
}

// Update replaces description, due date, done flag and persona of a task.
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return writeError(c, err)
	}

	task, err := h.service.Update(c.UserContext(), &model.Task{
		ID:          id,
		Description: req.Description,
		DueDate:     due,
		Done:        req.Done,
		PersonaID:   req.PersonaID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": toTaskResponse(task)})
}

// SetDone sets the done flag from {"done": bool}, or toggles it when the body is empty.
func (h *TaskHandler) SetDone(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req doneRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	var done bool
	if req.Done != nil {
		done = *req.Done
	} else {
		current, err := h.service.Get(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		done = !current.Done
	}

	task, err := h.service.SetDone(c.UserContext(), id, done)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": toTaskResponse(task)})
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
