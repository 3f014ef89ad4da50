package http

import (
	"github.com/gofiber/fiber/v2"

	"task-management/internal/model"
	"task-management/internal/service"
)

type PersonaHandler struct {
	service  *service.PersonaService
	pageSize int
}

type personaRequest struct {
	DNI      int    `json:"dni"`
	Apellido string `json:"apellido"`
	Nombre   string `json:"nombre"`
	Edad     *int   `json:"edad"`
}

func NewPersonaHandler(service *service.PersonaService, pageSize int) *PersonaHandler {
	return &PersonaHandler{service: service, pageSize: pageSize}
}

// List returns one page of personas: ?page=0&size=20.
func (h *PersonaHandler) List(c *fiber.Ctx) error {
	page := model.PageOf(c.QueryInt("page", 0), c.QueryInt("size", h.pageSize))
	personas, err := h.service.ListPage(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": personas, "page": page.Page, "size": page.Size})
}

func (h *PersonaHandler) ListAll(c *fiber.Ctx) error {
	personas, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": personas})
}

func (h *PersonaHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	persona, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": persona})
}

func (h *PersonaHandler) Create(c *fiber.Ctx) error {
	var req personaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	persona, err := h.service.Create(c.UserContext(), service.PersonaInput{
		DNI:      req.DNI,
		Apellido: req.Apellido,
		Nombre:   req.Nombre,
		Edad:     req.Edad,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": persona})
}

// Update replaces the whole persona with the request body.
func (h *PersonaHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req personaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	persona, err := h.service.Update(c.UserContext(), &model.Persona{
		ID:       id,
		DNI:      req.DNI,
		Apellido: req.Apellido,
		Nombre:   req.Nombre,
		Edad:     req.Edad,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"data": persona})
}

func (h *PersonaHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
