package multipliers

import (
	"strconv"

	multsvc "seedtrace-backend/internal/application/multipliers"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *multsvc.Service
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("id must be numeric", "id")
	}
	return uint(id), nil
}

type createMultiplierBody struct {
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	YearsExperience    int      `json:"years_experience"`
	CertificationLevel string   `json:"certification_level"`
	Specialization     string   `json:"specialization"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
}

// CreateMultiplier POST /api/v1/multipliers
func (h *Handlers) CreateMultiplier(c *fiber.Ctx) error {
	var body createMultiplierBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	m, err := h.Service.CreateMultiplier(c.Context(), multsvc.CreateMultiplierInput{
		Name:               body.Name,
		Address:            body.Address,
		Latitude:           body.Latitude,
		Longitude:          body.Longitude,
		YearsExperience:    body.YearsExperience,
		CertificationLevel: body.CertificationLevel,
		Specialization:     body.Specialization,
		Phone:              body.Phone,
		Email:              body.Email,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Multiplier created", m, nil)
}

// GetMultiplier GET /api/v1/multipliers/:id
func (h *Handlers) GetMultiplier(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	m, err := h.Service.GetMultiplier(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Multiplier retrieved", m, nil)
}

// ListMultipliers GET /api/v1/multipliers
func (h *Handlers) ListMultipliers(c *fiber.Ctx) error {
	list, err := h.Service.ListMultipliers(c.Context(), c.Query("status"))
	if err != nil {
		return err
	}
	return response.Success(c, "Multipliers retrieved", list, fiber.Map{"count": len(list)})
}

type updateMultiplierBody struct {
	Name               *string `json:"name"`
	Status             *string `json:"status"`
	Address            *string `json:"address"`
	YearsExperience    *int    `json:"years_experience"`
	CertificationLevel *string `json:"certification_level"`
	Specialization     *string `json:"specialization"`
	Phone              *string `json:"phone"`
	Email              *string `json:"email"`
}

// UpdateMultiplier PUT /api/v1/multipliers/:id
func (h *Handlers) UpdateMultiplier(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body updateMultiplierBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	m, err := h.Service.UpdateMultiplier(c.Context(), id, multsvc.UpdateMultiplierInput{
		Name:               body.Name,
		Status:             body.Status,
		Address:            body.Address,
		YearsExperience:    body.YearsExperience,
		CertificationLevel: body.CertificationLevel,
		Specialization:     body.Specialization,
		Phone:              body.Phone,
		Email:              body.Email,
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Multiplier updated", m, nil)
}

// DeleteMultiplier DELETE /api/v1/multipliers/:id
func (h *Handlers) DeleteMultiplier(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	deactivated, err := h.Service.DeleteMultiplier(c.Context(), id)
	if err != nil {
		return err
	}
	msg := "Multiplier deleted"
	if deactivated {
		msg = "Multiplier has history and was deactivated"
	}
	return response.Success(c, msg, fiber.Map{"deactivated": deactivated}, nil)
}

// ListDistributedLots GET /api/v1/multipliers/:id/lots
func (h *Handlers) ListDistributedLots(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	list, err := h.Service.ListDistributedLots(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Distributed lots retrieved", list, fiber.Map{"count": len(list)})
}
