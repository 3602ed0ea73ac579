package varieties

import (
	varsvc "seedtrace-backend/internal/application/varieties"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *varsvc.Service
}

type createVarietyBody struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	CropType       string   `json:"crop_type"`
	Description    string   `json:"description"`
	MaturityDays   int      `json:"maturity_days"`
	YieldPotential *float64 `json:"yield_potential"`
	Origin         string   `json:"origin"`
	ReleaseYear    *int     `json:"release_year"`
}

// CreateVariety POST /api/v1/varieties
func (h *Handlers) CreateVariety(c *fiber.Ctx) error {
	var body createVarietyBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	v, err := h.Service.CreateVariety(c.Context(), varsvc.CreateVarietyInput{
		Code:           body.Code,
		Name:           body.Name,
		CropType:       body.CropType,
		Description:    body.Description,
		MaturityDays:   body.MaturityDays,
		YieldPotential: body.YieldPotential,
		Origin:         body.Origin,
		ReleaseYear:    body.ReleaseYear,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Variety created", v, nil)
}

// GetVariety GET /api/v1/varieties/:id — accepts numeric ID or code.
func (h *Handlers) GetVariety(c *fiber.Ctx) error {
	v, err := h.Service.GetVariety(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.Success(c, "Variety retrieved", v, nil)
}

// ListVarieties GET /api/v1/varieties
func (h *Handlers) ListVarieties(c *fiber.Ctx) error {
	list, err := h.Service.ListVarieties(c.Context(), c.Query("cropType"), c.QueryBool("includeInactive"))
	if err != nil {
		return err
	}
	return response.Success(c, "Varieties retrieved", list, fiber.Map{"count": len(list)})
}

type updateVarietyBody struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	MaturityDays   *int     `json:"maturity_days"`
	YieldPotential *float64 `json:"yield_potential"`
	Origin         *string  `json:"origin"`
	IsActive       *bool    `json:"is_active"`
}

// UpdateVariety PUT /api/v1/varieties/:id
func (h *Handlers) UpdateVariety(c *fiber.Ctx) error {
	var body updateVarietyBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	v, err := h.Service.UpdateVariety(c.Context(), c.Params("id"), varsvc.UpdateVarietyInput{
		Name:           body.Name,
		Description:    body.Description,
		MaturityDays:   body.MaturityDays,
		YieldPotential: body.YieldPotential,
		Origin:         body.Origin,
		IsActive:       body.IsActive,
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Variety updated", v, nil)
}

// DeleteVariety DELETE /api/v1/varieties/:id
func (h *Handlers) DeleteVariety(c *fiber.Ctx) error {
	if err := h.Service.DeleteVariety(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return response.Success(c, "Variety deleted", fiber.Map{"deleted": true}, nil)
}
