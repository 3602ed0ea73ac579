package productions

import (
	"strconv"
	"time"

	prodsvc "seedtrace-backend/internal/application/productions"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/response"
	"seedtrace-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *prodsvc.Service
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("id must be numeric", "id")
	}
	return uint(id), nil
}

type createProductionBody struct {
	LotID           string  `json:"lot_id"`
	ParcelID        uint    `json:"parcel_id"`
	MultiplierID    uint    `json:"multiplier_id"`
	StartDate       string  `json:"start_date"`
	SowingDate      *string `json:"sowing_date"`
	PlannedQuantity float64 `json:"planned_quantity"`
	Notes           string  `json:"notes"`
}

// CreateProduction POST /api/v1/productions
func (h *Handlers) CreateProduction(c *fiber.Ctx) error {
	var body createProductionBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	if body.LotID == "" || body.ParcelID == 0 || body.MultiplierID == 0 {
		return apperrors.Validation("lot_id, parcel_id and multiplier_id are required", "")
	}
	startDate, err := validation.ParseDate(body.StartDate)
	if err != nil {
		return apperrors.Validation("start_date must be an ISO-8601 date", "start_date")
	}
	var sowing *time.Time
	if body.SowingDate != nil && *body.SowingDate != "" {
		t, err := validation.ParseDate(*body.SowingDate)
		if err != nil {
			return apperrors.Validation("sowing_date must be an ISO-8601 date", "sowing_date")
		}
		sowing = &t
	}

	p, err := h.Service.CreateProduction(c.Context(), prodsvc.CreateProductionInput{
		LotID:           body.LotID,
		ParcelID:        body.ParcelID,
		MultiplierID:    body.MultiplierID,
		StartDate:       startDate,
		SowingDate:      sowing,
		PlannedQuantity: body.PlannedQuantity,
		Notes:           body.Notes,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Production created", p, nil)
}

// GetProduction GET /api/v1/productions/:id
func (h *Handlers) GetProduction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.Service.GetProduction(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Production retrieved", p, nil)
}

// ListProductions GET /api/v1/productions
func (h *Handlers) ListProductions(c *fiber.Ctx) error {
	list, err := h.Service.ListProductions(c.Context(), c.Query("status"), c.Query("lotId"))
	if err != nil {
		return err
	}
	return response.Success(c, "Productions retrieved", list, fiber.Map{"count": len(list)})
}

type updateProductionBody struct {
	SowingDate      *string  `json:"sowing_date"`
	PlannedQuantity *float64 `json:"planned_quantity"`
	Status          *string  `json:"status"`
	Notes           *string  `json:"notes"`
}

// UpdateProduction PUT /api/v1/productions/:id
func (h *Handlers) UpdateProduction(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body updateProductionBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	in := prodsvc.UpdateProductionInput{
		PlannedQuantity: body.PlannedQuantity,
		Status:          body.Status,
		Notes:           body.Notes,
	}
	if body.SowingDate != nil && *body.SowingDate != "" {
		t, err := validation.ParseDate(*body.SowingDate)
		if err != nil {
			return apperrors.Validation("sowing_date must be an ISO-8601 date", "sowing_date")
		}
		in.SowingDate = &t
	}
	p, err := h.Service.UpdateProduction(c.Context(), id, in)
	if err != nil {
		return err
	}
	return response.Success(c, "Production updated", p, nil)
}

type harvestBody struct {
	HarvestDate   string  `json:"harvest_date"`
	YieldQuantity float64 `json:"yield_quantity"`
}

// Harvest POST /api/v1/productions/:id/harvest
func (h *Handlers) Harvest(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body harvestBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	var harvestDate time.Time
	if body.HarvestDate != "" {
		harvestDate, err = validation.ParseDate(body.HarvestDate)
		if err != nil {
			return apperrors.Validation("harvest_date must be an ISO-8601 date", "harvest_date")
		}
	}
	p, err := h.Service.Harvest(c.Context(), id, harvestDate, body.YieldQuantity)
	if err != nil {
		return err
	}
	return response.Success(c, "Harvest recorded", p, nil)
}
