package parcels

import (
	"strconv"

	parcelsvc "seedtrace-backend/internal/application/parcels"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *parcelsvc.Service
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, apperrors.Validation("id must be numeric", "id")
	}
	return uint(id), nil
}

type createParcelBody struct {
	Name             string   `json:"name"`
	Area             float64  `json:"area"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	SoilType         string   `json:"soil_type"`
	IrrigationSystem string   `json:"irrigation_system"`
	Address          string   `json:"address"`
	MultiplierID     *uint    `json:"multiplier_id"`
}

// CreateParcel POST /api/v1/parcels
func (h *Handlers) CreateParcel(c *fiber.Ctx) error {
	var body createParcelBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	p, err := h.Service.CreateParcel(c.Context(), parcelsvc.CreateParcelInput{
		Name:             body.Name,
		Area:             body.Area,
		Latitude:         body.Latitude,
		Longitude:        body.Longitude,
		SoilType:         body.SoilType,
		IrrigationSystem: body.IrrigationSystem,
		Address:          body.Address,
		MultiplierID:     body.MultiplierID,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Parcel created", p, nil)
}

// GetParcel GET /api/v1/parcels/:id
func (h *Handlers) GetParcel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.Service.GetParcel(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, "Parcel retrieved", p, nil)
}

// ListParcels GET /api/v1/parcels
func (h *Handlers) ListParcels(c *fiber.Ctx) error {
	list, err := h.Service.ListParcels(c.Context(), c.Query("status"))
	if err != nil {
		return err
	}
	return response.Success(c, "Parcels retrieved", list, fiber.Map{"count": len(list)})
}

type updateParcelBody struct {
	Name             *string  `json:"name"`
	Area             *float64 `json:"area"`
	Status           *string  `json:"status"`
	SoilType         *string  `json:"soil_type"`
	IrrigationSystem *string  `json:"irrigation_system"`
	Address          *string  `json:"address"`
	MultiplierID     *uint    `json:"multiplier_id"`
}

// UpdateParcel PUT /api/v1/parcels/:id
func (h *Handlers) UpdateParcel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body updateParcelBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	p, err := h.Service.UpdateParcel(c.Context(), id, parcelsvc.UpdateParcelInput{
		Name:             body.Name,
		Area:             body.Area,
		Status:           body.Status,
		SoilType:         body.SoilType,
		IrrigationSystem: body.IrrigationSystem,
		Address:          body.Address,
		MultiplierID:     body.MultiplierID,
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Parcel updated", p, nil)
}

// DeleteParcel DELETE /api/v1/parcels/:id
func (h *Handlers) DeleteParcel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Service.DeleteParcel(c.Context(), id); err != nil {
		return err
	}
	return response.Success(c, "Parcel deleted", fiber.Map{"deleted": true}, nil)
}
