package distributions

import (
	"strconv"
	"time"

	distsvc "seedtrace-backend/internal/application/distributions"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/response"
	"seedtrace-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *distsvc.Service
}

type distributeBody struct {
	LotID            string  `json:"lot_id"`
	MultiplierID     uint    `json:"multiplier_id"`
	Quantity         float64 `json:"quantity"`
	DistributionDate string  `json:"distribution_date"`
}

// Distribute POST /api/v1/distributions
func (h *Handlers) Distribute(c *fiber.Ctx) error {
	var body distributeBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	if body.LotID == "" || body.MultiplierID == 0 {
		return apperrors.Validation("lot_id and multiplier_id are required", "")
	}
	var date time.Time
	if body.DistributionDate != "" {
		var err error
		date, err = validation.ParseDate(body.DistributionDate)
		if err != nil {
			return apperrors.Validation("distribution_date must be an ISO-8601 date", "distribution_date")
		}
	}

	result, err := h.Service.Distribute(c.Context(), distsvc.DistributeInput{
		LotID:            body.LotID,
		MultiplierID:     body.MultiplierID,
		Quantity:         body.Quantity,
		DistributionDate: date,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Lot distributed", result, nil)
}

// ListDistributions GET /api/v1/distributions
func (h *Handlers) ListDistributions(c *fiber.Ctx) error {
	f := distsvc.ListFilter{LotID: c.Query("lotId")}
	if v := c.Query("multiplierId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return apperrors.Validation("multiplierId must be numeric", "multiplierId")
		}
		mid := uint(id)
		f.MultiplierID = &mid
	}
	list, err := h.Service.ListDistributions(c.Context(), f)
	if err != nil {
		return err
	}
	return response.Success(c, "Distributions retrieved", list, fiber.Map{"count": len(list)})
}
