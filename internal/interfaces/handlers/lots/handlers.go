package lots

import (
	"strconv"
	"time"

	lotsvc "seedtrace-backend/internal/application/lots"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/response"
	"seedtrace-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *lotsvc.Service
}

type createLotBody struct {
	VarietyID      uint    `json:"variety_id"`
	Level          string  `json:"level"`
	Quantity       float64 `json:"quantity"`
	ProductionDate string  `json:"production_date"`
	ExpiryDate     *string `json:"expiry_date"`
	Status         string  `json:"status"`
	BatchNumber    string  `json:"batch_number"`
	Notes          string  `json:"notes"`
	ParentLotID    *string `json:"parent_lot_id"`
}

// CreateLot POST /api/v1/lots
func (h *Handlers) CreateLot(c *fiber.Ctx) error {
	var body createLotBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	if body.VarietyID == 0 {
		return apperrors.Validation("variety_id is required", "variety_id")
	}
	if body.ProductionDate == "" {
		return apperrors.Validation("production_date is required", "production_date")
	}
	prodDate, err := validation.ParseDate(body.ProductionDate)
	if err != nil {
		return apperrors.Validation("production_date must be an ISO-8601 date", "production_date")
	}
	var expiry *time.Time
	if body.ExpiryDate != nil && *body.ExpiryDate != "" {
		t, err := validation.ParseDate(*body.ExpiryDate)
		if err != nil {
			return apperrors.Validation("expiry_date must be an ISO-8601 date", "expiry_date")
		}
		expiry = &t
	}

	lot, err := h.Service.CreateLot(c.Context(), lotsvc.CreateLotInput{
		VarietyID:      body.VarietyID,
		Level:          body.Level,
		Quantity:       body.Quantity,
		ProductionDate: prodDate,
		ExpiryDate:     expiry,
		Status:         body.Status,
		BatchNumber:    body.BatchNumber,
		Notes:          body.Notes,
		ParentLotID:    body.ParentLotID,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Lot created", lot, nil)
}

// GetLot GET /api/v1/lots/:id
func (h *Handlers) GetLot(c *fiber.Ctx) error {
	lot, err := h.Service.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.Success(c, "Lot retrieved", lot, nil)
}

// ListLots GET /api/v1/lots
func (h *Handlers) ListLots(c *fiber.Ctx) error {
	f := lotsvc.ListLotsFilter{
		Level:           c.Query("level"),
		Status:          c.Query("status"),
		IncludeInactive: c.QueryBool("includeInactive"),
		Page:            c.QueryInt("page", 1),
		PageSize:        c.QueryInt("pageSize", 20),
	}
	if v := c.Query("varietyId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return apperrors.Validation("varietyId must be numeric", "varietyId")
		}
		vid := uint(id)
		f.VarietyID = &vid
	}

	list, total, err := h.Service.ListLots(c.Context(), f)
	if err != nil {
		return err
	}
	return response.Success(c, "Lots retrieved", list, fiber.Map{
		"total":    total,
		"page":     f.Page,
		"pageSize": f.PageSize,
	})
}

type updateLotBody struct {
	Quantity    *float64 `json:"quantity"`
	Status      *string  `json:"status"`
	Notes       *string  `json:"notes"`
	BatchNumber *string  `json:"batch_number"`
	ExpiryDate  *string  `json:"expiry_date"`
}

// UpdateLot PUT /api/v1/lots/:id
func (h *Handlers) UpdateLot(c *fiber.Ctx) error {
	var body updateLotBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	in := lotsvc.UpdateLotInput{
		Quantity:    body.Quantity,
		Status:      body.Status,
		Notes:       body.Notes,
		BatchNumber: body.BatchNumber,
	}
	if body.ExpiryDate != nil && *body.ExpiryDate != "" {
		t, err := validation.ParseDate(*body.ExpiryDate)
		if err != nil {
			return apperrors.Validation("expiry_date must be an ISO-8601 date", "expiry_date")
		}
		in.ExpiryDate = &t
	}

	lot, err := h.Service.UpdateLot(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return response.Success(c, "Lot updated", lot, nil)
}

// DeleteLot DELETE /api/v1/lots/:id
func (h *Handlers) DeleteLot(c *fiber.Ctx) error {
	deactivated, err := h.Service.DeleteLot(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	msg := "Lot deleted"
	if deactivated {
		msg = "Lot has dependent records and was deactivated"
	}
	return response.Success(c, msg, fiber.Map{"deactivated": deactivated}, nil)
}

// GetGenealogy GET /api/v1/lots/:id/genealogy
func (h *Handlers) GetGenealogy(c *fiber.Ctx) error {
	g, err := h.Service.GetGenealogy(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return response.Success(c, "Genealogy retrieved", g, fiber.Map{
		"ancestors":   len(g.Ancestors),
		"descendants": len(g.Descendants),
	})
}

// GetQR GET /api/v1/lots/:id/qr
func (h *Handlers) GetQR(c *fiber.Ctx) error {
	lot, err := h.Service.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if lot.QRCode == "" {
		lot, err = h.Service.RegenerateQR(c.Context(), lot.ID)
		if err != nil {
			return err
		}
	}
	return response.Success(c, "QR code retrieved", fiber.Map{
		"lot_id":  lot.ID,
		"qr_code": lot.QRCode,
	}, nil)
}

// GetStats GET /api/v1/lots/stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	stats, err := h.Service.GetStats(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Lot statistics retrieved", stats, nil)
}
