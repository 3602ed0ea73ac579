package qualitycontrols

import (
	"encoding/json"
	"strconv"
	"time"

	qcsvc "seedtrace-backend/internal/application/qualitycontrols"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/response"
	"seedtrace-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type Handlers struct {
	Service *qcsvc.Service
}

type createControlBody struct {
	LotID           string          `json:"lot_id"`
	ControlDate     string          `json:"control_date"`
	GerminationRate float64         `json:"germination_rate"`
	VarietyPurity   float64         `json:"variety_purity"`
	MoistureContent *float64        `json:"moisture_content"`
	Result          string          `json:"result"`
	Observations    string          `json:"observations"`
	TestResults     json.RawMessage `json:"test_results"`
	Inspector       string          `json:"inspector"`
}

// CreateControl POST /api/v1/quality-controls
func (h *Handlers) CreateControl(c *fiber.Ctx) error {
	var body createControlBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.Validation("invalid request body", "")
	}
	if body.LotID == "" {
		return apperrors.Validation("lot_id is required", "lot_id")
	}
	var controlDate time.Time
	if body.ControlDate != "" {
		var err error
		controlDate, err = validation.ParseDate(body.ControlDate)
		if err != nil {
			return apperrors.Validation("control_date must be an ISO-8601 date", "control_date")
		}
	}

	qc, err := h.Service.CreateControl(c.Context(), qcsvc.CreateControlInput{
		LotID:           body.LotID,
		ControlDate:     controlDate,
		GerminationRate: body.GerminationRate,
		VarietyPurity:   body.VarietyPurity,
		MoistureContent: body.MoistureContent,
		Result:          body.Result,
		Observations:    body.Observations,
		TestResults:     datatypes.JSON(body.TestResults),
		Inspector:       body.Inspector,
	})
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Quality control recorded", qc, nil)
}

// GetControl GET /api/v1/quality-controls/:id
func (h *Handlers) GetControl(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return apperrors.Validation("id must be numeric", "id")
	}
	qc, err := h.Service.GetControl(c.Context(), uint(id))
	if err != nil {
		return err
	}
	return response.Success(c, "Quality control retrieved", qc, nil)
}

// ListControls GET /api/v1/quality-controls
func (h *Handlers) ListControls(c *fiber.Ctx) error {
	list, err := h.Service.ListControls(c.Context(), c.Query("lotId"), c.Query("result"))
	if err != nil {
		return err
	}
	return response.Success(c, "Quality controls retrieved", list, fiber.Map{"count": len(list)})
}
