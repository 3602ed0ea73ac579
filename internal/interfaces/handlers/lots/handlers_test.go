package lots

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	lotsvc "seedtrace-backend/internal/application/lots"
	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/middleware"
	"seedtrace-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLotsApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.SeedVariety{}, &domain.SeedLot{}, &domain.LotSequence{},
		&domain.Multiplier{}, &domain.Parcel{}, &domain.Production{},
		&domain.DistributedLot{}, &domain.QualityControl{},
	))

	v := domain.SeedVariety{Code: "SAHEL108", Name: "Sahel 108", CropType: "RICE", IsActive: true}
	require.NoError(t, db.Create(&v).Error)

	h := &Handlers{Service: &lotsvc.Service{DB: db, QRBaseURL: "https://trace.example.org"}}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(nil)})
	app.Post("/lots", h.CreateLot)
	app.Get("/lots/stats", h.GetStats)
	app.Get("/lots/:id", h.GetLot)
	app.Get("/lots/:id/genealogy", h.GetGenealogy)
	app.Get("/lots/:id/qr", h.GetQR)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload map[string]interface{}) (int, map[string]interface{}) {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func TestCreateLotEndpoint_Success(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, result := postJSON(t, app, "/lots", map[string]interface{}{
		"variety_id":      1,
		"level":           constants.LevelGO,
		"quantity":        100,
		"production_date": "2023-03-15",
	})
	assert.Equal(t, 201, status)
	assert.Equal(t, "success", result["status"])
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "SA-GO-2023-001", data["id"])
}

func TestCreateLotEndpoint_MissingVariety(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, result := postJSON(t, app, "/lots", map[string]interface{}{
		"level":           constants.LevelGO,
		"quantity":        100,
		"production_date": "2023-03-15",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "error", result["status"])
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestCreateLotEndpoint_SkippedGenerationIs422(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, result := postJSON(t, app, "/lots", map[string]interface{}{
		"variety_id":      1,
		"level":           constants.LevelGO,
		"quantity":        100,
		"production_date": "2023-03-15",
		"status":          constants.LotActive,
	})
	require.Equal(t, 201, status)
	parentID := result["data"].(map[string]interface{})["id"].(string)

	status, result = postJSON(t, app, "/lots", map[string]interface{}{
		"variety_id":      1,
		"level":           constants.LevelG2,
		"quantity":        10,
		"production_date": "2024-03-15",
		"parent_lot_id":   parentID,
	})
	assert.Equal(t, 422, status)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "LINEAGE_VIOLATION", errObj["code"])
}

func TestCreateLotEndpoint_InsufficientStockIs409(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, result := postJSON(t, app, "/lots", map[string]interface{}{
		"variety_id":      1,
		"level":           constants.LevelGO,
		"quantity":        40,
		"production_date": "2023-03-15",
		"status":          constants.LotActive,
	})
	require.Equal(t, 201, status)
	parentID := result["data"].(map[string]interface{})["id"].(string)

	status, result = postJSON(t, app, "/lots", map[string]interface{}{
		"variety_id":      1,
		"level":           constants.LevelG1,
		"quantity":        50,
		"production_date": "2024-03-15",
		"parent_lot_id":   parentID,
	})
	assert.Equal(t, 409, status)
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "INSUFFICIENT_STOCK", errObj["code"])
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, 40.0, details["available"])
	assert.Equal(t, 50.0, details["requested"])
}

func TestGetLotEndpoint_NotFound(t *testing.T) {
	app, _ := setupLotsApp(t)

	req := httptest.NewRequest("GET", "/lots/SA-GO-2023-999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestGenealogyEndpoint_ReturnsChain(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, result := postJSON(t, app, "/lots", map[string]interface{}{
		"variety_id":      1,
		"level":           constants.LevelGO,
		"quantity":        100,
		"production_date": "2023-03-15",
		"status":          constants.LotActive,
	})
	require.Equal(t, 201, status)
	parentID := result["data"].(map[string]interface{})["id"].(string)

	status, result = postJSON(t, app, "/lots", map[string]interface{}{
		"variety_id":      1,
		"level":           constants.LevelG1,
		"quantity":        50,
		"production_date": "2024-03-15",
		"parent_lot_id":   parentID,
	})
	require.Equal(t, 201, status)
	childID := result["data"].(map[string]interface{})["id"].(string)

	req := httptest.NewRequest("GET", "/lots/"+childID+"/genealogy", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	data := got["data"].(map[string]interface{})
	ancestors := data["ancestors"].([]interface{})
	require.Len(t, ancestors, 1)
	assert.Equal(t, parentID, ancestors[0].(map[string]interface{})["id"])
}

func TestQREndpoint_ReturnsDataURL(t *testing.T) {
	app, _ := setupLotsApp(t)

	status, result := postJSON(t, app, "/lots", map[string]interface{}{
		"variety_id":      1,
		"level":           constants.LevelGO,
		"quantity":        100,
		"production_date": "2023-03-15",
	})
	require.Equal(t, 201, status)
	id := result["data"].(map[string]interface{})["id"].(string)

	req := httptest.NewRequest("GET", "/lots/"+id+"/qr", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	data := got["data"].(map[string]interface{})
	assert.Equal(t, id, data["lot_id"])
	assert.Contains(t, data["qr_code"], "data:image/png;base64,")
}
