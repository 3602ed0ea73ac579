package lots

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"seedtrace-backend/internal/domain"

	qrcode "github.com/skip2/go-qrcode"
)

// qrPayload renders the lot identification QR code as a base64 PNG data URL.
// The encoded payload carries the lot identity plus a verification link so
// scanning works both offline and against the dashboard.
func qrPayload(baseURL string, lot *domain.SeedLot, varietyCode string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"lot_id":          lot.ID,
		"variety":         varietyCode,
		"level":           lot.Level,
		"quantity":        lot.Quantity,
		"production_date": lot.ProductionDate.Format("2006-01-02"),
		"verify_url":      fmt.Sprintf("%s/lots/%s", baseURL, lot.ID),
	})
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RegenerateQR rebuilds and stores the QR payload for an existing lot,
// e.g. after the verification base URL changes.
func (s *Service) RegenerateQR(ctx context.Context, id string) (*domain.SeedLot, error) {
	lot, err := s.GetLot(ctx, id)
	if err != nil {
		return nil, err
	}
	code := ""
	if lot.Variety != nil {
		code = lot.Variety.Code
	}
	qr, err := qrPayload(s.QRBaseURL, lot, code)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(lot).Update("qr_code", qr).Error; err != nil {
		return nil, err
	}
	lot.QRCode = qr
	return lot, nil
}
