package constants

// Seed lot statuses.
const (
	LotPending     = "PENDING"
	LotCertified   = "CERTIFIED"
	LotRejected    = "REJECTED"
	LotInStock     = "IN_STOCK"
	LotActive      = "ACTIVE"
	LotDistributed = "DISTRIBUTED"
	LotSold        = "SOLD"
)

// LotStatuses lists all valid seed lot statuses.
var LotStatuses = []string{LotPending, LotCertified, LotRejected, LotInStock, LotActive, LotDistributed, LotSold}

// Parcel statuses.
const (
	ParcelAvailable = "AVAILABLE"
	ParcelInUse     = "IN_USE"
	ParcelResting   = "RESTING"
)

// Production statuses.
const (
	ProductionPlanned    = "PLANNED"
	ProductionInProgress = "IN_PROGRESS"
	ProductionCompleted  = "COMPLETED"
	ProductionCancelled  = "CANCELLED"
)

// Quality control results.
const (
	QCPass = "PASS"
	QCFail = "FAIL"
)

// Multiplier statuses and certification levels.
const (
	MultiplierActive   = "ACTIVE"
	MultiplierInactive = "INACTIVE"

	CertBeginner     = "BEGINNER"
	CertIntermediate = "INTERMEDIATE"
	CertExpert       = "EXPERT"
)

// Crop types for varieties.
var CropTypes = []string{"RICE", "MAIZE", "PEANUT", "SORGHUM", "COWPEA", "MILLET", "WHEAT"}

// IsValidLotStatus reports whether the token is a defined lot status.
func IsValidLotStatus(status string) bool {
	for _, s := range LotStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidCropType reports whether the token is a defined crop type.
func IsValidCropType(cropType string) bool {
	for _, t := range CropTypes {
		if t == cropType {
			return true
		}
	}
	return false
}
