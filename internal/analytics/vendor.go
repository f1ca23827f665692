package analytics

import (
	"math"
	"time"

	"github.com/buildsight/backend/internal/storage/models"
)

// Placeholder vendor performance values used when no delivery tracking data
// exists for the project.
const (
	defaultOnTimeDeliveryRate = 90.0
	defaultVendorQualityScore = 85.0
	defaultCostEfficiency     = 80.0
)

// ExtractVendor counts distinct suppliers and rates their performance from
// delivery tracking rows. Without deliveries the rates fall back to the
// documented defaults and the record is tagged SourceDefault so consumers can
// tell placeholders from measurements.
func ExtractVendor(snap *models.ProjectSnapshot, now time.Time) (VendorMetrics, error) {
	suppliers := make(map[string]struct{})
	for _, item := range snap.BudgetItems {
		if item.SupplierID != "" {
			suppliers[item.SupplierID] = struct{}{}
		}
	}

	m := VendorMetrics{TotalVendors: len(suppliers)}

	if len(snap.Deliveries) == 0 {
		m.OnTimeDeliveryRate = defaultOnTimeDeliveryRate
		m.QualityScore = defaultVendorQualityScore
		m.CostEfficiency = defaultCostEfficiency
		m.Source = SourceDefault
		return m, nil
	}

	onTime := 0
	var ratingSum, varianceSum float64
	for _, d := range snap.Deliveries {
		if d.DeliveredAt != nil && !d.DeliveredAt.After(d.PromisedAt) {
			onTime++
		}
		ratingSum += d.QualityRating
		varianceSum += math.Abs(d.CostVariancePct)
	}

	total := float64(len(snap.Deliveries))
	m.OnTimeDeliveryRate = 100 * float64(onTime) / total
	// Quality ratings are recorded on a 0-5 scale.
	m.QualityScore = clamp(ratingSum/total*20, 0, 100)
	m.CostEfficiency = clamp(100-varianceSum/total, 0, 100)
	m.Source = SourceMeasured

	return m, nil
}
