package features

import (
	"math"

	"github.com/himanishpuri/PhysioFeat/pkg/models"
)

// Assemble builds one feature row. Every schema column is present, NaN
// where no extractor produced a value. Task metrics are copied in as
// given; callers keep their names disjoint from the schema.
func Assemble(id models.Identity, metrics map[string]float64, sets ...Set) models.FeatureRecord {
	row := make(map[string]float64, len(Schema)+len(metrics))
	for _, k := range Schema {
		row[k] = math.NaN()
	}
	for _, s := range sets {
		for k, v := range s {
			row[k] = v.Float()
		}
	}
	for k, v := range metrics {
		row[k] = v
	}
	return models.FeatureRecord{Identity: id, Features: row}
}
