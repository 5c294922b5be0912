package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himanishpuri/PhysioFeat/pkg/models"
)

func TestAssembleFillsSchema(t *testing.T) {
	id := models.Identity{SubjectID: 7, Condition: "C", Round: 2}
	metrics := map[string]float64{"Task_RT_Mean": 812.5}

	rec := Assemble(id, metrics,
		Set{KeyHRMean: Of(72)},
		Set{KeyRespRate: Insufficient("no breaths")},
	)

	assert.Equal(t, id, rec.Identity)
	assert.Empty(t, rec.ID)
	require.Len(t, rec.Features, len(Schema)+1)

	assert.Equal(t, 72.0, rec.Features[KeyHRMean])
	assert.Equal(t, 812.5, rec.Features["Task_RT_Mean"])
	assert.True(t, math.IsNaN(rec.Features[KeyRespRate]))
	assert.True(t, math.IsNaN(rec.Features[KeyForceMax]))
}

func TestAssembleNoSources(t *testing.T) {
	rec := Assemble(models.Identity{SubjectID: 1, Condition: "A", Round: 1}, nil)
	require.Len(t, rec.Features, len(Schema))
	for _, k := range Schema {
		assert.True(t, math.IsNaN(rec.Features[k]), k)
	}
}

func TestValue(t *testing.T) {
	assert.True(t, Of(1).Valid)
	assert.False(t, Of(math.Inf(1)).Valid)
	assert.False(t, Of(math.NaN()).Valid)
	assert.True(t, math.IsNaN(Insufficient("x").Float()))

	s := Set{"a": Of(1), "b": Insufficient("why"), "c": Of(math.NaN())}
	assert.Equal(t, []string{"b", "c"}, s.Invalid())
	f := s.Floats()
	assert.Equal(t, 1.0, f["a"])
	assert.True(t, math.IsNaN(f["b"]))
}

func TestInSchema(t *testing.T) {
	assert.True(t, InSchema(KeyEDAPower005))
	assert.False(t, InSchema("Task_RT_Mean"))
}
