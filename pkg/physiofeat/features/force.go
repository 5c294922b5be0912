package features

import (
	"fmt"
	"math"

	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/dsp"
	"github.com/himanishpuri/PhysioFeat/pkg/physiofeat/recording"
)

// Force summarises the grip sensor. Thumb and Index are two channels of
// one physical sensor, so their per-sample magnitudes are added rather
// than combined as vectors. Any absent component yields an empty Set and
// ErrMissingInput. Components of unequal length are truncated to the
// shortest.
func Force(f *recording.Force) (Set, error) {
	if !f.Complete() {
		return Set{}, fmt.Errorf("force: %w", ErrMissingInput)
	}

	n := f.Len()
	if n == 0 {
		return Set{
			KeyForceMean: Insufficient("no force samples"),
			KeyForceMax:  Insufficient("no force samples"),
		}, nil
	}

	total := make([]float64, n)
	for i := range total {
		total[i] = magnitude(f.Thumb, i) + magnitude(f.Index, i)
	}

	return Set{
		KeyForceMean: Of(dsp.Mean(total)),
		KeyForceMax:  Of(dsp.Max(total)),
	}, nil
}

func magnitude(a recording.Axis3, i int) float64 {
	return math.Sqrt(a.X[i]*a.X[i] + a.Y[i]*a.Y[i] + a.Z[i]*a.Z[i])
}
