package calculation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleMoments(s Sampler, seed int64, n int, mean, sd float64) (float64, float64) {
	rng := rand.New(rand.NewSource(seed))
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := s.Sample(rng, mean, sd)
		sum += v
		sumSq += v * v
	}
	m := sum / float64(n)
	return m, math.Sqrt(sumSq/float64(n) - m*m)
}

func TestNormalSampler_Moments(t *testing.T) {
	mean, sd := sampleMoments(NormalSampler{}, 11, 200000, 0.05, 0.15)
	assert.InDelta(t, 0.05, mean, 0.002)
	assert.InEpsilon(t, 0.15, sd, 0.02)
}

func TestStudentTSampler_VarianceMatchesTarget(t *testing.T) {
	for _, df := range []float64{5, 8, 30} {
		mean, sd := sampleMoments(StudentTSampler{DegreesOfFreedom: df}, 23, 200000, 0.07, 0.15)
		assert.InDelta(t, 0.07, mean, 0.003, "df %.0f", df)
		assert.InEpsilon(t, 0.15, sd, 0.03, "df %.0f", df)
	}
}

func TestStudentTSampler_FallsBackToNormal(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		assert.Equal(t, NormalSampler{}.Sample(b, 0.05, 0.15), StudentTSampler{DegreesOfFreedom: 2}.Sample(a, 0.05, 0.15))
	}
}

func TestSampler_DeterministicForSeed(t *testing.T) {
	s := StudentTSampler{DegreesOfFreedom: 6.5}
	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		assert.Equal(t, s.Sample(a, 0, 1), s.Sample(b, 0, 1))
	}
}

func TestChiSquare_FractionalMean(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const n = 100000
	var sum float64
	for i := 0; i < n; i++ {
		sum += chiSquare(rng, 4.5)
	}
	assert.InDelta(t, 4.5, sum/n, 0.05)
}

func TestBoxMullerTransform(t *testing.T) {
	assert.InDelta(t, 0, boxMullerTransform(1, 0.3), 1e-12)
	assert.InDelta(t, 1, boxMullerTransform(math.Exp(-0.5), 0), 1e-12)
	assert.InDelta(t, -1, boxMullerTransform(math.Exp(-0.5), 0.5), 1e-12)
}

func TestSamplerFor(t *testing.T) {
	plan := &domain.Plan{}
	assert.Equal(t, "normal", SamplerFor(plan).GetStrategyName())

	plan.FatTails = &domain.FatTailAssumptions{Enabled: true, DegreesOfFreedom: 5}
	assert.Equal(t, StudentTSampler{DegreesOfFreedom: 5}, SamplerFor(plan))

	plan.FatTails.DegreesOfFreedom = 2
	assert.Equal(t, "normal", SamplerFor(plan).GetStrategyName())

	plan.FatTails = &domain.FatTailAssumptions{Enabled: false, DegreesOfFreedom: 5}
	assert.Equal(t, "normal", SamplerFor(plan).GetStrategyName())
}
