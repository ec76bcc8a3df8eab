package calculation

import (
	"math"
	"math/rand"

	"github.com/rpgo/networth-projector/internal/domain"
)

// Sampler draws a return with the given mean and standard deviation from an
// explicit random source. Samplers hold no mutable state.
type Sampler interface {
	Sample(rng *rand.Rand, mean, stdDev float64) float64
	GetStrategyName() string
}

// NormalSampler draws Gaussian returns via the Box–Muller transform
type NormalSampler struct{}

func (NormalSampler) Sample(rng *rand.Rand, mean, stdDev float64) float64 {
	return mean + stdDev*standardNormal(rng)
}

func (NormalSampler) GetStrategyName() string { return "normal" }

// StudentTSampler draws fat-tailed returns rescaled so their variance matches
// stdDev². DegreesOfFreedom at or below 2 has no finite variance and falls back to normal.
type StudentTSampler struct {
	DegreesOfFreedom float64
}

func (s StudentTSampler) Sample(rng *rand.Rand, mean, stdDev float64) float64 {
	df := s.DegreesOfFreedom
	if df <= 2 {
		return NormalSampler{}.Sample(rng, mean, stdDev)
	}
	z := standardNormal(rng)
	chi := chiSquare(rng, df)
	if chi <= 0 {
		return mean + stdDev*z
	}
	t := z / math.Sqrt(chi/df)
	return mean + t*stdDev/math.Sqrt(df/(df-2))
}

func (StudentTSampler) GetStrategyName() string { return "student_t" }

// SamplerFor picks the sampler a plan's fat-tail settings ask for
func SamplerFor(plan *domain.Plan) Sampler {
	if plan.FatTails != nil && plan.FatTails.Enabled && plan.FatTails.DegreesOfFreedom > 2 {
		return StudentTSampler{DegreesOfFreedom: plan.FatTails.DegreesOfFreedom}
	}
	return NormalSampler{}
}

// boxMullerTransform maps two uniform (0,1] variates to a standard normal
func boxMullerTransform(u1, u2 float64) float64 {
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func standardNormal(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	return boxMullerTransform(u1, rng.Float64())
}

// chiSquare sums squared standard normals; fractional degrees of freedom
// interpolate linearly between the floor and ceiling integer variates.
func chiSquare(rng *rand.Rand, df float64) float64 {
	k := int(math.Floor(df))
	var sum float64
	for i := 0; i < k; i++ {
		z := standardNormal(rng)
		sum += z * z
	}
	if frac := df - float64(k); frac > 0 {
		z := standardNormal(rng)
		sum += frac * z * z
	}
	return sum
}
