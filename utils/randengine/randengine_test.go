package randengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestDiscreteDistribution(t *testing.T) {
	e := New(1)
	counts := make([]int, 3)
	for i := 0; i < 1000; i++ {
		counts[e.DiscreteDistribution([]float64{1, 0, 3})]++
	}
	assert.Zero(t, counts[1])
	assert.Greater(t, counts[2], counts[0])
}

func TestUniform(t *testing.T) {
	e := New(7)
	for i := 0; i < 1000; i++ {
		v := e.Uniform(-2, 5)
		assert.GreaterOrEqual(t, v, -2.0)
		assert.Less(t, v, 5.0)
	}
	assert.False(t, e.PTrue(0))
	assert.True(t, e.PTrue(1))
}
