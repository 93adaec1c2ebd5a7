package cube

import "math"

// MapKxEnergy integrates over the ky axis and returns the energy-by-kx
// intensity map. The mean skips NaN cells; a cell with no valid samples
// stays NaN.
func (c *Cube) MapKxEnergy() [][]float64 {
	ne, nx, _ := c.Dims()
	m := make([][]float64, ne)
	for e := 0; e < ne; e++ {
		m[e] = make([]float64, nx)
		for x := 0; x < nx; x++ {
			m[e][x] = nanMean(c.Data[e][x])
		}
	}
	return m
}

// EDC returns the energy distribution curve at the given kx index: the
// ky-integrated intensity as a function of energy.
func (c *Cube) EDC(x int) []float64 {
	ne, _, _ := c.Dims()
	out := make([]float64, ne)
	for e := 0; e < ne; e++ {
		out[e] = nanMean(c.Data[e][x])
	}
	return out
}

// MDC returns the momentum distribution curve at the given energy index:
// the ky-integrated intensity as a function of kx.
func (c *Cube) MDC(e int) []float64 {
	_, nx, _ := c.Dims()
	out := make([]float64, nx)
	for x := 0; x < nx; x++ {
		out[x] = nanMean(c.Data[e][x])
	}
	return out
}

// nanMean averages the finite values of vs, ignoring NaN entries. Returns
// NaN when no entry is finite.
func nanMean(vs []float64) float64 {
	sum := 0.0
	n := 0
	for _, v := range vs {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
