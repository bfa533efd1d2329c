package stability

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/eqlab/internal/energy"
)

// center shifts x inward along any axis where a stencil of half-width h
// would leave the domain, so finite differences never sample outside it.
func (a *analyzer) center(x energy.Coord, h []float64) energy.Coord {
	c := x.Clone()
	for i := range c {
		if c[i]-h[i] < a.domain.Min[i] {
			c[i] = a.domain.Min[i] + h[i]
		}
		if c[i]+h[i] > a.domain.Max[i] {
			c[i] = a.domain.Max[i] - h[i]
		}
	}
	return c
}

// gradient is the central-difference gradient at x.
func (a *analyzer) gradient(x energy.Coord) ([]float64, error) {
	c := a.center(x, a.step)
	g := make([]float64, len(c))
	p := c.Clone()
	for i := range c {
		h := a.step[i]
		p[i] = c[i] + h
		up, err := a.energy(p)
		if err != nil {
			return nil, err
		}
		p[i] = c[i] - h
		down, err := a.energy(p)
		if err != nil {
			return nil, err
		}
		p[i] = c[i]
		g[i] = (up - down) / (2 * h)
	}
	return g, nil
}

// hessian is the finite-difference Hessian at x; e0 is E(x).
func (a *analyzer) hessian(x energy.Coord, e0 float64) ([][]float64, error) {
	n := len(x)
	h := a.curvature
	c := a.center(x, h)
	if c.Compare(x) != 0 {
		var err error
		if e0, err = a.energy(c); err != nil {
			return nil, err
		}
	}

	hess := make([][]float64, n)
	for i := range hess {
		hess[i] = make([]float64, n)
	}

	p := c.Clone()
	for i := 0; i < n; i++ {
		p[i] = c[i] + h[i]
		up, err := a.energy(p)
		if err != nil {
			return nil, err
		}
		p[i] = c[i] - h[i]
		down, err := a.energy(p)
		if err != nil {
			return nil, err
		}
		p[i] = c[i]
		hess[i][i] = (up - 2*e0 + down) / (h[i] * h[i])

		for j := i + 1; j < n; j++ {
			var corners [4]float64
			for k, s := range [4][2]float64{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
				p[i] = c[i] + s[0]*h[i]
				p[j] = c[j] + s[1]*h[j]
				if corners[k], err = a.energy(p); err != nil {
					return nil, err
				}
			}
			p[i], p[j] = c[i], c[j]
			v := (corners[0] - corners[1] - corners[2] + corners[3]) / (4 * h[i] * h[j])
			hess[i][j], hess[j][i] = v, v
		}
	}
	return hess, nil
}

// eigenvalues returns the ascending eigenvalues of a symmetric Hessian.
func eigenvalues(hess [][]float64) []float64 {
	n := len(hess)
	if n == 1 {
		return []float64{hess[0][0]}
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(hess[i][j]+hess[j][i]))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		out := make([]float64, n)
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	values := eig.Values(nil)
	slices.Sort(values)
	return values
}
