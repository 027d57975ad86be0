package markowitz

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	stepTolerance       = 1e-10 // a step shorter than that is a null step
	decreaseTolerance   = 1e-15 // an objective decrease smaller than that is no progress
	multiplierTolerance = 1e-10
	zeroTolerance       = 1e-14
	rankTolerance       = 1e-11 // singular values of the KKT matrix below that, relative, are zero
	residualTolerance   = 1e-9  // a larger KKT residual reveals a flat descent direction
	constraintTolerance = 1e-7  // accepted budget and target residual
)

// qp minimizes ½ wᵀHw subject to 1ᵀw = 1, μᵀw = target and w ≥ 0, with H
// positive semidefinite.
//
// It is a primal active-set method: each iteration solves the equality
// constrained problem where the weights of the working set are held at zero,
// then either moves toward its solution until a weight hits zero, or releases
// the held weight with the most negative multiplier. Upper bounds w ≤ 1 are
// implied by the budget and the lower bounds.
//
// H may be singular, for instance when two instruments move together or when
// there are fewer returns than instruments. The working set problem is then
// solved in the least squares sense: directions of zero curvature that do not
// change the objective are ignored, and a direction of zero curvature along
// which the objective decreases is followed until a weight hits zero.
//
// The target row is dropped whenever the free weights all have the same mean
// return: the budget row then implies it.
type qp struct {
	h      *mat.SymDense
	mu     []float64
	target float64
}

// newQP returns the problem for covariance sigma, scaled so that the hessian
// has a unit mean diagonal. Scaling leaves the minimizer unchanged.
func newQP(sigma mat.Symmetric, mu []float64, target float64) *qp {
	n := sigma.SymmetricDim()
	var trace float64
	for i := range n {
		trace += sigma.At(i, i)
	}
	scale := 1.0
	if trace > 0 {
		scale = float64(n) / trace
	}
	h := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			h.SetSym(i, j, 2*scale*sigma.At(i, j))
		}
	}
	return &qp{h: h, mu: mu, target: target}
}

func (q *qp) maxIterations() int { return 50 * (len(q.mu) + 2) }

// solve runs the method from the feasible point w0.
func (q *qp) solve(w0 []float64) ([]float64, error) {
	n := len(w0)
	w := slices.Clone(w0)
	held := make([]bool, n)
	g := mat.NewVecDense(n, nil)

	for iter := 0; iter < q.maxIterations(); iter++ {
		free := make([]int, 0, n)
		for i := range n {
			if !held[i] {
				free = append(free, i)
			}
		}
		rows := q.rows(free)

		g.MulVec(q.h, mat.NewVecDense(n, w))
		s, err := q.kkt(free, rows, g)
		if err != nil {
			return nil, err
		}
		p := s.p

		if !s.descent && (floats.Norm(p, math.Inf(1)) <= stepTolerance || q.curvature(free, p)/2 <= decreaseTolerance) {
			// w minimizes the working set problem, check the held weights.
			drop, worst := -1, -multiplierTolerance
			for i := range n {
				if !held[i] {
					continue
				}
				// λ = g - Aᵀν with ν = -y.
				lambda := g.AtVec(i)
				for k, rw := range rows {
					lambda += s.y[k] * rw.at(i, q.mu)
				}
				if lambda < worst {
					drop, worst = i, lambda
				}
			}
			if drop < 0 {
				return q.finish(w)
			}
			held[drop] = false
			continue
		}

		alpha := 1.0
		if s.descent {
			// Exact line search along p, usually unbounded.
			var slope float64
			for a, i := range free {
				slope += g.AtVec(i) * p[a]
			}
			alpha = math.Inf(1)
			if c := q.curvature(free, p); c > zeroTolerance {
				alpha = -slope / c
			}
		}
		blocking := -1
		for a, i := range free {
			if p[a] >= -zeroTolerance {
				continue
			}
			if t := -w[i] / p[a]; t < alpha {
				alpha, blocking = t, i
			}
		}
		if math.IsInf(alpha, 1) {
			return nil, errors.New("unbounded descent direction")
		}
		for a, i := range free {
			w[i] += alpha * p[a]
		}
		if blocking >= 0 {
			w[blocking] = 0
			held[blocking] = true
		}
	}
	return nil, fmt.Errorf("no convergence after %d iterations", q.maxIterations())
}

// row is an equality constraint: the budget or the target return.
type row int

const (
	budgetRow row = iota
	targetRow
)

func (r row) at(i int, mu []float64) float64 {
	if r == budgetRow {
		return 1
	}
	return mu[i]
}

// rows returns the independent equality constraints over the free weights.
func (q *qp) rows(free []int) []row {
	if len(free) < 2 {
		return []row{budgetRow}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range free {
		lo, hi = min(lo, q.mu[i]), max(hi, q.mu[i])
	}
	if hi-lo <= zeroTolerance*max(1, math.Abs(hi), math.Abs(lo)) {
		return []row{budgetRow}
	}
	return []row{budgetRow, targetRow}
}

// step is the move computed over the free weights.
type step struct {
	p       []float64
	y       []float64 // multipliers, nil for a descent direction
	descent bool      // p is a direction of zero curvature, not a Newton step
}

// kkt solves the working set problem
//
//	[ H_FF  A_Fᵀ ] [ p ]   [ -g_F ]
//	[ A_F   0    ] [ y ] = [  0   ]
//
// for the minimum norm least squares solution. When H_FF is singular over the
// constraints the system may have no solution: its residual is then a
// direction of zero curvature along which the objective decreases, and that
// direction is returned instead.
func (q *qp) kkt(free []int, rows []row, g *mat.VecDense) (step, error) {
	m, r := len(free), len(rows)
	k := mat.NewDense(m+r, m+r, nil)
	rhs := mat.NewVecDense(m+r, nil)
	gf := make([]float64, m)
	for a, i := range free {
		for b, j := range free {
			k.Set(a, b, q.h.At(i, j))
		}
		for c, rw := range rows {
			v := rw.at(i, q.mu)
			k.Set(m+c, a, v)
			k.Set(a, m+c, v)
		}
		gf[a] = g.AtVec(i)
		rhs.SetVec(a, -gf[a])
	}

	var svd mat.SVD
	if !svd.Factorize(k, mat.SVDFull) {
		return step{}, errors.New("SVD of the KKT system failed")
	}
	rank := svd.Rank(rankTolerance)
	if rank == 0 {
		return step{}, errors.New("null KKT system")
	}
	var sol mat.VecDense
	svd.SolveVecTo(&sol, rhs, rank)
	x := sol.RawVector().Data
	if floats.HasNaN(x) {
		return step{}, errors.New("KKT system yields NaN")
	}

	var kx, res mat.VecDense
	kx.MulVec(k, &sol)
	res.SubVec(rhs, &kx)
	d := slices.Clone(res.RawVector().Data[:m])
	if floats.Norm(d, 2) > residualTolerance {
		q.project(d, free, rows)
		if floats.Dot(gf, d) < -residualTolerance*floats.Norm(d, 2) {
			return step{p: d, descent: true}, nil
		}
	}
	return step{p: x[:m], y: x[m:]}, nil
}

// project removes from d its component normal to the equality constraints, so
// that moving along d keeps them satisfied.
func (q *qp) project(d []float64, free []int, rows []row) {
	a := mat.NewDense(len(rows), len(free), nil)
	for c, rw := range rows {
		for b, i := range free {
			a.Set(c, b, rw.at(i, q.mu))
		}
	}
	var aat mat.Dense
	aat.Mul(a, a.T())
	var ad, z, normal mat.VecDense
	ad.MulVec(a, mat.NewVecDense(len(d), slices.Clone(d)))
	if err := z.SolveVec(&aat, &ad); err != nil {
		return
	}
	normal.MulVec(a.T(), &z)
	floats.Sub(d, normal.RawVector().Data)
}

// curvature returns pᵀ H_FF p.
func (q *qp) curvature(free []int, p []float64) float64 {
	var c float64
	for a, i := range free {
		for b, j := range free {
			c += p[a] * q.h.At(i, j) * p[b]
		}
	}
	return c
}

// finish cleans rounding residues and checks the constraints.
func (q *qp) finish(w []float64) ([]float64, error) {
	for i, x := range w {
		if x < 0 {
			w[i] = 0
		}
	}
	if s := floats.Sum(w); math.Abs(s-1) > constraintTolerance {
		return nil, fmt.Errorf("weights sum to %v", s)
	}
	if r := floats.Dot(w, q.mu); math.Abs(r-q.target) > constraintTolerance {
		return nil, fmt.Errorf("weights return %v", r)
	}
	return w, nil
}
