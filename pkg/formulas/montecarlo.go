package formulas

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SimulatePaths draws paths of compounded normal returns.
//
// Each path starts from base and multiplies by (1 + x) at every step, with x
// drawn from Normal(mu, sigma). Draws are taken path by path from src, so the
// same source state always yields the same matrix.
func SimulatePaths(src rand.Source, mu, sigma, base float64, paths, steps int) [][]float64 {
	if paths <= 0 || steps <= 0 {
		return [][]float64{}
	}

	normal := distuv.Normal{
		Mu:    mu,
		Sigma: sigma,
		Src:   src,
	}

	out := make([][]float64, paths)
	for p := 0; p < paths; p++ {
		path := make([]float64, steps)
		value := base
		for s := 0; s < steps; s++ {
			value *= 1 + normal.Rand()
			path[s] = value
		}
		out[p] = path
	}

	return out
}

// NewSource returns a deterministic PCG source for seed
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
