// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package dataset

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// Archetype is a niche and its typical entrepreneur profile.
//
// Profile order follows feature.Names: education level (1-6), target
// audience level (1-6), initial investment, weekly hours, creativity
// affinity (0-1), technology affinity (0-1).
type Archetype struct {
	Niche   string
	Profile [6]float64
}

// Archetypes are the built-in niches used for seeding and demos.
var Archetypes = []Archetype{
	{"Loja de Produtos Naturais", [6]float64{2, 2, 500, 40, 0.4, 0.6}},
	{"Padaria", [6]float64{3, 3, 50000, 60, 0.3, 0.5}},
	{"Agência de Viagens", [6]float64{4, 3, 10000, 30, 0.2, 0.4}},
	{"Eventos Comunitários", [6]float64{2, 1, 200, 10, 0.3, 0.3}},
	{"Mercearia", [6]float64{5, 4, 15000, 50, 0.2, 0.5}},
	{"Consultoria Empresarial", [6]float64{6, 5, 1000, 20, 0.1, 0.7}},
	{"Papelaria", [6]float64{3, 2, 10000, 45, 0.1, 0.6}},
	{"Distribuidora de Bebidas", [6]float64{4, 5, 30000, 60, 0.1, 0.5}},
	{"Consultoria Financeira", [6]float64{3, 3, 0, 25, 0.1, 0.7}},
	{"Presentes e Decoração", [6]float64{2, 2, 10000, 50, 0.6, 0.3}},
	{"Brechó", [6]float64{1, 2, 500, 10, 0.7, 0.2}},
	{"Criação de Filtros AR", [6]float64{4, 4, 0, 30, 0.8, 0.2}},
	{"Produtos Customizados", [6]float64{3, 2, 500, 25, 0.6, 0.4}},
	{"Lanchonete", [6]float64{3, 2, 20000, 60, 0.3, 0.6}},
	{"Podcast", [6]float64{2, 2, 100, 10, 0.5, 0.5}},
	{"Narração e Locução", [6]float64{4, 3, 200, 15, 0.4, 0.5}},
	{"Manutenção de PCs", [6]float64{2, 4, 300, 20, 0.4, 0.4}},
	{"Redes e Conectividade", [6]float64{3, 5, 100, 15, 0.3, 0.3}},
	{"Dashboards Inteligentes", [6]float64{4, 5, 0, 20, 0.5, 0.2}},
	{"Consultoria de Software", [6]float64{5, 5, 0, 15, 0.3, 0.5}},
}

// Generate produces perNiche noisy variations of every archetype. The same
// seed always yields the same samples.
//
// Noise per feature: levels ~N(base, 0.5) clipped to [1, 6] and truncated;
// investment ~N(base, 0.3*base) clipped to [0, 50000] and truncated;
// hours ~N(base, 5) clipped to [5, 60] and truncated; affinities
// ~N(base, 0.1) clipped to [0, 1].
func Generate(perNiche int, seed uint64) []feature.Sample {
	if perNiche <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	normal := func(mean, std float64) float64 {
		return mean + std*rng.NormFloat64()
	}

	samples := make([]feature.Sample, 0, perNiche*len(Archetypes))
	for _, a := range Archetypes {
		p := a.Profile
		for i := 0; i < perNiche; i++ {
			samples = append(samples, feature.Sample{
				Features: feature.Vector{
					math.Trunc(clip(normal(p[0], 0.5), 1, 6)),
					math.Trunc(clip(normal(p[1], 0.5), 1, 6)),
					math.Trunc(clip(normal(p[2], p[2]*0.3), 0, 50000)),
					math.Trunc(clip(normal(p[3], 5), 5, 60)),
					clip(normal(p[4], 0.1), 0, 1),
					clip(normal(p[5], 0.1), 0, 1),
				},
				Label: a.Niche,
			})
		}
	}
	return samples
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SyntheticSource serves Generate output as a Source.
type SyntheticSource struct {
	PerNiche int
	Seed     uint64
}

// Name implements Source.
func (s SyntheticSource) Name() string {
	return "synthetic"
}

// Samples implements Source.
func (s SyntheticSource) Samples(ctx context.Context) ([]feature.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Generate(s.PerNiche, s.Seed), nil
}
