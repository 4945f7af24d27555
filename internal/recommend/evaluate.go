// NicheCompass - Entrepreneur Niche Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nichecompass

package recommend

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/nichecompass/internal/recommend/feature"
)

// StratifiedSplit holds out testSize of each label's samples. Labels with a
// single sample stay entirely in the training set, and every label keeps at
// least one training sample. Both halves preserve the input order, and the
// split is a pure function of (samples, testSize, seed).
func StratifiedSplit(samples []feature.Sample, testSize float64, seed uint64) (train, test []feature.Sample) {
	if testSize <= 0 || len(samples) == 0 {
		return samples, nil
	}

	byLabel := make(map[string][]int)
	for i := range samples {
		byLabel[samples[i].Label] = append(byLabel[samples[i].Label], i)
	}
	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	rng := rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d)) //nolint:gosec // reproducible split, not security
	inTest := make([]bool, len(samples))
	for _, l := range labels {
		idx := byLabel[l]
		n := len(idx)
		if n < 2 {
			continue
		}
		nTest := int(math.Round(testSize * float64(n)))
		nTest = max(1, min(nTest, n-1))

		rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, i := range idx[:nTest] {
			inTest[i] = true
		}
	}

	for i := range samples {
		if inTest[i] {
			test = append(test, samples[i])
		} else {
			train = append(train, samples[i])
		}
	}
	return train, test
}

// Evaluate predicts every test sample with m and scores the results.
// Predictions run in parallel; the report does not depend on scheduling.
func Evaluate(ctx context.Context, m *Model, train, test []feature.Sample) (*EvaluationReport, error) {
	predicted := make([]string, len(test))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range test {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := m.Predict(test[i].Features)
			if err != nil {
				return err
			}
			predicted[i] = r.Label
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	actual := make([]string, len(test))
	for i := range test {
		actual[i] = test[i].Label
	}
	report := Score(actual, predicted)
	report.TrainSamples = len(train)
	return report, nil
}

// Score computes accuracy, per-label and averaged precision/recall/F1, and
// the confusion matrix. Macro averages run over every label that occurs in
// actual or predicted. For single-label classification the micro averages
// equal accuracy.
func Score(actual, predicted []string) *EvaluationReport {
	seen := make(map[string]struct{})
	for _, l := range actual {
		seen[l] = struct{}{}
	}
	for _, l := range predicted {
		seen[l] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	confusion := make([][]int, len(labels))
	for i := range confusion {
		confusion[i] = make([]int, len(labels))
	}
	correct := 0
	for i := range actual {
		confusion[index[actual[i]]][index[predicted[i]]]++
		if actual[i] == predicted[i] {
			correct++
		}
	}

	report := &EvaluationReport{
		TestSamples:     len(actual),
		PerLabel:        make(map[string]LabelScores, len(labels)),
		Labels:          labels,
		ConfusionMatrix: confusion,
	}
	if len(actual) == 0 {
		return report
	}

	for i, l := range labels {
		tp := confusion[i][i]
		var support, predictedCount int
		for j := range labels {
			support += confusion[i][j]
			predictedCount += confusion[j][i]
		}
		s := LabelScores{
			Precision: ratio(tp, predictedCount),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		s.F1 = harmonic(s.Precision, s.Recall)
		report.PerLabel[l] = s

		report.PrecisionMacro += s.Precision
		report.RecallMacro += s.Recall
		report.F1Macro += s.F1
	}
	n := float64(len(labels))
	report.PrecisionMacro /= n
	report.RecallMacro /= n
	report.F1Macro /= n

	report.Accuracy = ratio(correct, len(actual))
	report.PrecisionMicro = report.Accuracy
	report.RecallMicro = report.Accuracy
	report.F1Micro = report.Accuracy
	return report
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func harmonic(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
