// Package forecast projects KPI series forward and classifies metric trends.
package forecast

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Line is a fitted straight line y = Intercept + Slope*x.
type Line struct {
	Intercept float64
	Slope     float64
}

// Predict evaluates the line at x.
func (l Line) Predict(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// FitLine fits an ordinary least-squares line to the pairs (i, ys[i]).
func FitLine(ys []float64) (Line, error) {
	if len(ys) < 2 {
		return Line{}, fmt.Errorf("regression needs at least 2 points, got %d: %w",
			len(ys), model.ErrPreconditionViolation)
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Line{Intercept: alpha, Slope: beta}, nil
}
