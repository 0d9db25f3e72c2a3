package segmentation

import (
	"math"
)

// Scaler standardises features to zero mean and unit variance using the
// population standard deviation. Constant features scale to 0.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-column statistics of points (rows × features).
func FitScaler(points [][]float64) Scaler {
	if len(points) == 0 {
		return Scaler{}
	}
	d := len(points[0])
	s := Scaler{Mean: make([]float64, d), Scale: make([]float64, d)}
	n := float64(len(points))

	for _, p := range points {
		for j, v := range p {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, p := range points {
		for j, v := range p {
			diff := v - s.Mean[j]
			s.Scale[j] += diff * diff
		}
	}
	for j := range s.Scale {
		s.Scale[j] = math.Sqrt(s.Scale[j] / n)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return s
}

func (s Scaler) Transform(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		row := make([]float64, len(p))
		for j, v := range p {
			row[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = row
	}
	return out
}
