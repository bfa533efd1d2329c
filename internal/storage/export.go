package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/eqlab/internal/stability"
)

type PointExport struct {
	Coord       []float64   `json:"coord"`
	Energy      float64     `json:"energy"`
	Gradient    []float64   `json:"gradient"`
	Hessian     [][]float64 `json:"hessian"`
	Eigenvalues []float64   `json:"eigenvalues"`
	Class       string      `json:"class"`
	Iterations  int         `json:"iterations"`
}

type BoundaryExport struct {
	Coord  []float64 `json:"coord"`
	Energy float64   `json:"energy"`
	Kind   string    `json:"kind"`
}

type WarningExport struct {
	Near       []float64 `json:"near"`
	Iterations int       `json:"iterations"`
	Residual   float64   `json:"residual"`
	Reason     string    `json:"reason"`
}

type AnalysisExport struct {
	Model       string             `json:"model"`
	Params      map[string]float64 `json:"params,omitempty"`
	Tolerance   float64            `json:"tolerance"`
	Samples     int                `json:"samples"`
	Evaluations int64              `json:"evaluations"`
	Points      []PointExport      `json:"points"`
	Boundary    []BoundaryExport   `json:"boundary,omitempty"`
	Warnings    []WarningExport    `json:"warnings,omitempty"`
}

func NewAnalysisExport(params map[string]float64, res *stability.Result) AnalysisExport {
	data := AnalysisExport{
		Model:       res.Model,
		Params:      params,
		Tolerance:   res.Tolerance,
		Samples:     res.Samples,
		Evaluations: res.Evaluations,
		Points:      make([]PointExport, len(res.Points)),
	}
	for i, p := range res.Points {
		data.Points[i] = PointExport{
			Coord:       p.Coord,
			Energy:      p.Energy,
			Gradient:    p.Gradient,
			Hessian:     p.Hessian,
			Eigenvalues: p.Eigenvalues,
			Class:       p.Class.String(),
			Iterations:  p.Iterations,
		}
	}
	for _, b := range res.Boundary {
		data.Boundary = append(data.Boundary, BoundaryExport{Coord: b.Coord, Energy: b.Energy, Kind: b.Kind.String()})
	}
	for _, w := range res.Warnings {
		data.Warnings = append(data.Warnings, WarningExport{Near: w.Near, Iterations: w.Iterations, Residual: w.Residual, Reason: w.Reason})
	}
	return data
}

func ExportJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, v)
}

func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
