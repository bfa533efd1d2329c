// Package storage archives CLI runs on disk and exports results. The engine
// never touches it; only cmd/eqlab does.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/eqlab/internal/stability"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type DomainRecord struct {
	Min        []float64 `json:"min"`
	Max        []float64 `json:"max"`
	Resolution int       `json:"resolution"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Command   string             `json:"command"`
	Kind      string             `json:"kind"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Params    map[string]float64 `json:"params"`
	Tolerance float64            `json:"tolerance,omitempty"`
	Domain    *DomainRecord      `json:"domain,omitempty"`
	Summary   map[string]float64 `json:"summary"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// PointRecord is one row of points.csv.
type PointRecord struct {
	Coord    []float64
	Energy   float64
	Residual float64
	Class    string
}

func newRunID(model string) string {
	safe := strings.NewReplacer(":", "-", "/", "-", " ", "_").Replace(model)
	return fmt.Sprintf("%s_%s", safe, uuid.NewString()[:8])
}

func (s *Store) create(meta *RunMetadata) (string, error) {
	meta.ID = newRunID(meta.Model)
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runDir, nil
}

// SaveAnalysis archives a stability result. The summary counts each class and
// the critical points go to points.csv.
func (s *Store) SaveAnalysis(meta RunMetadata, res *stability.Result) (string, error) {
	meta.Tolerance = res.Tolerance
	if meta.Summary == nil {
		meta.Summary = make(map[string]float64)
	}
	meta.Summary["samples"] = float64(res.Samples)
	meta.Summary["evaluations"] = float64(res.Evaluations)
	meta.Summary["points"] = float64(len(res.Points))
	meta.Summary["boundary"] = float64(len(res.Boundary))
	for _, c := range []stability.Class{stability.Stable, stability.Unstable, stability.Saddle, stability.Indeterminate} {
		meta.Summary[strings.ToLower(c.String())] = float64(res.Count(c))
	}
	for _, w := range res.Warnings {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("%s near %v after %d iterations", w.Reason, []float64(w.Near), w.Iterations))
	}

	runDir, err := s.create(&meta)
	if err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "points.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	dim := 0
	if len(res.Points) > 0 {
		dim = len(res.Points[0].Coord)
	}
	header := make([]string, 0, dim+3)
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	header = append(header, "energy", "residual", "class")
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, p := range res.Points {
		row := make([]string, 0, len(header))
		for _, v := range p.Coord {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		row = append(row,
			strconv.FormatFloat(p.Energy, 'g', -1, 64),
			strconv.FormatFloat(p.Residual(), 'g', 6, 64),
			p.Class.String(),
		)
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

// SaveLevels archives a quantum spectrum as levels.csv.
func (s *Store) SaveLevels(meta RunMetadata, levels []float64) (string, error) {
	if meta.Summary == nil {
		meta.Summary = make(map[string]float64)
	}
	if len(levels) > 0 {
		meta.Summary["ground"] = levels[0]
	}
	meta.Summary["levels"] = float64(len(levels))

	runDir, err := s.create(&meta)
	if err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "levels.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()
	if err := w.Write([]string{"n", "energy"}); err != nil {
		return "", err
	}
	for n, e := range levels {
		if err := w.Write([]string{strconv.Itoa(n), strconv.FormatFloat(e, 'g', -1, 64)}); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

// SaveMetadata archives a run that has no tabular output.
func (s *Store) SaveMetadata(meta RunMetadata) (string, error) {
	if _, err := s.create(&meta); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every archived run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	slices.SortFunc(runs, func(a, b RunMetadata) int { return a.Timestamp.Compare(b.Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPoints reads back points.csv of an analysis run.
func (s *Store) LoadPoints(runID string) ([]PointRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "points.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []PointRecord{}, nil
	}

	dim := len(records[0]) - 3
	points := make([]PointRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		vals := make([]float64, dim+2)
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j], 64); err != nil {
				return nil, fmt.Errorf("%s points.csv: %w", runID, err)
			}
		}
		points = append(points, PointRecord{
			Coord:    vals[:dim],
			Energy:   vals[dim],
			Residual: vals[dim+1],
			Class:    record[dim+2],
		})
	}
	return points, nil
}

// LoadLevels reads back levels.csv of a quantum run.
func (s *Store) LoadLevels(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "levels.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []float64{}, nil
	}
	levels := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s levels.csv: %w", runID, err)
		}
		levels = append(levels, e)
	}
	return levels, nil
}
