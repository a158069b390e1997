// Package storage persists simulation runs to disk: one directory per run
// holding metadata.json and a states.csv with named columns.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/eli-will-2656/quadsim/internal/sim"
)

// stateHeader matches the flat-vector layout of quad.State.
var stateHeader = []string{
	"px", "py", "pz",
	"vx", "vy", "vz",
	"qw", "qx", "qy", "qz",
	"wx", "wy", "wz",
}

var commandHeader = []string{"w1", "w2", "w3", "w4"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Trajectory string             `json:"trajectory"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(dt, duration float64, integrator, controller, traj string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   duration,
		Integrator: integrator,
		Controller: controller,
		Trajectory: traj,
		Metrics:    result.Metrics,
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

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := append([]string{"time"}, stateHeader...)
	header = append(header, commandHeader...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}

		for _, val := range result.States[i].Vector() {
			row = append(row, strconv.FormatFloat(val, 'f', 9, 64))
		}

		if i < len(result.Commands) {
			for _, val := range result.Commands[i] {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		} else {
			for range commandHeader {
				row = append(row, "0")
			}
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

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

// LoadStates reads back the sample table: per-row state+command values and
// the matching times. Column names come from Columns.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return states, times, nil
}

// Columns returns the CSV column names after the leading time column.
func Columns() []string {
	cols := append([]string{}, stateHeader...)
	return append(cols, commandHeader...)
}
