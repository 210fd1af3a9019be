package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/rocketsim/internal/record"
	"github.com/san-kum/rocketsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrNotFound = errors.New("storage: run not found")

const (
	StatusRunning    = "running"
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
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

type ControlsMeta struct {
	Thrust float64 `json:"thrust"`
	Angle  float64 `json:"angle"`
	Fuel   float64 `json:"fuel"`
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Label        string             `json:"label,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Controls     ControlsMeta       `json:"controls"`
	Params       map[string]float64 `json:"params"`
	Dt           float64            `json:"dt"`
	MaxSteps     int                `json:"max_steps"`
	LaunchHeight float64            `json:"launch_height"`
	Status       string             `json:"status"`
	Reason       string             `json:"reason,omitempty"`
	Steps        int                `json:"steps"`
	FinalTime    float64            `json:"final_time"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Create allocates a run directory and returns a sink that records the
// trajectory into it. The metadata is rewritten when the run finishes and
// again on Close.
func (s *Store) Create(meta RunMetadata) (*Run, error) {
	meta.ID = uuid.NewString()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Status = StatusRunning

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	csv, err := record.CreateCSV(filepath.Join(dir, trajectoryFile))
	if err != nil {
		return nil, err
	}

	run := &Run{dir: dir, meta: meta, csv: csv}
	if err := run.writeMeta(); err != nil {
		csv.Close()
		return nil, err
	}
	return run, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadRecords(runID string) ([]sim.Record, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	return record.ReadCSV(f)
}

// Run is a sim.Sink bound to one stored run.
type Run struct {
	dir  string
	meta RunMetadata
	csv  *record.CSVSink
}

func (r *Run) ID() string { return r.meta.ID }

func (r *Run) Emit(rec sim.Record) error {
	if err := r.csv.Emit(rec); err != nil {
		return err
	}
	r.meta.Steps = rec.Step + 1
	r.meta.FinalTime = rec.Time
	return nil
}

func (r *Run) Finish(res *sim.Result) error {
	r.meta.Status = StatusComplete
	r.meta.Reason = res.Reason.String()
	r.meta.Steps = res.Steps
	r.meta.FinalTime = res.FinalTime
	r.meta.Metrics = res.Metrics
	return r.writeMeta()
}

func (r *Run) Close() error {
	cerr := r.csv.Close()
	if r.meta.Status == StatusRunning {
		r.meta.Status = StatusIncomplete
		if err := r.writeMeta(); err != nil {
			return errors.Join(cerr, err)
		}
	}
	return cerr
}

func (r *Run) writeMeta() error {
	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}
