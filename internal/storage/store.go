package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/facette/natsort"
	"github.com/google/uuid"

	"github.com/san-kum/corotrap/internal/analysis"
	"github.com/san-kum/corotrap/internal/config"
	"github.com/san-kum/corotrap/internal/dynamo"
)

// ErrRunNotFound indicates an unknown run ID.
var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir holding metadata.json
// and the trajectory dump.
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
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	Steps      int                `json:"steps"`
	Config     *config.Config     `json:"config"`
	Class      string             `json:"class,omitempty"`
	LambdaC    float64            `json:"lambda_c,omitempty"`
	Lz         []float64          `json:"lz,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// RunID derives the run ID from the dump name, so re-running the same
// configuration overwrites the earlier run.
func RunID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("corotrap:"+name)).String()
}

// Save writes the trajectory and its metadata. summary may be nil for runs
// without a spiral.
func (s *Store) Save(cfg *config.Config, result *dynamo.Result, summary *analysis.Summary) (*RunMetadata, error) {
	name := DumpName(cfg)
	meta := &RunMetadata{
		ID:         RunID(name),
		Name:       name,
		Timestamp:  time.Now(),
		Integrator: cfg.Integrator,
		Steps:      len(result.Trajectory),
		Config:     cfg,
		Metrics:    result.Metrics,
	}
	if summary != nil {
		meta.Class = summary.Class.String()
		meta.LambdaC = summary.LambdaC
		meta.Lz = summary.Lz[:]
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	if err := WriteDumpFile(filepath.Join(runDir, name+DumpExt), result.Trajectory); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(runDir, "metadata.json"), data, 0644); err != nil {
		return nil, err
	}
	return meta, nil
}

// List returns every readable run, naturally sorted by dump name.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return natsort.Compare(runs[i].Name, runs[j].Name)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	return ReadDumpFile(filepath.Join(s.baseDir, runID, meta.Name+DumpExt))
}
