package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	scenarioFile = "scenario.yaml"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrBadRow      = errors.New("storage: malformed states row")
)

var header = []string{"time", "x", "z", "angle", "vx", "vz", "omega", "throttle"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Steps      int                `json:"steps"`
	Surfaced   bool               `json:"surfaced,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Row is one line of states.csv.
type Row struct {
	Time     float64 `json:"time"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Angle    float64 `json:"angle"`
	VX       float64 `json:"vx"`
	VZ       float64 `json:"vz"`
	Omega    float64 `json:"omega"`
	Throttle float64 `json:"throttle"`
}

func RowOf(s body.Snapshot) Row {
	return Row{
		Time:     s.Time,
		X:        s.Pose.Position.X,
		Z:        s.Pose.Position.Z,
		Angle:    s.Pose.Orientation.Y,
		VX:       s.Velocity.X,
		VZ:       s.Velocity.Z,
		Omega:    s.AngularVelocity,
		Throttle: s.Throttle,
	}
}

func Rows(result *dynamo.Result) []Row {
	rows := make([]Row, len(result.Snapshots))
	for i, s := range result.Snapshots {
		rows[i] = RowOf(s)
	}
	return rows
}

func (r Row) values() []float64 {
	return []float64{r.Time, r.X, r.Z, r.Angle, r.VX, r.VZ, r.Omega, r.Throttle}
}

// NewRunID is <name>_<unix seconds>_<8 hex chars>.
func (s *Store) NewRunID(name string) string {
	return fmt.Sprintf("%s_%d_%s", name, s.now().Unix(), uuid.NewString()[:8])
}

// Save writes a run directory holding metadata.json, states.csv and, when
// cfg is not nil, the scenario that produced it.
func (s *Store) Save(meta RunMetadata, cfg *config.Config, result *dynamo.Result) (string, error) {
	if meta.ID == "" {
		meta.ID = s.NewRunID(meta.Name)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = s.now()
	}
	meta.Steps = result.StepsTaken
	meta.Surfaced = result.Surfaced
	meta.Metrics = finite(result.Metrics)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	if err := WriteCSV(csvFile, Rows(result)); err != nil {
		csvFile.Close()
		return "", err
	}
	if err := csvFile.Close(); err != nil {
		return "", err
	}

	if cfg != nil {
		if err := config.Save(filepath.Join(runDir, scenarioFile), cfg); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

// finite drops metrics json cannot encode.
func finite(m map[string]float64) map[string]float64 {
	out := maps.Clone(m)
	if out == nil {
		return map[string]float64{}
	}
	maps.DeleteFunc(out, func(_ string, v float64) bool {
		return math.IsNaN(v) || math.IsInf(v, 0)
	})
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first.
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadConfig reads the scenario saved with a run.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(s.baseDir, runID, scenarioFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s has no scenario", ErrRunNotFound, runID)
	}
	return cfg, err
}

func (s *Store) LoadStates(runID string) ([]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// StatesPath is the location of a run's states.csv.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}

func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, r := range rows {
		for i, v := range r.values() {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [8]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %v", ErrBadRow, i+2, header[j], err)
			}
			vals[j] = v
		}
		rows = append(rows, Row{
			Time: vals[0], X: vals[1], Z: vals[2], Angle: vals[3],
			VX: vals[4], VZ: vals[5], Omega: vals[6], Throttle: vals[7],
		})
	}
	return rows, nil
}
