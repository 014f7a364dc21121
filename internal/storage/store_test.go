package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/dynamo"
	"github.com/san-kum/subsim/internal/vec"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		Snapshots: []body.Snapshot{
			{Time: 0, Pose: body.Pose{Position: vec.XZ{Z: 150}}},
			{
				Time:            0.1,
				Pose:            body.Pose{Position: vec.XZ{X: 0.25, Z: 149.5}, Orientation: vec.Angle{Y: 0.01}},
				Velocity:        vec.XZ{X: 2.5, Z: -5},
				AngularVelocity: 0.1,
				Throttle:        1200,
			},
		},
		Times:      []float64{0, 0.1},
		StepsTaken: 1,
		Metrics: map[string]float64{
			"depth_drift": 0.5,
			"broken":      math.NaN(),
		},
	}
}

func newStore(t *testing.T) *Store {
	st := New(t.TempDir())
	require.NoError(t, st.Init())
	return st
}

func TestStoreSaveLoad(t *testing.T) {
	st := newStore(t)

	runID, err := st.Save(RunMetadata{Name: "cruise", Dt: 0.1, Duration: 0.1, Integrator: "rk4", Controller: "none"}, nil, sampleResult())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^cruise_\d+_[0-9a-f]{8}$`), runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "cruise", meta.Name)
	assert.Equal(t, "rk4", meta.Integrator)
	assert.Equal(t, 1, meta.Steps)
	assert.Equal(t, 0.5, meta.Metrics["depth_drift"])
	assert.NotContains(t, meta.Metrics, "broken")

	rows, err := st.LoadStates(runID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDelta(t, 149.5, rows[1].Z, 1e-6)
	assert.InDelta(t, -5, rows[1].VZ, 1e-6)
	assert.InDelta(t, 0.01, rows[1].Angle, 1e-6)
	assert.InDelta(t, 1200, rows[1].Throttle, 1e-6)
}

func TestStoreList(t *testing.T) {
	st := newStore(t)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "new"} {
		st.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		_, err := st.Save(RunMetadata{Name: name}, nil, sampleResult())
		require.NoError(t, err)
	}

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].Name)
	assert.Equal(t, "old", runs[1].Name)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	st := newStore(t)

	runID, err := st.Save(RunMetadata{Name: "dive"}, config.GetPreset("dive"), sampleResult())
	require.NoError(t, err)

	for _, name := range []string{metadataFile, statesFile, scenarioFile} {
		_, err := os.Stat(filepath.Join(st.baseDir, runID, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(st.StatesPath(runID))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "time,x,z,angle,vx,vz,omega,throttle\n"))

	cfg, err := st.LoadConfig(runID)
	require.NoError(t, err)
	assert.Equal(t, "depth-hold", cfg.Controller)
}

func TestStoreNotFound(t *testing.T) {
	st := newStore(t)

	_, err := st.Load("ghost")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = st.LoadStates("ghost")
	assert.ErrorIs(t, err, ErrRunNotFound)

	runID, err := st.Save(RunMetadata{Name: "bare"}, nil, sampleResult())
	require.NoError(t, err)
	_, err = st.LoadConfig(runID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestCSVKeepsSmallValues(t *testing.T) {
	rows := []Row{{Time: 0.02, Z: 150.0000001, VX: 9.8e-4, Omega: 3.2e-7, Angle: -1.5e-9, Throttle: 1e12}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadCSVRejectsGarbage(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("time,x,z,angle,vx,vz,omega,throttle\n0,1,2,3,4,5,6,abc\n"))
	assert.ErrorIs(t, err, ErrBadRow)

	_, err = ReadCSV(strings.NewReader("time,x\n0,1\n"))
	assert.Error(t, err)

	rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExportJSON(t *testing.T) {
	st := newStore(t)
	runID, err := st.Save(RunMetadata{Name: "export", Dt: 0.1}, nil, sampleResult())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, runID))

	var out ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, runID, out.ID)
	assert.Equal(t, 0.1, out.Dt)
	require.Len(t, out.States, 2)
	assert.InDelta(t, 2.5, out.States[1].VX, 1e-6)

	assert.ErrorIs(t, st.ExportJSON(&buf, "ghost"), ErrRunNotFound)
}
