package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	snapshotFile = "snapshot.msgpack"
	sceneFile    = "scene.yaml"
)

var frameHeader = []string{"time", "index", "x", "y", "z", "vx", "vy", "vz", "radius", "mass", "static"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	SampleEvery int                `json:"sample_every"`
	Steps       int                `json:"steps"`
	Frames      int                `json:"frames"`
	FinalBodies int                `json:"final_bodies"`
	Metrics     map[string]float64 `json:"metrics"`
	Stats       physics.Stats      `json:"stats"`
}

// Run is everything Save persists. ID may be empty to generate one.
type Run struct {
	ID          string
	Scene       *config.Scene
	Dt          float64
	Duration    float64
	SampleEvery int
	Seed        int64
	Result      *sim.Result
	Snapshot    *physics.Snapshot
}

func (s *Store) Save(run Run) (string, error) {
	if run.Result == nil {
		return "", fmt.Errorf("run has no result")
	}

	name := "run"
	if run.Scene != nil && run.Scene.Name != "" {
		name = run.Scene.Name
	}
	runID := run.ID
	if runID == "" {
		runID = fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scene:       name,
		Timestamp:   time.Now(),
		Seed:        run.Seed,
		Dt:          run.Dt,
		Duration:    run.Duration,
		SampleEvery: run.SampleEvery,
		Steps:       run.Result.Steps,
		Frames:      len(run.Result.Frames),
		FinalBodies: len(run.Result.Final().Bodies),
		Metrics:     run.Result.Metrics,
		Stats:       run.Result.Stats,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), run.Result.Frames); err != nil {
		return "", err
	}
	if run.Scene != nil {
		if err := config.Save(filepath.Join(runDir, sceneFile), run.Scene); err != nil {
			return "", err
		}
	}
	if run.Snapshot != nil {
		if err := s.SaveSnapshot(runID, *run.Snapshot); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []dynamo.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	for _, fr := range frames {
		for i, b := range fr.Bodies {
			row := []string{
				formatFloat(fr.Time),
				strconv.Itoa(i),
				formatFloat(b.Position.X()),
				formatFloat(b.Position.Y()),
				formatFloat(b.Position.Z()),
				formatFloat(b.Velocity.X()),
				formatFloat(b.Velocity.Y()),
				formatFloat(b.Velocity.Z()),
				formatFloat(b.Radius),
				formatFloat(b.Mass),
				strconv.FormatBool(b.Static),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SaveSnapshot writes the world snapshot of an existing run.
func (s *Store) SaveSnapshot(runID string, snap physics.Snapshot) error {
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return os.WriteFile(filepath.Join(s.baseDir, runID, snapshotFile), data, 0644)
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads frames.csv back into frames. Rows are grouped by time;
// momentum is recomputed from the bodies.
func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]dynamo.Frame, 0)
	for i := 1; i < len(records); i++ {
		t, b, err := parseRow(records[i])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+1, err)
		}

		if len(frames) == 0 || frames[len(frames)-1].Time != t {
			frames = append(frames, dynamo.Frame{Time: t})
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, b)
		last.Momentum += b.Mass * b.Velocity.Len()
	}

	return frames, nil
}

func parseRow(record []string) (float64, dynamo.BodyView, error) {
	var vals [10]float64
	for j := 0; j < 10; j++ {
		if j == 1 {
			continue
		}
		v, err := strconv.ParseFloat(record[j], 64)
		if err != nil {
			return 0, dynamo.BodyView{}, err
		}
		vals[j] = v
	}
	static, err := strconv.ParseBool(record[10])
	if err != nil {
		return 0, dynamo.BodyView{}, err
	}

	return vals[0], dynamo.BodyView{
		Position: mgl64.Vec3{vals[2], vals[3], vals[4]},
		Velocity: mgl64.Vec3{vals[5], vals[6], vals[7]},
		Radius:   vals[8],
		Mass:     vals[9],
		Static:   static,
	}, nil
}

func (s *Store) LoadSnapshot(runID string) (*physics.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, snapshotFile))
	if err != nil {
		return nil, err
	}

	var snap physics.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// LoadScene returns the scene a run was made with.
func (s *Store) LoadScene(runID string) (*config.Scene, error) {
	return config.Load(filepath.Join(s.baseDir, runID, sceneFile))
}

type export struct {
	Metadata *RunMetadata   `json:"metadata"`
	Frames   []dynamo.Frame `json:"frames"`
}

// ExportJSON writes a run's metadata and frames as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export{Metadata: meta, Frames: frames})
}

// ExportCSV copies a run's frames.csv to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
