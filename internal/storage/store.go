package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/cutlapse/internal/timeline"
)

var ErrNoRunID = errors.New("storage: run id is required")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one export run.
type RunMetadata struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Field     string    `json:"field"`
	Mode      string    `json:"mode"`
	StartYear int       `json:"start_year"`
	EndYear   int       `json:"end_year"`
	Frames    int       `json:"frames"`
	SpeedMs   int       `json:"speed_ms"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	GIF       string    `json:"gif,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRunID names a run after its year range and the current time.
func NewRunID(start, end int) string {
	return fmt.Sprintf("%d-%d_%d", start, end, time.Now().UnixNano())
}

// Dir is where the files of run id live.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.baseDir, id)
}

// Save writes metadata.json and years.csv for meta.ID.
func (s *Store) Save(meta RunMetadata, counts []timeline.Count) error {
	if meta.ID == "" {
		return ErrNoRunID
	}
	runDir := s.Dir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "years.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"year", "count", "cumulative"}); err != nil {
		return err
	}
	for _, c := range counts {
		row := []string{strconv.Itoa(c.Year), strconv.Itoa(c.Count), strconv.Itoa(c.Cumulative)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadCounts reads years.csv back. Malformed rows are skipped.
func (s *Store) LoadCounts(runID string) ([]timeline.Count, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), "years.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []timeline.Count{}, nil
	}

	counts := make([]timeline.Count, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		var vals [3]int
		ok := true
		for i := range vals {
			v, err := strconv.Atoi(record[i])
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		counts = append(counts, timeline.Count{Year: vals[0], Count: vals[1], Cumulative: vals[2]})
	}
	return counts, nil
}
