package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
)

// Document names inside a week folder (and in the root as fallback).
const (
	ScheduleFileName    = "matchups.json"
	PredictionsFileName = "my_picks.json"
)

var seasonDirPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// Ensure FileStore implements DocumentStore.
var _ DocumentStore = (*FileStore)(nil)

// FileStore reads and writes the JSON documents under a root directory laid
// out as <root>/<YYYY-YYYY>/week-<N>/matchups.json.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	if root == "" {
		root = "."
	}
	return &FileStore{root: root}
}

func (s *FileStore) SaveSchedule(path string, schedule *models.Schedule) error {
	return s.writeJSON(path, schedule)
}

func (s *FileStore) LoadSchedule(path string) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := s.readJSON(path, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (s *FileStore) SavePredictions(path string, predictions models.Predictions) error {
	return s.writeJSON(path, predictions)
}

func (s *FileStore) LoadPredictions(path string) (models.Predictions, error) {
	var predictions models.Predictions
	if err := s.readJSON(path, &predictions); err != nil {
		return nil, err
	}
	return predictions, nil
}

// DefaultSchedulePath locates the schedule an extraction run writes and a
// prediction run reads when no path is given: matchups.json in the root if
// present, otherwise the newest season folder's highest week folder.
func (s *FileStore) DefaultSchedulePath() string {
	rootDefault := filepath.Join(s.root, ScheduleFileName)
	if _, err := os.Stat(rootDefault); err == nil {
		return rootDefault
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return rootDefault
	}

	var seasons []string
	for _, e := range entries {
		if e.IsDir() && seasonDirPattern.MatchString(e.Name()) {
			seasons = append(seasons, e.Name())
		}
	}
	if len(seasons) == 0 {
		return rootDefault
	}
	sort.Strings(seasons)
	latestSeason := seasons[len(seasons)-1]

	weekDir := s.latestWeekDir(filepath.Join(s.root, latestSeason))
	if weekDir == "" {
		return rootDefault
	}
	return filepath.Join(weekDir, ScheduleFileName)
}

// PredictionsPathFor returns the picks document path alongside the given
// schedule document.
func PredictionsPathFor(schedulePath string) string {
	return filepath.Join(filepath.Dir(schedulePath), PredictionsFileName)
}

func (s *FileStore) latestWeekDir(seasonDir string) string {
	entries, err := os.ReadDir(seasonDir)
	if err != nil {
		return ""
	}

	best := ""
	bestWeek := -1
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "week-") {
			continue
		}
		week, err := strconv.Atoi(strings.TrimPrefix(e.Name(), "week-"))
		if err != nil {
			continue
		}
		if week > bestWeek {
			bestWeek = week
			best = filepath.Join(seasonDir, e.Name())
		}
	}
	return best
}

func (s *FileStore) writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrDocumentNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
