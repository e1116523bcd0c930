// Package save persists wave progress between runs.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quasilyte/gdata"

	"github.com/milk9111/hordewave/wave"
)

const progressKey = "progress"

var ErrNoProgress = errors.New("save: no progress stored")

// ItemStore is the key/value surface of a gdata manager.
type ItemStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// Record is what is stored: the resumable progress plus the best wave
// ever reached.
type Record struct {
	Progress wave.Progress `json:"progress"`
	BestWave int           `json:"best_wave"`
}

type ProgressStore struct {
	items  ItemStore
	logger *slog.Logger
}

// Open creates a store under the per-user data directory for appName.
func Open(appName string, logger *slog.Logger) (*ProgressStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("save: open %s: %w", appName, err)
	}
	return NewProgressStore(m, logger), nil
}

func NewProgressStore(items ItemStore, logger *slog.Logger) *ProgressStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressStore{items: items, logger: logger.With("subsystem", "save")}
}

// Load returns the stored record or ErrNoProgress.
func (s *ProgressStore) Load() (Record, error) {
	data, err := s.items.LoadItem(progressKey)
	if err != nil {
		return Record{}, fmt.Errorf("save: load: %w", err)
	}
	if len(data) == 0 {
		return Record{}, ErrNoProgress
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("save: decode: %w", err)
	}
	return rec, nil
}

// Save stores p and raises the best wave if p went further.
func (s *ProgressStore) Save(p wave.Progress) error {
	rec := Record{Progress: p, BestWave: p.Wave}
	if prev, err := s.Load(); err == nil {
		rec.BestWave = max(rec.BestWave, prev.BestWave)
	} else if !errors.Is(err, ErrNoProgress) {
		s.logger.Warn("previous record unreadable; overwriting", "err", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("save: encode: %w", err)
	}
	if err := s.items.SaveItem(progressKey, data); err != nil {
		return fmt.Errorf("save: store: %w", err)
	}
	s.logger.Info("progress saved", "wave", p.Wave, "kills", p.Kills, "best", rec.BestWave)
	return nil
}

// Clear forgets the resumable progress.
func (s *ProgressStore) Clear() error {
	if err := s.items.SaveItem(progressKey, nil); err != nil {
		return fmt.Errorf("save: clear: %w", err)
	}
	return nil
}
