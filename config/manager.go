package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ccm/config/models"
	"ccm/config/normalize"
	"ccm/config/storage"
)

// Manager persists the profile document
type Manager struct {
	path string
	now  func() time.Time
	log  zerolog.Logger
}

// NewManager creates a Manager for the profile store in paths
func NewManager(paths Paths, logger zerolog.Logger) *Manager {
	return &Manager{
		path: paths.ProfilesFile,
		now:  time.Now,
		log:  logger.With().Str("component", "store").Logger(),
	}
}

// Path returns the profile store location
func (m *Manager) Path() string {
	return m.path
}

// Load reads the store. A missing file is created empty and reported with
// created=true. An existing file is normalized and the healed form written
// back. Content that is not JSON is an error wrapping storage.ErrMalformed.
func (m *Manager) Load() (*models.Document, bool, error) {
	raw, ok, err := storage.ReadRaw(m.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load profiles: %w", err)
	}

	if !ok {
		doc := models.NewDocument()
		if err := storage.WriteJSON(m.path, doc); err != nil {
			return nil, false, fmt.Errorf("failed to create profile store: %w", err)
		}
		m.log.Info().Str("path", m.path).Msg("created empty profile store")
		return doc, true, nil
	}

	doc := normalize.Document(raw, m.now())
	if err := storage.WriteJSON(m.path, doc); err != nil {
		return nil, false, fmt.Errorf("failed to write normalized profiles: %w", err)
	}
	m.log.Debug().
		Int("profiles", len(doc.Profiles)).
		Str("active", doc.ActiveID()).
		Msg("loaded profile store")
	return doc, false, nil
}

// Save normalizes doc and writes it. The returned document is what is now on
// disk and should replace the caller's snapshot.
func (m *Manager) Save(doc *models.Document) (*models.Document, error) {
	normalized := normalize.Profiles(doc, m.now())
	if err := storage.WriteJSON(m.path, normalized); err != nil {
		return nil, fmt.Errorf("failed to save profiles: %w", err)
	}
	m.log.Debug().
		Int("profiles", len(normalized.Profiles)).
		Str("active", normalized.ActiveID()).
		Msg("saved profile store")
	return normalized, nil
}
