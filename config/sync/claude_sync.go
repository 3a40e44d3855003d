package sync

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"ccm/config/models"
	"ccm/config/normalize"
	"ccm/config/storage"
)

// Syncer writes profile environments into the Claude CLI settings file
type Syncer struct {
	settingsPath string
	backups      *storage.BackupManager
	log          zerolog.Logger
}

// NewSyncer creates a Syncer for the settings file at settingsPath
func NewSyncer(settingsPath string, logger zerolog.Logger) *Syncer {
	return &Syncer{
		settingsPath: settingsPath,
		backups:      storage.NewBackupManager(storage.DefaultBackupRetention),
		log:          logger.With().Str("component", "sync").Logger(),
	}
}

// Path returns the settings file location
func (s *Syncer) Path() string {
	return s.settingsPath
}

// Preview returns the environment Sync would write for p.
func (s *Syncer) Preview(p models.Profile) models.EnvVars {
	return BuildEnv(p)
}

// Sync replaces the settings file's env object with p's derived environment.
// Every other top-level key is kept as is. A missing file is created.
func (s *Syncer) Sync(p models.Profile) error {
	original, existed, err := storage.ReadRaw(s.settingsPath)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !existed {
		original = []byte("{}")
	}

	env := BuildEnv(p)
	updated, err := UpdateEnvField(original, env)
	if err != nil {
		return err
	}

	err = s.backups.Guard(s.settingsPath, func() error {
		return storage.WriteRaw(s.settingsPath, updated)
	})
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	s.log.Info().
		Str("profile", p.Name).
		Strs("keys", env.Keys()).
		Msg("synced settings env")
	return nil
}

// CurrentEnv reads the env object currently in the settings file. ok is false
// when the file or its env object is absent.
func (s *Syncer) CurrentEnv() (models.EnvVars, bool, error) {
	raw, existed, err := storage.ReadRaw(s.settingsPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings: %w", err)
	}
	if !existed {
		return nil, false, nil
	}
	env := gjson.GetBytes(raw, "env")
	if !env.IsObject() {
		return nil, false, nil
	}
	return normalize.Env(env), true, nil
}

// UpdateEnvField sets content's env object to env, replacing it wholesale.
// content must be a JSON object.
func UpdateEnvField(content []byte, env models.EnvVars) ([]byte, error) {
	if !gjson.ParseBytes(content).IsObject() {
		return nil, fmt.Errorf("settings top level is not an object: %w", storage.ErrMalformed)
	}

	envJSON, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal env: %w", err)
	}

	updated, err := sjson.SetRawBytes(content, "env", envJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to update env field: %w", err)
	}

	if err := validateJSONUpdate(content, updated); err != nil {
		return nil, fmt.Errorf("update validation failed: %w", err)
	}
	return updated, nil
}

// validateJSONUpdate checks that every top-level key other than env survived
// byte for byte.
func validateJSONUpdate(original, updated []byte) error {
	if !gjson.ValidBytes(updated) {
		return fmt.Errorf("updated JSON is invalid")
	}

	after := gjson.ParseBytes(updated)
	var differences []string
	gjson.ParseBytes(original).ForEach(func(key, value gjson.Result) bool {
		if key.Str == "env" {
			return true
		}
		got := after.Get(gjson.Escape(key.Str))
		if !got.Exists() {
			differences = append(differences, key.Str+" (missing)")
		} else if got.Raw != value.Raw {
			differences = append(differences, key.Str)
		}
		return true
	})
	if len(differences) > 0 {
		return fmt.Errorf("unexpected changes to non-env fields: %s", strings.Join(differences, ", "))
	}
	return nil
}
