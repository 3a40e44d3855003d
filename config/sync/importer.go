package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ccm/config/models"
	"ccm/config/normalize"
	"ccm/config/storage"
)

// ImportedProviderName labels profiles created from existing settings
const ImportedProviderName = "imported"

// Importer builds a profile from the env already present in the settings file
type Importer struct {
	settingsPath string
	now          func() time.Time
}

// NewImporter creates an Importer reading settingsPath
func NewImporter(settingsPath string) *Importer {
	return &Importer{settingsPath: settingsPath, now: time.Now}
}

// ImportFromSettings returns a new, unsaved profile named name, or nil when
// there is nothing to import (no file, no env object).
func (im *Importer) ImportFromSettings(name string) (*models.Profile, error) {
	raw, ok, err := storage.ReadRaw(im.settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		return nil, nil
	}

	env := gjson.GetBytes(raw, "env")
	if !env.IsObject() {
		return nil, nil
	}

	p := ProfileFromEnv(env)
	now := im.now().UTC()
	p.ID = models.NewProfileID()
	p.Name = name
	p.CreatedAt = now
	p.UpdatedAt = now
	return &p, nil
}

// ProfileFromEnv inverts BuildEnv for an env object: reserved keys become
// profile fields and the rest become extraEnv in document order.
func ProfileFromEnv(env gjson.Result) models.Profile {
	haiku := readString(env.Get(EnvHaikuModel))
	sonnet := readString(env.Get(EnvSonnetModel))
	opus := readString(env.Get(EnvOpusModel))

	var extra models.EnvVars
	env.ForEach(func(key, value gjson.Result) bool {
		if IsReserved(key.Str) {
			return true
		}
		if s, ok := normalize.Scalar(value); ok {
			extra.Set(key.Str, s)
		}
		return true
	})

	return models.Profile{
		ProviderName: ImportedProviderName,
		BaseURL:      readString(env.Get(EnvBaseURL)),
		APIKey:       readString(env.Get(EnvAuthToken)),
		Mode:         inferMode(haiku, sonnet, opus),
		ExtraEnv:     extra,
	}
}

func inferMode(haiku, sonnet, opus string) models.ModelMode {
	switch {
	case haiku == "" && sonnet == "" && opus == "":
		return models.NoModels{}
	case haiku == "" && sonnet != "" && opus == "":
		return models.SonnetOnly{Sonnet: sonnet}
	case haiku != "" && haiku == sonnet && sonnet == opus:
		return models.AllSame{Shared: sonnet}
	default:
		return models.SplitThree{Haiku: haiku, Sonnet: sonnet, Opus: opus}
	}
}

// readString returns a trimmed string value; blanks and non-strings are absent.
func readString(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.Str)
}
