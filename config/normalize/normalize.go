// Package normalize turns arbitrary, possibly hand-edited profile JSON into a
// well-formed document. It never fails: bad fields get defaults, unusable
// entries are dropped.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ccm/config/models"
)

// Document normalizes a raw profile store. Invalid JSON yields an empty document.
func Document(raw []byte, now time.Time) *models.Document {
	doc := models.NewDocument()
	if !gjson.ValidBytes(raw) {
		return doc
	}
	root := gjson.ParseBytes(raw)

	seen := make(map[string]bool)
	profiles := root.Get("profiles")
	if profiles.IsArray() {
		profiles.ForEach(func(_, value gjson.Result) bool {
			p, ok := Profile(value, now)
			if !ok {
				return true
			}
			if seen[p.ID] {
				p.ID = models.NewProfileID()
			}
			seen[p.ID] = true
			doc.Profiles = append(doc.Profiles, p)
			return true
		})
	}

	if active := root.Get("activeProfileId"); active.Type == gjson.String && seen[active.Str] {
		doc.SetActive(active.Str)
	}
	return doc
}

// Profile normalizes one entry. ok is false when the entry cannot be repaired.
func Profile(value gjson.Result, now time.Time) (models.Profile, bool) {
	if !value.IsObject() {
		return models.Profile{}, false
	}

	id := identifier(value.Get("id"))
	name := identifier(value.Get("name"))
	switch {
	case id == "" && name == "":
		return models.Profile{}, false
	case id == "":
		id = models.NewProfileID()
	case name == "":
		name = id
	}

	provider := text(value.Get("providerName"))
	if provider == "" {
		provider = models.DefaultProviderName
	}

	kind, _ := models.ParseModeKind(text(value.Get("modelMode")))

	return models.Profile{
		ID:           id,
		Name:         name,
		ProviderName: provider,
		BaseURL:      text(value.Get("baseUrl")),
		APIKey:       text(value.Get("apiKey")),
		Mode: models.BuildMode(kind,
			text(value.Get("sharedModel")),
			text(value.Get("haikuModel")),
			text(value.Get("sonnetModel")),
			text(value.Get("opusModel")),
		),
		ExtraEnv:  Env(value.Get("extraEnv")),
		CreatedAt: timestamp(value.Get("createdAt"), now),
		UpdatedAt: timestamp(value.Get("updatedAt"), now),
	}, true
}

// Profiles re-normalizes an in-memory document through its wire form.
func Profiles(doc *models.Document, now time.Time) *models.Document {
	if doc == nil {
		return models.NewDocument()
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return models.NewDocument()
	}
	return Document(raw, now)
}

// Env reads a string mapping in document order. Keys are trimmed and blank
// keys dropped; numbers and booleans are stringified, other values dropped.
// A result with no entries is nil.
func Env(value gjson.Result) models.EnvVars {
	if !value.IsObject() {
		return nil
	}
	var env models.EnvVars
	value.ForEach(func(key, v gjson.Result) bool {
		k := strings.TrimSpace(key.String())
		if k == "" {
			return true
		}
		if s, ok := Scalar(v); ok {
			env.Set(k, s)
		}
		return true
	})
	if env.Len() == 0 {
		return nil
	}
	return env
}

// Scalar stringifies strings, numbers and booleans. Strings are returned verbatim.
func Scalar(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		return v.Str, true
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64), true
	case gjson.True:
		return "true", true
	case gjson.False:
		return "false", true
	}
	return "", false
}

// text returns a trimmed string field; non-strings count as absent.
func text(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.Str)
}

// identifier is like text but also accepts numbers.
func identifier(v gjson.Result) string {
	if v.Type == gjson.Number {
		s, _ := Scalar(v)
		return s
	}
	return text(v)
}

func timestamp(v gjson.Result, now time.Time) time.Time {
	if v.Type != gjson.String {
		return now.UTC()
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.Str))
	if err != nil {
		return now.UTC()
	}
	return t.UTC()
}
