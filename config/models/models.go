// Package models holds the persisted profile document and its parts.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// DocumentVersion is the only schema version written to disk.
const DocumentVersion = 1

// DefaultProviderName is used when a profile has no provider label.
const DefaultProviderName = "custom"

// TimestampLayout is ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Profile is one named credential/model configuration
type Profile struct {
	ID           string
	Name         string
	ProviderName string
	BaseURL      string
	APIKey       string
	Mode         ModelMode
	ExtraEnv     EnvVars
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProfileID returns a fresh, time-ordered profile identifier.
func NewProfileID() string {
	return "profile_" + strings.ToLower(ulid.Make().String())
}

// FormatTimestamp renders t the way profiles store timestamps.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ModeKind returns the kind of the profile's model mode, treating a nil mode as none.
func (p Profile) ModeKind() ModeKind {
	if p.Mode == nil {
		return ModeNone
	}
	return p.Mode.Kind()
}

// Clone returns a deep copy of the profile
func (p Profile) Clone() Profile {
	p.ExtraEnv = p.ExtraEnv.Clone()
	return p
}

// profileJSON is the flat wire shape of a Profile
type profileJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ProviderName string   `json:"providerName"`
	BaseURL      string   `json:"baseUrl,omitempty"`
	APIKey       string   `json:"apiKey,omitempty"`
	ModelMode    ModeKind `json:"modelMode"`
	SharedModel  string   `json:"sharedModel,omitempty"`
	SonnetModel  string   `json:"sonnetModel,omitempty"`
	HaikuModel   string   `json:"haikuModel,omitempty"`
	OpusModel    string   `json:"opusModel,omitempty"`
	ExtraEnv     EnvVars  `json:"extraEnv,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

// MarshalJSON writes the profile flat, emitting only the model fields of its mode.
func (p Profile) MarshalJSON() ([]byte, error) {
	wire := profileJSON{
		ID:           p.ID,
		Name:         p.Name,
		ProviderName: p.ProviderName,
		BaseURL:      p.BaseURL,
		APIKey:       p.APIKey,
		ModelMode:    p.ModeKind(),
		ExtraEnv:     p.ExtraEnv,
		CreatedAt:    FormatTimestamp(p.CreatedAt),
		UpdatedAt:    FormatTimestamp(p.UpdatedAt),
	}
	if wire.ProviderName == "" {
		wire.ProviderName = DefaultProviderName
	}

	switch mode := p.Mode.(type) {
	case SonnetOnly:
		wire.SonnetModel = mode.Sonnet
	case AllSame:
		wire.SharedModel = mode.Shared
	case SplitThree:
		wire.HaikuModel = mode.Haiku
		wire.SonnetModel = mode.Sonnet
		wire.OpusModel = mode.Opus
	}

	return json.Marshal(wire)
}

// UnmarshalJSON decodes the strict wire shape. Tolerant decoding of damaged
// documents lives in the normalize package.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var wire profileJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	kind, ok := ParseModeKind(string(wire.ModelMode))
	if !ok {
		return fmt.Errorf("unknown model mode %q", wire.ModelMode)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, wire.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid createdAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, wire.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invalid updatedAt: %w", err)
	}

	*p = Profile{
		ID:           wire.ID,
		Name:         wire.Name,
		ProviderName: wire.ProviderName,
		BaseURL:      wire.BaseURL,
		APIKey:       wire.APIKey,
		Mode:         BuildMode(kind, wire.SharedModel, wire.HaikuModel, wire.SonnetModel, wire.OpusModel),
		ExtraEnv:     wire.ExtraEnv,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
	return nil
}

// Document is the persisted profile collection
type Document struct {
	Version         int       `json:"version"`
	ActiveProfileID *string   `json:"activeProfileId"`
	Profiles        []Profile `json:"profiles"`
}

// NewDocument returns an empty version-1 document.
func NewDocument() *Document {
	return &Document{
		Version:  DocumentVersion,
		Profiles: []Profile{},
	}
}

// ActiveID returns the active profile id, or "" when none is set.
func (d *Document) ActiveID() string {
	if d == nil || d.ActiveProfileID == nil {
		return ""
	}
	return *d.ActiveProfileID
}

// SetActive points the document at id; an empty id clears the pointer.
func (d *Document) SetActive(id string) {
	if id == "" {
		d.ActiveProfileID = nil
		return
	}
	d.ActiveProfileID = &id
}

// Index returns the position of the profile with id, or -1.
func (d *Document) Index(id string) int {
	for i := range d.Profiles {
		if d.Profiles[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the profile with id.
func (d *Document) Find(id string) (Profile, bool) {
	if i := d.Index(id); i >= 0 {
		return d.Profiles[i], true
	}
	return Profile{}, false
}

// Active returns the active profile if the pointer resolves.
func (d *Document) Active() (Profile, bool) {
	id := d.ActiveID()
	if id == "" {
		return Profile{}, false
	}
	return d.Find(id)
}

// Remove deletes the profile with id and clears the active pointer if it
// referenced it. It reports whether anything was removed.
func (d *Document) Remove(id string) bool {
	i := d.Index(id)
	if i < 0 {
		return false
	}
	d.Profiles = append(d.Profiles[:i], d.Profiles[i+1:]...)
	if d.ActiveID() == id {
		d.ActiveProfileID = nil
	}
	return true
}

// Clone returns a deep copy so callers can mutate without touching a snapshot.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	out := &Document{
		Version:  d.Version,
		Profiles: make([]Profile, len(d.Profiles)),
	}
	if d.ActiveProfileID != nil {
		id := *d.ActiveProfileID
		out.ActiveProfileID = &id
	}
	for i, p := range d.Profiles {
		out.Profiles[i] = p.Clone()
	}
	return out
}
