package models

import "encoding/json"

// ModeKind names a model mode on the wire
type ModeKind string

const (
	ModeNone       ModeKind = "none"
	ModeSonnetOnly ModeKind = "sonnet_only"
	ModeAllSame    ModeKind = "all_same"
	ModeSplitThree ModeKind = "split_three"
)

// ModeKinds lists every kind in menu order.
var ModeKinds = []ModeKind{ModeNone, ModeSonnetOnly, ModeAllSame, ModeSplitThree}

// ParseModeKind maps a wire value to a kind. Unknown values fall back to
// sonnet_only with ok=false.
func ParseModeKind(s string) (ModeKind, bool) {
	switch ModeKind(s) {
	case ModeNone, ModeSonnetOnly, ModeAllSame, ModeSplitThree:
		return ModeKind(s), true
	}
	return ModeSonnetOnly, false
}

// UnmarshalJSON accepts any string and coerces unknown values to sonnet_only.
func (k *ModeKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k, _ = ParseModeKind(s)
	return nil
}

// ModelMode selects which default-model variables a profile exports.
// The set of implementations is closed: NoModels, SonnetOnly, AllSame, SplitThree.
type ModelMode interface {
	Kind() ModeKind
	isModelMode()
}

// NoModels exports no model variables
type NoModels struct{}

// SonnetOnly exports only the sonnet default model
type SonnetOnly struct {
	Sonnet string
}

// AllSame exports one model under haiku, sonnet and opus
type AllSame struct {
	Shared string
}

// SplitThree exports each model independently
type SplitThree struct {
	Haiku  string
	Sonnet string
	Opus   string
}

func (NoModels) Kind() ModeKind   { return ModeNone }
func (SonnetOnly) Kind() ModeKind { return ModeSonnetOnly }
func (AllSame) Kind() ModeKind    { return ModeAllSame }
func (SplitThree) Kind() ModeKind { return ModeSplitThree }

func (NoModels) isModelMode()   {}
func (SonnetOnly) isModelMode() {}
func (AllSame) isModelMode()    {}
func (SplitThree) isModelMode() {}

// BuildMode assembles the variant for kind from flat fields, keeping only
// the ones the kind uses.
func BuildMode(kind ModeKind, shared, haiku, sonnet, opus string) ModelMode {
	switch kind {
	case ModeNone:
		return NoModels{}
	case ModeAllSame:
		return AllSame{Shared: shared}
	case ModeSplitThree:
		return SplitThree{Haiku: haiku, Sonnet: sonnet, Opus: opus}
	default:
		return SonnetOnly{Sonnet: sonnet}
	}
}

// EffectiveModels returns the haiku, sonnet and opus values a mode exports.
func EffectiveModels(mode ModelMode) (haiku, sonnet, opus string) {
	switch m := mode.(type) {
	case SonnetOnly:
		return "", m.Sonnet, ""
	case AllSame:
		return m.Shared, m.Shared, m.Shared
	case SplitThree:
		return m.Haiku, m.Sonnet, m.Opus
	}
	return "", "", ""
}
