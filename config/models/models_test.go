package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseModeKind(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   ModeKind
		wantOK bool
	}{
		{"none", "none", ModeNone, true},
		{"sonnet only", "sonnet_only", ModeSonnetOnly, true},
		{"all same", "all_same", ModeAllSame, true},
		{"split three", "split_three", ModeSplitThree, true},
		{"unknown", "everything", ModeSonnetOnly, false},
		{"empty", "", ModeSonnetOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseModeKind(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseModeKind(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEffectiveModels(t *testing.T) {
	tests := []struct {
		name                string
		mode                ModelMode
		haiku, sonnet, opus string
	}{
		{"none", NoModels{}, "", "", ""},
		{"nil", nil, "", "", ""},
		{"sonnet only", SonnetOnly{Sonnet: "s"}, "", "s", ""},
		{"all same", AllSame{Shared: "x"}, "x", "x", "x"},
		{"split", SplitThree{Haiku: "h", Sonnet: "s", Opus: "o"}, "h", "s", "o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, o := EffectiveModels(tt.mode)
			if h != tt.haiku || s != tt.sonnet || o != tt.opus {
				t.Errorf("EffectiveModels() = (%q, %q, %q), want (%q, %q, %q)", h, s, o, tt.haiku, tt.sonnet, tt.opus)
			}
		})
	}
}

func TestProfileMarshalOnlyWritesModeFields(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	p := Profile{
		ID:        "profile_a",
		Name:      "work",
		Mode:      AllSame{Shared: "claude-x"},
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got := string(data)

	for _, want := range []string{
		`"sharedModel":"claude-x"`,
		`"modelMode":"all_same"`,
		`"providerName":"custom"`,
		`"createdAt":"2025-01-02T03:04:05.006Z"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Marshal() = %s, missing %s", got, want)
		}
	}
	for _, absent := range []string{"sonnetModel", "haikuModel", "opusModel", "baseUrl", "apiKey", "extraEnv"} {
		if strings.Contains(got, absent) {
			t.Errorf("Marshal() = %s, should not contain %s", got, absent)
		}
	}
}

func TestProfileJSONRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env := EnvVars{}
	env.Set("B", "2")
	env.Set("A", "1")
	p := Profile{
		ID:           "profile_b",
		Name:         "split",
		ProviderName: "acme",
		BaseURL:      "https://api.example.com",
		APIKey:       "sk-123",
		Mode:         SplitThree{Haiku: "h", Sonnet: "s", Opus: "o"},
		ExtraEnv:     env,
		CreatedAt:    ts,
		UpdatedAt:    ts.Add(time.Hour),
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got Profile
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.Mode != p.Mode {
		t.Errorf("Mode = %#v, want %#v", got.Mode, p.Mode)
	}
	if !got.ExtraEnv.Equal(p.ExtraEnv) {
		t.Errorf("ExtraEnv = %v, want %v", got.ExtraEnv, p.ExtraEnv)
	}
	if !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, p.UpdatedAt)
	}
}

func TestEnvVarsPreservesOrder(t *testing.T) {
	var env EnvVars
	env.Set("Z", "1")
	env.Set("A", "2")
	env.Set("M", "3")
	env.Set("A", "4")

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"Z":"1","A":"4","M":"3"}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var decoded EnvVars
	if err := json.Unmarshal([]byte(`{"b":"x","a":"y"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if keys := strings.Join(decoded.Keys(), ","); keys != "b,a" {
		t.Errorf("Keys() = %s, want b,a", keys)
	}

	decoded.Delete("b")
	if _, ok := decoded.Get("b"); ok {
		t.Error("Get(b) after Delete should be absent")
	}
	if decoded.Len() != 1 {
		t.Errorf("Len() = %d, want 1", decoded.Len())
	}
}

func TestDocumentRemoveClearsActive(t *testing.T) {
	doc := NewDocument()
	doc.Profiles = append(doc.Profiles, Profile{ID: "a"}, Profile{ID: "b"})
	doc.SetActive("b")

	clone := doc.Clone()
	if !clone.Remove("b") {
		t.Fatal("Remove(b) = false, want true")
	}
	if clone.ActiveProfileID != nil {
		t.Errorf("ActiveProfileID = %v, want nil", *clone.ActiveProfileID)
	}
	if doc.ActiveID() != "b" || len(doc.Profiles) != 2 {
		t.Error("Clone() should not share state with the original")
	}
	if clone.Remove("missing") {
		t.Error("Remove(missing) = true, want false")
	}
}

func TestNewProfileIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewProfileID()
		if !strings.HasPrefix(id, "profile_") {
			t.Fatalf("NewProfileID() = %q, want profile_ prefix", id)
		}
		if seen[id] {
			t.Fatalf("NewProfileID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}
