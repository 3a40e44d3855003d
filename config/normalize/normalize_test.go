package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tidwall/gjson"

	"ccm/config/models"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func TestProfile(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		check  func(t *testing.T, p models.Profile)
	}{
		{
			name:   "not an object",
			input:  `"profile"`,
			wantOK: false,
		},
		{
			name:   "missing id and name",
			input:  `{"providerName":"x"}`,
			wantOK: false,
		},
		{
			name:   "blank id and name",
			input:  `{"id":"  ","name":""}`,
			wantOK: false,
		},
		{
			name:   "missing name uses id",
			input:  `{"id":"p1"}`,
			wantOK: true,
			check: func(t *testing.T, p models.Profile) {
				if p.Name != "p1" {
					t.Errorf("Name = %q, want p1", p.Name)
				}
			},
		},
		{
			name:   "missing id gets a fresh one",
			input:  `{"name":"work"}`,
			wantOK: true,
			check: func(t *testing.T, p models.Profile) {
				if !strings.HasPrefix(p.ID, "profile_") {
					t.Errorf("ID = %q, want generated id", p.ID)
				}
			},
		},
		{
			name:   "numeric id is stringified",
			input:  `{"id":7,"name":"seven"}`,
			wantOK: true,
			check: func(t *testing.T, p models.Profile) {
				if p.ID != "7" {
					t.Errorf("ID = %q, want 7", p.ID)
				}
			},
		},
		{
			name:   "defaults",
			input:  `{"id":"a","name":"b","modelMode":"bogus","sonnetModel":" s ","sharedModel":"ignored"}`,
			wantOK: true,
			check: func(t *testing.T, p models.Profile) {
				if p.ProviderName != "custom" {
					t.Errorf("ProviderName = %q, want custom", p.ProviderName)
				}
				if p.Mode != (models.SonnetOnly{Sonnet: "s"}) {
					t.Errorf("Mode = %#v, want SonnetOnly{s}", p.Mode)
				}
				if !p.CreatedAt.Equal(fixedNow) || !p.UpdatedAt.Equal(fixedNow) {
					t.Errorf("timestamps = %v/%v, want %v", p.CreatedAt, p.UpdatedAt, fixedNow)
				}
			},
		},
		{
			name:   "blank optional strings are absent",
			input:  `{"id":"a","name":"b","baseUrl":"   ","apiKey":"","modelMode":"none"}`,
			wantOK: true,
			check: func(t *testing.T, p models.Profile) {
				if p.BaseURL != "" || p.APIKey != "" {
					t.Errorf("BaseURL/APIKey = %q/%q, want empty", p.BaseURL, p.APIKey)
				}
				if p.Mode != (models.NoModels{}) {
					t.Errorf("Mode = %#v, want NoModels", p.Mode)
				}
			},
		},
		{
			name:   "extraEnv coercion keeps order",
			input:  `{"id":"a","name":"b","extraEnv":{"Z":"z"," N ":1.5,"B":true,"O":{},"":"x","L":[1]}}`,
			wantOK: true,
			check: func(t *testing.T, p models.Profile) {
				got, _ := json.Marshal(p.ExtraEnv)
				if want := `{"Z":"z","N":"1.5","B":"true"}`; string(got) != want {
					t.Errorf("ExtraEnv = %s, want %s", got, want)
				}
			},
		},
		{
			name:   "empty extraEnv is absent",
			input:  `{"id":"a","name":"b","extraEnv":{"X":null}}`,
			wantOK: true,
			check: func(t *testing.T, p models.Profile) {
				if p.ExtraEnv != nil {
					t.Errorf("ExtraEnv = %v, want nil", p.ExtraEnv)
				}
			},
		},
		{
			name:   "valid timestamps are kept",
			input:  `{"id":"a","name":"b","createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"not a date"}`,
			wantOK: true,
			check: func(t *testing.T, p models.Profile) {
				if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !p.CreatedAt.Equal(want) {
					t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, want)
				}
				if !p.UpdatedAt.Equal(fixedNow) {
					t.Errorf("UpdatedAt = %v, want %v", p.UpdatedAt, fixedNow)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Profile(gjson.Parse(tt.input), fixedNow)
			if ok != tt.wantOK {
				t.Fatalf("Profile() ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantCount  int
		wantActive string
	}{
		{"invalid json", `{`, 0, ""},
		{"profiles not an array", `{"profiles":{}}`, 0, ""},
		{"dangling active id", `{"activeProfileId":"gone","profiles":[{"id":"a","name":"a"}]}`, 1, ""},
		{"non-string active id", `{"activeProfileId":1,"profiles":[{"id":"1","name":"a"}]}`, 1, ""},
		{"valid active id", `{"activeProfileId":"b","profiles":[{"id":"a","name":"a"},{"id":"b","name":"b"}]}`, 2, "b"},
		{"discarded entries dropped", `{"profiles":[1,null,{"name":"kept"},{}]}`, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document([]byte(tt.input), fixedNow)
			if doc.Version != models.DocumentVersion {
				t.Errorf("Version = %d, want %d", doc.Version, models.DocumentVersion)
			}
			if len(doc.Profiles) != tt.wantCount {
				t.Errorf("len(Profiles) = %d, want %d", len(doc.Profiles), tt.wantCount)
			}
			if doc.ActiveID() != tt.wantActive {
				t.Errorf("ActiveID() = %q, want %q", doc.ActiveID(), tt.wantActive)
			}
		})
	}
}

func TestDocumentDuplicateIDs(t *testing.T) {
	doc := Document([]byte(`{"profiles":[{"id":"a","name":"one"},{"id":"a","name":"two"}]}`), fixedNow)
	if len(doc.Profiles) != 2 {
		t.Fatalf("len(Profiles) = %d, want 2", len(doc.Profiles))
	}
	if doc.Profiles[0].ID != "a" || doc.Profiles[1].ID == "a" {
		t.Errorf("IDs = %q, %q; want first kept and second reassigned", doc.Profiles[0].ID, doc.Profiles[1].ID)
	}
}

// rawValueGen yields JSON fragments of every type, including blank and padded strings.
func rawValueGen(strs ...string) gopter.Gen {
	values := []interface{}{"", "null", `""`, `"   "`, "42", "true", "{}", "[]"}
	for _, s := range strs {
		values = append(values, fmt.Sprintf("%q", s))
	}
	return gen.OneConstOf(values...)
}

func rawProfileGen() gopter.Gen {
	return gopter.CombineGens(
		rawValueGen("p1", "p2", " p3 "),
		rawValueGen("work", "home"),
		rawValueGen("none", "sonnet_only", "all_same", "split_three", "mystery"),
		rawValueGen("claude-a", " claude-b "),
		rawValueGen("2024-05-06T07:08:09.123Z", "yesterday"),
		gen.OneConstOf("", "null", `{"K":"v","N":3}`, `{" ":"x"}`, `[]`),
		gen.Bool(),
	).Map(func(values []interface{}) string {
		fields := []string{}
		add := func(key string, raw interface{}) {
			if s := raw.(string); s != "" {
				fields = append(fields, fmt.Sprintf("%q:%s", key, s))
			}
		}
		add("id", values[0])
		add("name", values[1])
		add("modelMode", values[2])
		add("sonnetModel", values[3])
		add("sharedModel", values[3])
		add("haikuModel", values[3])
		add("createdAt", values[4])
		add("extraEnv", values[5])
		if values[6].(bool) {
			return "[" + strings.Join(fields, ",") + "]"
		}
		return "{" + strings.Join(fields, ",") + "}"
	})
}

func rawDocumentGen() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOf(rawProfileGen()),
		gen.OneConstOf(`null`, `"p1"`, `"p2"`, `"missing"`, `5`),
	).Map(func(values []interface{}) string {
		profiles := values[0].([]string)
		return fmt.Sprintf(`{"version":1,"activeProfileId":%s,"profiles":[%s]}`,
			values[1].(string), strings.Join(profiles, ","))
	})
}

// Property: normalizing an already normalized document changes nothing.
// Serialized bytes are compared, so timestamps are checked at stored precision.
func TestPropertyNormalizeIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.MaxSize = 6
	properties := gopter.NewProperties(parameters)

	properties.Property("normalize(serialize(normalize(x))) == normalize(x)", prop.ForAll(
		func(raw string) bool {
			once, err := json.Marshal(Document([]byte(raw), fixedNow))
			if err != nil {
				return false
			}
			twice, err := json.Marshal(Document(once, fixedNow.Add(time.Hour)))
			if err != nil {
				return false
			}
			return string(once) == string(twice)
		},
		rawDocumentGen(),
	))

	properties.TestingRun(t)
}

// Property: every normalized document satisfies the store invariants:
// non-empty unique ids and names, a provider label, and an active id that is
// either null or names a surviving profile.
func TestPropertyNormalizedInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.MaxSize = 6
	properties := gopter.NewProperties(parameters)

	properties.Property("normalized documents are well formed", prop.ForAll(
		func(raw string) bool {
			doc := Document([]byte(raw), fixedNow)
			ids := make(map[string]bool)
			for _, p := range doc.Profiles {
				if p.ID == "" || p.Name == "" || p.ProviderName == "" || ids[p.ID] {
					return false
				}
				if p.Mode == nil {
					return false
				}
				ids[p.ID] = true
			}
			if doc.ActiveProfileID != nil && !ids[*doc.ActiveProfileID] {
				return false
			}
			return true
		},
		rawDocumentGen(),
	))

	properties.TestingRun(t)
}
