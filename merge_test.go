package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type loadFixture struct {
	Description string            `json:"description"`
	Cases       []loadFixtureCase `json:"cases"`
}

type loadFixtureCase struct {
	Name      string          `json:"name"`
	Stored    json.RawMessage `json:"stored"`
	Expect    UserSettings    `json:"expect"`
	Defaulted []string        `json:"defaulted"`
	Malformed bool            `json:"malformed"`
}

func readLoadFixture(t *testing.T) loadFixture {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "load_cases.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var fx loadFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return fx
}

func TestDecodeFromFixture(t *testing.T) {
	for _, tc := range readLoadFixture(t).Cases {
		t.Run(tc.Name, func(t *testing.T) {
			got, defaulted, err := Decode(DefaultSettings(), string(tc.Stored))
			if tc.Malformed {
				if !errors.Is(err, ErrMalformedSettings) {
					t.Fatalf("expected ErrMalformedSettings, got %v", err)
				}
				if !got.Equal(DefaultSettings()) {
					t.Fatalf("expected defaults on malformed blob, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !got.Equal(tc.Expect) {
				t.Fatalf("merged record mismatch:\nwant: %+v\n got: %+v", tc.Expect, got)
			}
			if !slices.Equal(defaulted, tc.Defaulted) && !(len(defaulted) == 0 && len(tc.Defaulted) == 0) {
				t.Fatalf("expected defaulted %v, got %v", tc.Defaulted, defaulted)
			}
		})
	}
}

func TestMergeEmptyPartialIsDefaults(t *testing.T) {
	defaults := UserSettings{
		Language:       "Italian",
		DefaultLength:  "8 minutes",
		SelectedThemes: []string{"Courage"},
		SelectedTopics: []string{},
		ChildName:      "Leo",
	}
	for _, partial := range []map[string]any{nil, {}} {
		got, err := Merge(defaults, partial)
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		if !got.Equal(defaults) {
			t.Fatalf("expected defaults, got %+v", got)
		}
	}
}

func TestMergeFullPartialReplacesDefaults(t *testing.T) {
	full := UserSettings{
		Language:       "Portuguese",
		DefaultLength:  "12 minutes",
		SelectedThemes: []string{"Family", "Gardening"},
		SelectedTopics: []string{"Pirates"},
		CustomTheme:    "Gardening",
		CustomTopic:    "",
		ChildName:      "Ana",
	}
	got, err := Merge(DefaultSettings(), full.Snapshot())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !got.Equal(full) {
		t.Fatalf("expected full record, got %+v", got)
	}
}

func TestMergeEveryFieldSubset(t *testing.T) {
	record := UserSettings{
		Language:       "French",
		DefaultLength:  "3 minutes",
		SelectedThemes: []string{"Magic"},
		SelectedTopics: []string{"Space"},
		CustomTheme:    "Trains",
		CustomTopic:    "Ballet",
		ChildName:      "Mia",
	}
	snapshot := record.Snapshot()
	defaults := DefaultSettings()
	fields := Fields()

	for mask := 0; mask < 1<<len(fields); mask++ {
		partial := map[string]any{}
		want := defaults.Clone()
		for i, name := range fields {
			if mask&(1<<i) == 0 {
				continue
			}
			partial[name] = snapshot[name]
			var err error
			if want, err = WithField(want, name, snapshot[name]); err != nil {
				t.Fatalf("with field %s: %v", name, err)
			}
		}
		got, err := Merge(defaults, partial)
		if err != nil {
			t.Fatalf("mask %b: merge: %v", mask, err)
		}
		if !got.Equal(want) {
			t.Fatalf("mask %b: expected %+v, got %+v", mask, want, got)
		}
	}
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	defaults := DefaultSettings()
	defaults.SelectedThemes = []string{"Magic"}
	partial := map[string]any{"selectedTopics": []any{"Space"}}

	got, err := Merge(defaults, partial)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	got.SelectedThemes[0] = "changed"
	if defaults.SelectedThemes[0] != "Magic" {
		t.Fatalf("expected defaults untouched, got %v", defaults.SelectedThemes)
	}
}

func TestMergeIgnoresKeysThatDifferOnlyInCase(t *testing.T) {
	partial := map[string]any{
		"LANGUAGE":    "French",
		"ChildName":   "Zed",
		"Language":    7,
		"customTopic": "Trains",
	}
	got, err := Merge(DefaultSettings(), partial)
	if err != nil {
		t.Fatalf("expected case variants ignored, got %v", err)
	}
	want := DefaultSettings()
	want.CustomTopic = "Trains"
	if !got.Equal(want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	_, defaulted, err := merge(DefaultSettings(), partial)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(defaulted) != len(fieldOrder)-1 {
		t.Fatalf("expected every field but customTopic defaulted, got %v", defaulted)
	}
}
