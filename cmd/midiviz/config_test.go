package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cbegin/midiviz-go"
	"github.com/cbegin/midiviz-go/internal/failure"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Mode != def.Mode || cfg.Padding != def.Padding || cfg.SampleRate != def.SampleRate || cfg.Volume != 1 {
		t.Fatalf("config = %+v, want defaults", cfg)
	}
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Mode = "vertical"
	cfg.Padding = 4
	cfg.Render = map[string]any{"noteColor": "tomato"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Mode != "vertical" || got.Padding != 4 || got.Render["noteColor"] != "tomato" {
		t.Fatalf("loaded = %+v", got)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"mode":"vertical"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "vertical" || cfg.Padding != 2 || cfg.Window.Width != 1100 {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"mode":`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected an error for truncated JSON")
	}
}

func changedSet(names ...string) func(string) bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestOverridePrecedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "vertical"
	cfg.Padding = 5
	cfg.Render = map[string]any{"noteColor": "tomato", "noteHeight": 4}

	filePadding := 1
	p := midiviz.Payload{
		UserConfig: map[string]any{"noteHeight": 6},
		Padding:    &filePadding,
	}

	got, err := applyOverrides(p, cfg, vizFlags{}, changedSet())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Mode != "vertical" || *got.Padding != 1 {
		t.Fatalf("config under payload: mode=%q padding=%d", got.Mode, *got.Padding)
	}
	if got.UserConfig["noteColor"] != "tomato" || got.UserConfig["noteHeight"] != 6 {
		t.Fatalf("userConfig = %v", got.UserConfig)
	}

	flags := vizFlags{mode: "horizontal", padding: 0, height: 120, userConfig: `{"noteHeight": 9}`}
	got, err = applyOverrides(p, cfg, flags, changedSet("mode", "padding", "height"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Mode != "horizontal" || *got.Padding != 0 || *got.ManualHeight != 120 {
		t.Fatalf("flags did not win: %+v", got)
	}
	if got.UserConfig["noteHeight"] != float64(9) {
		t.Fatalf("noteHeight = %v, want 9 from --user-config", got.UserConfig["noteHeight"])
	}
	if p.UserConfig["noteHeight"] != 6 {
		t.Fatalf("payload userConfig was modified in place")
	}
}

func TestOverrideRejectsBadUserConfig(t *testing.T) {
	_, err := applyOverrides(midiviz.Payload{}, DefaultConfig(), vizFlags{userConfig: "[1,2]"}, changedSet())
	if !failure.Is(err, failure.InvalidInput) {
		t.Fatalf("err = %v, want InvalidInput", err)
	}
}

func TestIsMIDI(t *testing.T) {
	cases := map[string]bool{
		"song.mid":   true,
		"SONG.MIDI":  true,
		"notes.json": false,
		"track.wav":  false,
	}
	for path, want := range cases {
		if got := isMIDI(path); got != want {
			t.Fatalf("isMIDI(%q) = %v, want %v", path, got, want)
		}
	}
}
