package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Server.Port)
	}
	if !cfg.Server.Playground {
		t.Error("Playground should be enabled by default")
	}
	if cfg.Auth.Identity != "anonymous" {
		t.Errorf("Identity = %q, want \"anonymous\"", cfg.Auth.Identity)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if len(cfg.Statuses) != 4 {
		t.Errorf("len(Statuses) = %d, want 4", len(cfg.Statuses))
	}
	if cfg.Catalog.Path != "" {
		t.Errorf("Catalog.Path = %q, want empty", cfg.Catalog.Path)
	}
}

func TestDefaultStatusesAreCopied(t *testing.T) {
	want := DefaultStatuses[0].Color

	cfg := Default()
	cfg.Statuses[0].Color = "#000000"
	cfg.Statuses = append(cfg.Statuses[:1], cfg.Statuses[2:]...)

	if DefaultStatuses[0].Color != want {
		t.Errorf("DefaultStatuses[0].Color = %q after editing a config, want %q", DefaultStatuses[0].Color, want)
	}
	if got := Default().Statuses; len(got) != len(DefaultStatuses) || got[1] != DefaultStatuses[1] {
		t.Errorf("Default().Statuses = %v, want %v", got, DefaultStatuses)
	}
}

func TestGetStatus(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name      string
		wantColor string
		wantNil   bool
	}{
		{"WATCHED", "green", false},
		{"INTERESTED", "yellow", false},
		{"NOT_INTERESTED", "red", false},
		{"UNKNOWN", "gray", false},
		{"watched", "", true}, // case sensitive
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.GetStatus(tt.name)
			if tt.wantNil {
				if got != nil {
					t.Errorf("GetStatus(%q) = %v, want nil", tt.name, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("GetStatus(%q) = nil, want non-nil", tt.name)
			}
			if got.Color != tt.wantColor {
				t.Errorf("GetStatus(%q).Color = %q, want %q", tt.name, got.Color, tt.wantColor)
			}
		})
	}
}

func TestStatusColor(t *testing.T) {
	cfg := Default()
	if got := cfg.StatusColor("WATCHED"); got != "green" {
		t.Errorf("StatusColor(WATCHED) = %q, want green", got)
	}
	if got := cfg.StatusColor("nope"); got != "gray" {
		t.Errorf("StatusColor(nope) = %q, want gray", got)
	}
}

func TestAddr(t *testing.T) {
	cfg := Default()
	if got := cfg.Addr(); got != ":4000" {
		t.Errorf("Addr() = %q, want :4000", got)
	}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8080
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}

func TestLoadNonExistent(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFile))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Port = %d, want default", cfg.Server.Port)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), ConfigFile)
	content := `
[server]
host = "127.0.0.1"
port = 8080
playground = false

[catalog]
path = "movies.yml"
watch = true

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8080 || cfg.Server.Playground {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Catalog.Path != "movies.yml" || !cfg.Catalog.Watch {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	// Missing sections keep their defaults
	if cfg.Auth.Identity != "anonymous" {
		t.Errorf("Identity = %q, want default", cfg.Auth.Identity)
	}
	if len(cfg.Statuses) != 4 {
		t.Errorf("len(Statuses) = %d, want defaults", len(cfg.Statuses))
	}
}

func TestLoadCustomStatuses(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), ConfigFile)
	content := `
[[statuses]]
name = "WATCHED"
color = "#00ff00"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Statuses) != 1 || cfg.StatusColor("WATCHED") != "#00ff00" {
		t.Errorf("Statuses = %+v", cfg.Statuses)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestLoadPortEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)

	t.Setenv("PORT", "5555")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 5555 {
		t.Errorf("Port = %d, want 5555", cfg.Server.Port)
	}

	t.Setenv("PORT", "abc")
	if _, err := Load(path); err == nil {
		t.Error("expected error for non-numeric PORT")
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), ConfigFile)

	cfg := Default()
	cfg.Server.Port = 9999
	cfg.Auth.Identity = "shiva"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("Port = %d, want 9999", loaded.Server.Port)
	}
	if loaded.Auth.Identity != "shiva" {
		t.Errorf("Identity = %q, want shiva", loaded.Auth.Identity)
	}
}
