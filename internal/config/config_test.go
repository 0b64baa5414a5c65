package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPath(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErr     bool
		wantOutput  string
		wantColor   string
		wantProject string
	}{
		{
			name: "valid config",
			content: `output: json
color: always
default_project:
  id: p1
  name: Roadmap`,
			wantOutput:  "json",
			wantColor:   "always",
			wantProject: "p1",
		},
		{
			name:    "empty config",
			content: "",
		},
		{
			name:    "invalid yaml",
			content: "invalid: [yaml",
			wantErr: true,
		},
		{
			name: "partial config",
			content: `output: table
timeout: 45s`,
			wantOutput: "table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")

			if tt.content != "" {
				if err := os.WriteFile(configPath, []byte(tt.content), 0o600); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}
			}

			cfg, err := LoadFromPath(configPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadFromPath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}

			if cfg.GetOutput() != tt.wantOutput {
				t.Errorf("GetOutput() = %v, want %v", cfg.GetOutput(), tt.wantOutput)
			}
			if cfg.GetColor() != tt.wantColor {
				t.Errorf("GetColor() = %v, want %v", cfg.GetColor(), tt.wantColor)
			}
			project := cfg.GetDefaultProject()
			if tt.wantProject == "" {
				if project != nil {
					t.Errorf("GetDefaultProject() = %+v, want nil", project)
				}
			} else if project == nil || project.ID != tt.wantProject {
				t.Errorf("GetDefaultProject() = %+v, want id %v", project, tt.wantProject)
			}
		})
	}
}

func TestLoadFromPath_NonExistent(t *testing.T) {
	cfg, err := LoadFromPath("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("LoadFromPath() should return empty config for nonexistent file, got error: %v", err)
	}
	if cfg == nil {
		t.Error("LoadFromPath() returned nil config")
	}
}

func TestSaveToPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := &Config{
		Output:         "json",
		Color:          "auto",
		Timeout:        45 * time.Second,
		DefaultProject: &ProjectRef{ID: "p1", Name: "Roadmap"},
	}

	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	// Verify file was created with correct permissions
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("failed to stat config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file permissions = %v, want 0600", info.Mode().Perm())
	}

	// Load it back and verify content
	loaded, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if loaded.Output != cfg.Output {
		t.Errorf("loaded.Output = %v, want %v", loaded.Output, cfg.Output)
	}
	if loaded.Color != cfg.Color {
		t.Errorf("loaded.Color = %v, want %v", loaded.Color, cfg.Color)
	}
	if loaded.Timeout != cfg.Timeout {
		t.Errorf("loaded.Timeout = %v, want %v", loaded.Timeout, cfg.Timeout)
	}
	project := loaded.GetDefaultProject()
	if project == nil || project.ID != "p1" || project.Name != "Roadmap" {
		t.Errorf("loaded default project = %+v, want p1/Roadmap", project)
	}
}

func TestSaveToPath_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := &Config{Output: "json"}
	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	// Verify directory was created
	dirInfo, err := os.Stat(filepath.Dir(configPath))
	if err != nil {
		t.Fatalf("failed to stat config directory: %v", err)
	}
	if !dirInfo.IsDir() {
		t.Error("config path is not a directory")
	}
	if dirInfo.Mode().Perm() != 0o700 {
		t.Errorf("config directory permissions = %v, want 0700", dirInfo.Mode().Perm())
	}
}

func TestDefaultProject_SetGetClear(t *testing.T) {
	cfg := &Config{}

	if cfg.GetDefaultProject() != nil {
		t.Error("expected no default project initially")
	}

	if err := cfg.SetDefaultProject("", "x"); err == nil {
		t.Error("expected error for empty project id")
	}

	if err := cfg.SetDefaultProject("p1", "Roadmap"); err != nil {
		t.Fatalf("SetDefaultProject() error = %v", err)
	}
	project := cfg.GetDefaultProject()
	if project == nil || project.ID != "p1" || project.Name != "Roadmap" {
		t.Errorf("GetDefaultProject() = %+v", project)
	}

	// Returned ref is a copy; mutating it must not touch the config.
	project.ID = "mutated"
	if cfg.GetDefaultProject().ID != "p1" {
		t.Error("GetDefaultProject() should return a copy")
	}

	cfg.ClearDefaultProject()
	if cfg.GetDefaultProject() != nil {
		t.Error("expected no default project after clear")
	}
	// Clearing twice is fine.
	cfg.ClearDefaultProject()
}

func TestDefaultProject_RoundTripThroughFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	restore := SetConfigPathFunc(func() (string, error) { return configPath, nil })
	defer SetConfigPathFunc(restore)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetDefaultProject("p9", "Website"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	project := reloaded.GetDefaultProject()
	if project == nil || project.ID != "p9" {
		t.Errorf("expected default project to survive reload, got %+v", project)
	}
}
