package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

type project struct {
	Version string   `yaml:"version" json:"version"`
	Genders []string `yaml:"genders" json:"genders"`
	LogsDir string   `yaml:"logs_dir" json:"logs_dir"`
}

func TestDecodeSettings(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		wantErr  bool
	}{
		{"yaml", "audioproject.yaml", "version: 1.21.4\ngenders: [FEMALE]\n", false},
		{"yml", "audioproject.yml", "version: 1.21.4\ngenders:\n  - FEMALE\n", false},
		{"json", "audioproject.json", `{"version":"1.21.4","genders":["FEMALE"]}`, false},
		{"bad yaml", "audioproject.yaml", "version: [", true},
		{"bad json", "audioproject.json", "{", true},
		{"unknown yaml key", "audioproject.yaml", "version: 1.21.4\ngenders: [FEMALE]\nvoice_per_language: 2\n", true},
		{"unknown json key", "audioproject.json", `{"version":"1.21.4","genders":["FEMALE"],"gender":"MALE"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := project{LogsDir: "Logs"}
			err := DecodeSettings([]byte(tt.data), tt.filename, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeSettings() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if p.Version != "1.21.4" || len(p.Genders) != 1 || p.Genders[0] != "FEMALE" {
				t.Errorf("decoded %+v", p)
			}
			if p.LogsDir != "Logs" {
				t.Errorf("default LogsDir overwritten: %q", p.LogsDir)
			}
		})
	}
}

func TestDecodeSettingsEmpty(t *testing.T) {
	p := project{Version: "1.21.4"}
	if err := DecodeSettings(nil, "audioproject.yaml", &p); err != nil {
		t.Fatal(err)
	}
	if p.Version != "1.21.4" {
		t.Errorf("Version = %q", p.Version)
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audioproject.yaml")
	if err := os.WriteFile(path, []byte("version: 1.20.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var p project
	if err := LoadSettings(path, &p); err != nil {
		t.Fatal(err)
	}
	if p.Version != "1.20.1" {
		t.Errorf("Version = %q", p.Version)
	}
	err := LoadSettings(filepath.Join(dir, "missing.yaml"), &p)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadSettings(missing) = %v, want ErrNotExist", err)
	}
}
