package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Aufco/AudioProject-Female/pkg/cli"
	"github.com/Aufco/AudioProject-Female/pkg/langtable"
	"github.com/Aufco/AudioProject-Female/pkg/voicematch"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// ProjectFile is read from the work directory when present.
const ProjectFile = "audioproject.yaml"

// Project holds the per-project settings. Relative paths are resolved
// against the work directory.
type Project struct {
	Version string `yaml:"version" json:"version"`

	TranslationsOriginalDir string `yaml:"translations_original_dir" json:"translations_original_dir"`
	TranslationsDir         string `yaml:"translations_dir" json:"translations_dir"`
	ReferenceDir            string `yaml:"reference_dir" json:"reference_dir"`
	ReferenceLocale         string `yaml:"reference_locale" json:"reference_locale"`
	LanguageTable           string `yaml:"language_table" json:"language_table"`
	VoiceCatalog            string `yaml:"voice_catalog" json:"voice_catalog"`
	AudioDir                string `yaml:"audio_dir" json:"audio_dir"`
	ArchiveDir              string `yaml:"archive_dir" json:"archive_dir"`
	LogsDir                 string `yaml:"logs_dir" json:"logs_dir"`

	// Layout is decoded over langtable.DefaultLayout, so a partial block
	// only changes the fields it names.
	Layout            langtable.Layout `yaml:"layout" json:"layout"`
	Genders           []string         `yaml:"genders,omitempty" json:"genders,omitempty"`
	VoicesPerLanguage int              `yaml:"voices_per_language,omitempty" json:"voices_per_language,omitempty"`
	Tiers             voices.Tiers     `yaml:"tiers,omitempty" json:"tiers,omitempty"`
	AlwaysReport      bool             `yaml:"always_report,omitempty" json:"always_report,omitempty"`
}

func defaultProject() Project {
	return Project{
		Version:                 "1.21.4",
		TranslationsOriginalDir: "Translations_Original",
		TranslationsDir:         "Translations",
		ReferenceDir:            "Reference_Files",
		ReferenceLocale:         "en_us_processed.json",
		LanguageTable:           "Minecraft_languages_table.html",
		VoiceCatalog:            "Google-tts-supported-languages.json",
		AudioDir:                ".",
		ArchiveDir:              "Archive",
		LogsDir:                 "Logs",
		Layout:                  langtable.DefaultLayout,
	}
}

// loadProject reads ProjectFile over the defaults. A missing file is not
// an error.
func loadProject() (Project, error) {
	p := defaultProject()
	if err := cli.LoadSettings(ProjectFile, &p); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return p, fmt.Errorf("%s: %w", ProjectFile, err)
		}
	}
	return p, p.validate()
}

func (p Project) validate() error {
	if p.Version == "" {
		return fmt.Errorf("%s: version is empty", ProjectFile)
	}
	if _, err := p.genders(); err != nil {
		return fmt.Errorf("%s: %w", ProjectFile, err)
	}
	if err := p.Layout.Validate(); err != nil {
		return fmt.Errorf("%s: %w", ProjectFile, err)
	}
	return nil
}

func (p Project) genders() ([]voices.Gender, error) {
	if len(p.Genders) == 0 {
		return []voices.Gender{voices.Female}, nil
	}
	gs := make([]voices.Gender, 0, len(p.Genders))
	for _, s := range p.Genders {
		g, err := voices.ParseGender(s)
		if err != nil {
			return nil, err
		}
		gs = append(gs, g)
	}
	return gs, nil
}

// policy builds the selection policy. tiers is the provider default used
// when the project names none.
func (p Project) policy(tiers voices.Tiers) voicematch.Policy {
	pol := voicematch.DefaultPolicy
	pol.Genders, _ = p.genders()
	if p.VoicesPerLanguage > 0 {
		pol.VoicesPerLanguage = p.VoicesPerLanguage
	}
	pol.Tiers = tiers
	if len(p.Tiers) > 0 {
		pol.Tiers = p.Tiers
	}
	pol.AlwaysReport = p.AlwaysReport
	return pol
}

func (p Project) layout() langtable.Layout { return p.Layout }

func (p Project) referencePath(name string) string {
	return filepath.Join(p.ReferenceDir, name)
}

func (p Project) referenceLocalePath() string { return p.referencePath(p.ReferenceLocale) }
func (p Project) languageTablePath() string   { return p.referencePath(p.LanguageTable) }
func (p Project) voiceCatalogPath() string    { return p.referencePath(p.VoiceCatalog) }
func (p Project) logFile() string             { return filepath.Join(p.LogsDir, "log.txt") }

// requireFile fails with a readable message when a required input is
// missing.
func requireFile(what, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s not found: %s", what, path)
		}
		return err
	}
	return nil
}
