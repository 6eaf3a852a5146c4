package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Voice catalog",
}

var voicesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the provider voice catalog and save it",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		dc, err := getContext()
		if err != nil {
			return err
		}
		var cl closers
		defer cl.Close()
		prov, _, err := newProvider(cmd.Context(), dc, &cl)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cmd.Context(), p, prov, true)
		if err != nil {
			return err
		}
		return outputResult(catalogSummary(c, ""))
	},
}

var voicesListLanguage string

var voicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saved voice catalog",
	Long: `List voices from the saved catalog, ranked by tier within each language.

Examples:
  audioproject voices list
  audioproject voices list --language de-DE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		dc, err := getContext()
		if err != nil {
			return err
		}
		c, err := voices.LoadFile(p.voiceCatalogPath())
		if err != nil {
			return err
		}
		out := catalogSummary(c, voicesListLanguage)
		out.tiers = p.policy(catalogTiers(dc)).Tiers
		return outputResult(out)
	},
}

func init() {
	voicesListCmd.Flags().StringVarP(&voicesListLanguage, "language", "l", "", "only voices declaring this language code")
	voicesCmd.AddCommand(voicesFetchCmd)
	voicesCmd.AddCommand(voicesListCmd)
}

type catalogOutput struct {
	Voices    int            `json:"voices" yaml:"voices"`
	Languages int            `json:"languages" yaml:"languages"`
	List      voices.Catalog `json:"list,omitempty" yaml:"list,omitempty"`

	tiers voices.Tiers
}

func catalogSummary(c voices.Catalog, language string) catalogOutput {
	out := catalogOutput{Voices: len(c), Languages: len(c.Languages()), tiers: voices.DefaultTiers}
	if language != "" {
		out.List = c.ForLanguage(language)
	} else {
		out.List = c
	}
	return out
}

func (o catalogOutput) Table() string {
	list := slices.Clone(o.List)
	slices.SortStableFunc(list, func(a, b voices.Voice) int {
		la, lb := strings.Join(a.LanguageCodes, ","), strings.Join(b.LanguageCodes, ",")
		if c := strings.Compare(la, lb); c != 0 {
			return c
		}
		return o.tiers.Of(a.ID) - o.tiers.Of(b.ID)
	})
	t := table.New().Headers("Voice", "Languages", "Gender", "Kind", "Tier", "Rate")
	for _, v := range list {
		t.Row(v.ID, strings.Join(v.LanguageCodes, ","), v.Gender.String(),
			o.tiers.Kind(v.ID), fmt.Sprint(o.tiers.Of(v.ID)), fmt.Sprint(v.SampleRateHz))
	}
	return t.String() + fmt.Sprintf("\n%d voices, %d languages", o.Voices, o.Languages)
}
