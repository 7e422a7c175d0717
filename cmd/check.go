package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hmans/moviegraph/internal/moviecore"
	"github.com/hmans/moviegraph/internal/ui"
)

var (
	checkJSON   bool
	checkStrict bool
)

// errCheckFailed is returned when --strict is set and issues were found.
var errCheckFailed = errors.New("check failed")

type checkResult struct {
	Success       bool                   `json:"success"`
	ConfigErrors  []string               `json:"config_errors"`
	CatalogIssues *moviecore.CheckResult `json:"catalog_issues"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and catalog integrity",
	Long: `Checks configuration and catalog integrity, including:
- Status colors in the configuration
- Actor references that name no actor in the catalog
- Movie ids used by more than one movie
- Movies without a title

Dangling actor references are not errors at query time; they are silently
left out of a movie's cast. Use --strict to exit non-zero when any issue is
found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		configErrors := checkConfig()
		catalogResult := core.Check()
		totalIssues := len(configErrors) + catalogResult.TotalIssues()

		if checkJSON {
			result := checkResult{
				Success:       totalIssues == 0,
				ConfigErrors:  configErrors,
				CatalogIssues: catalogResult,
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			printCheck(out, configErrors, catalogResult)
		}

		if checkStrict && totalIssues > 0 {
			return errCheckFailed
		}
		return nil
	},
}

// checkConfig validates the configured status colors.
func checkConfig() []string {
	configErrors := []string{}
	for _, s := range cfg.Statuses {
		if !ui.IsValidColor(s.Color) {
			configErrors = append(configErrors, fmt.Sprintf("invalid color '%s' for status '%s'", s.Color, s.Name))
		}
	}
	return configErrors
}

func printCheck(w io.Writer, configErrors []string, result *moviecore.CheckResult) {
	// === Configuration checks ===
	fmt.Fprintln(w, ui.Bold.Render("Configuration"))
	if len(configErrors) == 0 {
		fmt.Fprintf(w, "  %s All status colors valid\n", ui.Success.Render("✓"))
	}
	for _, e := range configErrors {
		fmt.Fprintf(w, "  %s %s\n", ui.Danger.Render("✗"), e)
	}

	// === Catalog checks ===
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Bold.Render("Catalog"))
	for _, d := range result.DanglingRefs {
		fmt.Fprintf(w, "  %s %s: unknown actor %q\n", ui.Danger.Render("✗"), d.MovieID, d.ActorID)
	}
	for _, d := range result.DuplicateIDs {
		fmt.Fprintf(w, "  %s %s: id used by %d movies\n", ui.Danger.Render("✗"), d.MovieID, d.Count)
	}
	for _, pos := range result.Untitled {
		fmt.Fprintf(w, "  %s movie #%d has no id or title\n", ui.Warning.Render("!"), pos+1)
	}
	if !result.HasIssues() {
		fmt.Fprintf(w, "  %s No catalog issues found\n", ui.Success.Render("✓"))
	}

	// === Summary ===
	totalIssues := len(configErrors) + result.TotalIssues()
	fmt.Fprintln(w)
	switch totalIssues {
	case 0:
		fmt.Fprintln(w, ui.Success.Render("All checks passed"))
	case 1:
		fmt.Fprintln(w, ui.Danger.Render("1 issue found"))
	default:
		fmt.Fprintln(w, ui.Danger.Render(fmt.Sprintf("%d issues found", totalIssues)))
	}
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output as JSON")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Exit with an error when issues are found")
	rootCmd.AddCommand(checkCmd)
}
