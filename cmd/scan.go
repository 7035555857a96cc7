package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/cscan-cli/internal/browser"
	"github.com/khanhnv2901/cscan-cli/internal/scanner"
	consts "github.com/khanhnv2901/cscan-cli/internal/shared/constants"
	scanerrors "github.com/khanhnv2901/cscan-cli/internal/shared/errors"
)

// RunMetadata describes one CLI scan invocation in the results file.
type RunMetadata struct {
	Target      string    `json:"target"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Version     string    `json:"version"`
}

// RunOutput is the envelope written to the results directory.
type RunOutput struct {
	Metadata RunMetadata         `json:"metadata"`
	Result   *scanner.ScanResult `json:"result"`
}

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a page for cookies that appear only after consent acceptance",
	Long: `Visit the target twice around a cookie-banner acceptance attempt.

The scan navigates to the URL, waits for the page to settle, snapshots the
cookie jar, tries to activate an "accept all" consent control, waits again
and snapshots a second time. Cookies present only in the second snapshot are
the consent-gated ones.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		outName, _ := cmd.Flags().GetString("out")
		pretty, _ := cmd.Flags().GetBool("pretty")
		noHeadless, _ := cmd.Flags().GetBool("no-headless")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if err := scanner.ValidateTarget(target); err != nil {
			return err
		}

		headless := headlessEnabled() && !noHeadless
		s := scanner.New(browser.NewChromeLauncher(headless), logger)
		s.Policy = scanPolicy()
		if timeout > 0 {
			s.Policy.NavigationTimeout = timeout
		}

		started := time.Now().UTC()
		result, err := s.Scan(context.Background(), target)
		if err != nil {
			switch {
			case errors.Is(err, scanerrors.ErrNavigationTimeout):
				fmt.Printf("%s navigation did not complete within %s\n", colorError("✗"), s.Policy.NavigationTimeout)
			case errors.Is(err, scanerrors.ErrBrowserLaunch):
				fmt.Printf("%s could not start the browser (is Chrome installed?)\n", colorError("✗"))
			}
			return err
		}

		output := RunOutput{
			Metadata: RunMetadata{
				Target:      target,
				StartedAt:   started,
				CompletedAt: time.Now().UTC(),
				Version:     Version,
			},
			Result: result,
		}

		resultsPath, err := resolveResultsPath(resultsDir, outName)
		if err != nil {
			return err
		}
		if err := writeResults(resultsPath, output, pretty); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}

		printSummary(result, resultsPath)
		return nil
	},
}

func writeResults(path string, output RunOutput, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(output, "", "  ")
	} else {
		data, err = json.Marshal(output)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), consts.DefaultFilePerm)
}

func printSummary(result *scanner.ScanResult, resultsPath string) {
	fmt.Println(colorSuccess("Scan complete."))
	fmt.Printf("%s %s\n", colorInfo("Target:"), result.URL)
	if result.ConsentAccepted {
		fmt.Printf("%s accepted via %s\n", colorInfo("Consent:"), result.ConsentMatcher)
	} else {
		fmt.Printf("%s %s\n", colorInfo("Consent:"), colorWarn("no consent control found"))
	}
	fmt.Printf("%s pre=%d post=%d added_after_consent=%d\n",
		colorInfo("Cookies:"), len(result.Pre), len(result.Post), len(result.Diff))

	if len(result.Diff) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDOMAIN\tPATH\tPARTY\tEXPIRES")
		for _, c := range result.Diff {
			expires := c.ExpiresISO
			if expires == "" {
				expires = "session"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Domain, c.Path, partyLabel(c.FirstParty), expires)
		}
		w.Flush()
	}

	fmt.Printf("\n%s %s\n", colorInfo("Results:"), resultsPath)
}

func init() {
	scanCmd.Flags().String("out", "scan_results.json", "Results filename (written to the results directory)")
	scanCmd.Flags().Bool("pretty", false, "Indent the results JSON")
	scanCmd.Flags().Bool("no-headless", false, "Run the browser with a visible window")
	scanCmd.Flags().Duration("timeout", 0, "Navigation timeout override (default 45s)")
}
