package cmd

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"

	"github.com/khanhnv2901/cscan-cli/internal/scanner"
	consts "github.com/khanhnv2901/cscan-cli/internal/shared/constants"
)

const htmlTemplatePath = "templates/report.html"

//go:embed templates/report.html
var reportTemplateFS embed.FS

var htmlTemplateFuncs = template.FuncMap{
	"partyName": partyName,
	"orSession": orSession,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a saved scan result as HTML or PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		if input == "" {
			input = filepath.Join(resultsDir, "scan_results.json")
		}

		run, err := loadRunOutput(input)
		if err != nil {
			return err
		}

		if output == "" {
			base := strings.TrimSuffix(input, filepath.Ext(input))
			output = base + "." + format
		}

		switch format {
		case "html":
			err = renderHTMLReport(run, output)
		case "pdf":
			err = renderPDFReport(run, output)
		default:
			return fmt.Errorf("unsupported format %q (want html or pdf)", format)
		}
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}

		fmt.Printf("%s Report written to %s\n", colorSuccess("✓"), output)
		return nil
	},
}

func loadRunOutput(path string) (*RunOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}
	var run RunOutput
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	if run.Result == nil {
		return nil, fmt.Errorf("results file %s contains no scan result", path)
	}
	return &run, nil
}

func renderHTMLReport(run *RunOutput, output string) error {
	tmpl, err := template.New(filepath.Base(htmlTemplatePath)).
		Funcs(htmlTemplateFuncs).
		ParseFS(reportTemplateFS, htmlTemplatePath)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, consts.DefaultFilePerm)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, run)
}

func renderPDFReport(run *RunOutput, output string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Cookie Consent Scan Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Target: "+run.Result.URL)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Scanned: "+run.Metadata.CompletedAt.Format("2006-01-02 15:04:05 UTC"))
	pdf.Ln(6)
	consent := "no consent control found"
	if run.Result.ConsentAccepted {
		consent = "accepted via " + run.Result.ConsentMatcher
	}
	pdf.Cell(0, 6, "Consent: "+consent)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Cookies: %d before consent, %d after, %d added after consent",
		len(run.Result.Pre), len(run.Result.Post), len(run.Result.Diff)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Cookies added after consent")
	pdf.Ln(9)

	if len(run.Result.Diff) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "None.")
	} else {
		writePDFCookieTable(pdf, run.Result.Diff)
	}

	return pdf.OutputFileAndClose(output)
}

func writePDFCookieTable(pdf *gofpdf.Fpdf, cookies []scanner.CookieRecord) {
	widths := []float64{45, 50, 25, 25, 45}
	headers := []string{"Name", "Domain", "Path", "Party", "Expires"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, c := range cookies {
		cells := []string{c.Name, c.Domain, c.Path, partyName(c.FirstParty), orSession(c.ExpiresISO)}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func partyName(firstParty bool) string {
	if firstParty {
		return "first-party"
	}
	return "third-party"
}

func orSession(expires string) string {
	if expires == "" {
		return "session"
	}
	return expires
}

func init() {
	reportCmd.Flags().String("input", "", "Scan results JSON (default: <results dir>/scan_results.json)")
	reportCmd.Flags().String("format", "html", "Report format: html or pdf")
	reportCmd.Flags().String("output", "", "Output file (default: input name with report extension)")
}
