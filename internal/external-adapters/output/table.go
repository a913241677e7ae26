package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/services"
)

const (
	elevatedRiskScore     = 20
	maxListedUpgrades     = 5
	scanTimeLayout        = "2006-01-02 15:04:05 UTC"
	unknownVersionDisplay = "-"
)

var (
	styleCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleMedium   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleCell     = lipgloss.NewStyle().Padding(0, 1)
)

// tablePrinter accumulates write errors so rendering code can stay linear
type tablePrinter struct {
	out   io.Writer
	color bool
	err   error
}

func (p *tablePrinter) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.out, format, args...)
}

func (p *tablePrinter) println(s ...string) {
	p.printf("%s\n", strings.Join(s, ""))
}

func (p *tablePrinter) table(headers []string, rows [][]string) {
	header := styleCell
	if p.color {
		header = styleCell.Bold(true)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return styleCell
		})
	p.println(t.String())
}

func (p *tablePrinter) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (w *Writer) writeTable(out io.Writer, result *entities.ScanResult) error {
	p := &tablePrinter{out: out, color: w.color}

	p.println()
	p.printf("Scan completed at: %s\n\n", result.ScanTime.UTC().Format(scanTimeLayout))

	if len(result.Packages) == 0 {
		p.println("No packages found.")
	} else {
		p.printf("Found %d packages:\n\n", len(result.Packages))
		rows := make([][]string, 0, len(result.Packages))
		for _, pkg := range result.Packages {
			rows = append(rows, []string{
				pkg.Source.DisplayName(),
				truncate(pkg.Name, 40),
				displayVersion(pkg.Version),
				truncate(pkg.ID, 50),
			})
		}
		p.table([]string{"Source", "Name", "Version", "ID"}, rows)
	}

	if len(result.Vulnerabilities) > 0 {
		p.printf("\nFound %d vulnerabilities:\n\n", len(result.Vulnerabilities))
		vulns := services.SortBySeverity(result.Vulnerabilities)
		rows := make([][]string, 0, len(vulns))
		for _, v := range vulns {
			fixed := v.FixedVersion
			if fixed == "" {
				fixed = "-"
			}
			rows = append(rows, []string{p.severity(v.Severity), v.PackageID, v.ID, truncate(v.Title, 50), fixed})
		}
		p.table([]string{"Severity", "Package", "CVE", "Title", "Fixed In"}, rows)
	}

	if len(result.Outdated) > 0 {
		p.printf("\nFound %d outdated packages:\n\n", len(result.Outdated))
		rows := make([][]string, 0, len(result.Outdated))
		for _, o := range result.Outdated {
			rows = append(rows, []string{
				o.PackageID, o.CurrentVersion, o.LatestVersion,
				services.ClassifyUpdate(o.CurrentVersion, o.LatestVersion),
			})
		}
		p.table([]string{"Package", "Current", "Latest", "Type"}, rows)
		p.upgradeCommands(result)
	}

	p.extensionRisks(result)

	p.println()
	p.summary(result)

	return p.err
}

// upgradeCommands prints one package-manager command per upgradable source
func (p *tablePrinter) upgradeCommands(result *entities.ScanResult) {
	bySource := map[entities.Source][]string{}
	for _, o := range result.Outdated {
		if pkg, ok := result.FindPackage(o.PackageID); ok {
			bySource[pkg.Source] = append(bySource[pkg.Source], o.PackageID)
		}
	}
	if len(bySource) == 0 {
		return
	}

	commands := []struct {
		source entities.Source
		cmd    string
	}{
		{entities.SourceNpm, "npm update -g"},
		{entities.SourceHomebrew, "brew upgrade"},
	}

	p.printf("\nUpgrade commands:\n")
	for _, c := range commands {
		ids := bySource[c.source]
		switch {
		case len(ids) == 0:
		case len(ids) <= maxListedUpgrades:
			p.printf("  %s %s\n", c.cmd, strings.Join(ids, " "))
		default:
			p.printf("  %s  # %d packages\n", c.cmd, len(ids))
		}
	}
}

// extensionRisks lists extensions scoring above the low band, riskiest first
func (p *tablePrinter) extensionRisks(result *entities.ScanResult) {
	risky := make([]entities.Package, 0)
	for _, pkg := range result.Packages {
		if pkg.Source.IsBrowserExtension() && pkg.ExtensionRisk != nil && pkg.ExtensionRisk.TotalScore > elevatedRiskScore {
			risky = append(risky, pkg)
		}
	}
	if len(risky) == 0 {
		return
	}

	sort.SliceStable(risky, func(i, j int) bool {
		return risky[i].ExtensionRisk.TotalScore > risky[j].ExtensionRisk.TotalScore
	})

	p.printf("\nExtension Risk Analysis (%d with elevated risk):\n\n", len(risky))
	rows := make([][]string, 0, len(risky))
	for _, pkg := range risky {
		risk := pkg.ExtensionRisk
		perms := "-"
		if high := services.HighRiskPermissions(risk); len(high) > 0 {
			perms = truncate(strings.Join(high, ", "), 35)
		}
		rows = append(rows, []string{
			truncate(pkg.Name, 30),
			p.riskLevel(risk.RiskLevel),
			strconv.FormatUint(uint64(risk.TotalScore), 10),
			perms,
			strconv.Itoa(len(risk.Issues)),
		})
	}
	p.table([]string{"Extension", "Risk", "Score", "Permissions", "Issues"}, rows)
}

func (p *tablePrinter) summary(result *entities.ScanResult) {
	counts := result.CountBySeverity()

	bySource := map[entities.Source]int{}
	unknown := 0
	for _, pkg := range result.Packages {
		bySource[pkg.Source]++
		if pkg.HasUnknownVersion() {
			unknown++
		}
	}

	p.println("Summary:")
	if unknown > 0 {
		p.printf("  Total packages: %d (%d with unknown version)\n", len(result.Packages), unknown)
	} else {
		p.printf("  Total packages: %d\n", len(result.Packages))
	}

	if len(bySource) > 1 {
		parts := make([]string, 0, len(bySource))
		for _, source := range entities.AllSources() {
			if n := bySource[source]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, source.DisplayName()))
			}
		}
		p.printf("  By source: %s\n", strings.Join(parts, ", "))
	}

	if len(result.Vulnerabilities) > 0 {
		p.printf("  Vulnerabilities: %d critical, %d high, %d medium, %d low\n",
			counts[entities.SeverityCritical], counts[entities.SeverityHigh],
			counts[entities.SeverityMedium], counts[entities.SeverityLow])
	}

	if len(result.Outdated) > 0 {
		if major := services.CountMajorUpdates(result.Outdated); major > 0 {
			p.printf("  Outdated packages: %d (%d major updates)\n", len(result.Outdated), major)
		} else {
			p.printf("  Outdated packages: %d\n", len(result.Outdated))
		}
	}

	score := services.CalculateHealthScore(result.Vulnerabilities, result.Outdated, len(result.Packages))
	p.printf("\nHealth Score: %d/100 [%s]\n", score, services.HealthIndicator(score))
}

func (p *tablePrinter) severity(sev entities.Severity) string {
	switch sev {
	case entities.SeverityCritical:
		return p.paint(styleCritical, sev.Label())
	case entities.SeverityHigh:
		return p.paint(styleHigh, sev.Label())
	case entities.SeverityMedium:
		return p.paint(styleMedium, sev.Label())
	case entities.SeverityLow:
		return p.paint(styleLow, sev.Label())
	default:
		return sev.Label()
	}
}

func (p *tablePrinter) riskLevel(level string) string {
	switch level {
	case "critical":
		return p.paint(styleCritical, "CRITICAL")
	case "high":
		return p.paint(styleHigh, "HIGH")
	case "medium":
		return p.paint(styleMedium, "MEDIUM")
	default:
		return "LOW"
	}
}

// truncate shortens s to maxLen runes, ending in "..."
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func displayVersion(v string) string {
	if v == entities.UnknownVersion {
		return unknownVersionDisplay
	}
	return v
}
