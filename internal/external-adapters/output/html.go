package output

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/ochairo/extenscan/internal/domain/entities"
	"github.com/ochairo/extenscan/internal/domain/services"
)

type htmlVulnerability struct {
	SeverityClass string
	Severity      string
	Package       string
	ID            string
	Title         string
	FixedIn       string
}

type htmlOutdated struct {
	Package    string
	Current    string
	Latest     string
	Type       string
	UpdateType string
}

type htmlPackage struct {
	Source  string
	Name    string
	Version string
	ID      string
}

type htmlReport struct {
	Date            string
	Timestamp       string
	PackageCount    int
	SourceCount     int
	VulnCount       int
	OutdatedCount   int
	HealthScore     int
	HealthClass     string
	Critical        int
	High            int
	Medium          int
	Low             int
	Vulnerabilities []htmlVulnerability
	Outdated        []htmlOutdated
	Packages        []htmlPackage
}

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

func writeHTML(out io.Writer, result *entities.ScanResult) error {
	if err := reportTemplate.Execute(out, buildHTMLReport(result)); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

func buildHTMLReport(result *entities.ScanResult) htmlReport {
	counts := result.CountBySeverity()
	score := services.CalculateHealthScore(result.Vulnerabilities, result.Outdated, len(result.Packages))

	report := htmlReport{
		Date:          result.ScanTime.UTC().Format("2006-01-02"),
		Timestamp:     result.ScanTime.UTC().Format(scanTimeLayout),
		PackageCount:  len(result.Packages),
		VulnCount:     len(result.Vulnerabilities),
		OutdatedCount: len(result.Outdated),
		HealthScore:   score,
		HealthClass:   "health-" + strings.ToLower(services.HealthIndicator(score)),
		Critical:      counts[entities.SeverityCritical],
		High:          counts[entities.SeverityHigh],
		Medium:        counts[entities.SeverityMedium],
		Low:           counts[entities.SeverityLow],
	}

	sources := map[entities.Source]bool{}
	for _, pkg := range result.Packages {
		sources[pkg.Source] = true
		report.Packages = append(report.Packages, htmlPackage{
			Source:  pkg.Source.DisplayName(),
			Name:    pkg.Name,
			Version: displayVersion(pkg.Version),
			ID:      pkg.ID,
		})
	}
	report.SourceCount = len(sources)

	for _, v := range services.SortBySeverity(result.Vulnerabilities) {
		class := ""
		if v.Severity != entities.SeverityUnknown {
			class = "severity-" + string(v.Severity)
		}
		fixed := v.FixedVersion
		if fixed == "" {
			fixed = "-"
		}
		report.Vulnerabilities = append(report.Vulnerabilities, htmlVulnerability{
			SeverityClass: class,
			Severity:      v.Severity.Label(),
			Package:       v.PackageID,
			ID:            v.ID,
			Title:         v.Title,
			FixedIn:       fixed,
		})
	}

	for _, o := range result.Outdated {
		update := services.ClassifyUpdate(o.CurrentVersion, o.LatestVersion)
		report.Outdated = append(report.Outdated, htmlOutdated{
			Package:    o.PackageID,
			Current:    o.CurrentVersion,
			Latest:     o.LatestVersion,
			Type:       "update-" + strings.ToLower(update),
			UpdateType: update,
		})
	}

	return report
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>extenscan Report - {{.Date}}</title>
    <style>
        :root {
            --bg-color: #1a1a2e;
            --card-bg: #16213e;
            --text-color: #eee;
            --text-muted: #888;
            --border-color: #0f3460;
            --critical: #dc3545;
            --high: #fd7e14;
            --medium: #ffc107;
            --low: #28a745;
            --accent: #0f3460;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg-color);
            color: var(--text-color);
            line-height: 1.6;
            padding: 2rem;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 2rem;
            padding-bottom: 1rem;
            border-bottom: 1px solid var(--border-color);
        }
        h1 { font-size: 1.75rem; font-weight: 600; }
        .timestamp { color: var(--text-muted); font-size: 0.9rem; }
        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 1rem;
            margin-bottom: 2rem;
        }
        .stat-card {
            background: var(--card-bg);
            padding: 1.25rem;
            border-radius: 8px;
            border: 1px solid var(--border-color);
        }
        .stat-value { font-size: 2rem; font-weight: 700; }
        .stat-label { color: var(--text-muted); font-size: 0.85rem; }
        .health-excellent { color: #28a745; }
        .health-good { color: #5cb85c; }
        .health-fair { color: #ffc107; }
        .health-poor { color: #fd7e14; }
        .health-critical { color: #dc3545; }
        section { margin-bottom: 2rem; }
        h2 {
            font-size: 1.25rem;
            margin-bottom: 1rem;
            padding-bottom: 0.5rem;
            border-bottom: 1px solid var(--border-color);
        }
        table {
            width: 100%;
            border-collapse: collapse;
            background: var(--card-bg);
            border-radius: 8px;
            overflow: hidden;
        }
        th, td {
            padding: 0.75rem 1rem;
            text-align: left;
            border-bottom: 1px solid var(--border-color);
        }
        th { background: var(--accent); font-weight: 600; }
        .severity { padding: 0.25rem 0.5rem; border-radius: 4px; font-size: 0.75rem; font-weight: 600; }
        .severity-critical { background: var(--critical); color: white; }
        .severity-high { background: var(--high); color: white; }
        .severity-medium { background: var(--medium); color: black; }
        .severity-low { background: var(--low); color: white; }
        .update-major { color: var(--critical); font-weight: 600; }
        .update-minor { color: var(--medium); }
        .update-patch { color: var(--text-muted); }
        .empty { text-align: center; padding: 2rem; color: var(--text-muted); }
        footer { text-align: center; color: var(--text-muted); font-size: 0.8rem; margin-top: 2rem; padding-top: 1rem; border-top: 1px solid var(--border-color); }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>extenscan Report</h1>
            <span class="timestamp">{{.Timestamp}}</span>
        </header>
        <div class="stats">
            <div class="stat-card"><div class="stat-value">{{.PackageCount}}</div><div class="stat-label">Packages</div></div>
            <div class="stat-card"><div class="stat-value">{{.VulnCount}}</div><div class="stat-label">Vulnerabilities</div></div>
            <div class="stat-card"><div class="stat-value">{{.OutdatedCount}}</div><div class="stat-label">Outdated</div></div>
            <div class="stat-card"><div class="stat-value {{.HealthClass}}">{{.HealthScore}}%</div><div class="stat-label">Health Score</div></div>
        </div>
        <section>
            <h2>Vulnerabilities</h2>
{{- if .Vulnerabilities}}
            <table>
                <thead><tr><th>Severity</th><th>Package</th><th>CVE</th><th>Title</th><th>Fixed In</th></tr></thead>
                <tbody>
{{- range .Vulnerabilities}}
                    <tr><td><span class="severity {{.SeverityClass}}">{{.Severity}}</span></td><td>{{.Package}}</td><td>{{.ID}}</td><td>{{.Title}}</td><td>{{.FixedIn}}</td></tr>
{{- end}}
                </tbody>
            </table>
{{- else}}
            <div class="empty">No vulnerabilities found</div>
{{- end}}
        </section>
        <section>
            <h2>Outdated Packages</h2>
{{- if .Outdated}}
            <table>
                <thead><tr><th>Package</th><th>Current</th><th>Latest</th><th>Type</th></tr></thead>
                <tbody>
{{- range .Outdated}}
                    <tr><td>{{.Package}}</td><td>{{.Current}}</td><td>{{.Latest}}</td><td class="{{.Type}}">{{.UpdateType}}</td></tr>
{{- end}}
                </tbody>
            </table>
{{- else}}
            <div class="empty">All packages are up to date</div>
{{- end}}
        </section>
        <section>
            <h2>All Packages</h2>
{{- if .Packages}}
            <table>
                <thead><tr><th>Source</th><th>Name</th><th>Version</th><th>ID</th></tr></thead>
                <tbody>
{{- range .Packages}}
                    <tr><td>{{.Source}}</td><td>{{.Name}}</td><td>{{.Version}}</td><td>{{.ID}}</td></tr>
{{- end}}
                </tbody>
            </table>
{{- else}}
            <div class="empty">No packages found</div>
{{- end}}
        </section>
        <section>
            <h2>Summary</h2>
            <div class="stat-card">
                <p>Scanned {{.PackageCount}} packages across {{.SourceCount}} sources.</p>
                <p>Found {{.VulnCount}} vulnerabilities ({{.Critical}} critical, {{.High}} high, {{.Medium}} medium, {{.Low}} low).</p>
                <p>Found {{.OutdatedCount}} outdated packages.</p>
            </div>
        </section>
        <footer>
            Generated by extenscan
        </footer>
    </div>
</body>
</html>
`
