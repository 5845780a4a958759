package prompt

import (
	"fmt"
	"sort"
	"strings"

	domain "github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
)

// Caps keep the prompt compact for large reports.
const (
	maxSubdomains      = 10
	maxPorts           = 10
	maxVulnerabilities = 5
)

// GetSystemPrompt provides the analyst persona for summary generation.
func GetSystemPrompt() string {
	return "You are a cybersecurity expert analyzing reconnaissance scan results. " +
		"Provide clear, actionable threat assessments."
}

// GetUserPrompt renders one report into the assessment request.
func GetUserPrompt(r *domain.Report) string {
	var b strings.Builder

	date := r.DateKey()
	fmt.Fprintf(&b, "Analyze this cybersecurity reconnaissance report and provide a threat assessment:\n\n")
	fmt.Fprintf(&b, "TARGET: %s\nSCAN DATE: %s\n\n", r.Target, date)

	fmt.Fprintf(&b, "DISCOVERED SUBDOMAINS (%d):\n%s\n\n", len(r.Subdomains), truncatedList(r.Subdomains, maxSubdomains))

	ports := make([]string, 0, len(r.OpenPorts))
	for port, service := range r.OpenPorts {
		ports = append(ports, fmt.Sprintf("%s(%s)", port, service))
	}
	sort.Strings(ports)
	fmt.Fprintf(&b, "OPEN PORTS (%d):\n%s\n\n", len(r.OpenPorts), truncatedList(ports, maxPorts))

	fmt.Fprintf(&b, "VULNERABILITIES FOUND (%d):\n", len(r.Vulnerabilities))
	for i, v := range r.Vulnerabilities {
		if i == maxVulnerabilities {
			fmt.Fprintf(&b, "... and %d more vulnerabilities\n", len(r.Vulnerabilities)-maxVulnerabilities)
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", strings.ToUpper(string(v.Severity)), v.Title)
	}

	b.WriteString(`
Please provide:
1. RISK LEVEL (Low/Medium/High/Critical) with brief justification
2. KEY CONCERNS: Top 3 security issues to prioritize
3. ATTACK VECTORS: Potential ways an attacker could exploit these findings
4. RECOMMENDATIONS: Specific actions to improve security posture

Keep the response concise but actionable for a security analyst.`)

	return b.String()
}

func truncatedList(items []string, max int) string {
	if len(items) == 0 {
		return "(none)"
	}
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:max], ", ") + "..."
}
