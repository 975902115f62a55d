package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/hostwarden/internal/domain"
)

// WriteJSON prints v as indented JSON.
func WriteJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderHostsContext prints a match with its surrounding lines, marking the
// matched line.
func RenderHostsContext(out io.Writer, found domain.HostsFileContext) {
	first := found.LineNumber - domain.ContextRadius
	if first < 1 {
		first = 1
	}
	fmt.Fprintf(out, "Found at line %d\n", found.LineNumber)
	for i, line := range found.SurroundingLines {
		number := first + i
		marker := " "
		if number == found.LineNumber {
			marker = ">"
		}
		fmt.Fprintf(out, "%s %4d | %s\n", marker, number, line)
	}
}

// RenderMutation prints the outcome of a hosts mutation.
func RenderMutation(out io.Writer, verb string, res domain.MutationResult) {
	if res.Changed {
		fmt.Fprintf(out, "%s %s\n", verb, res.Target)
	} else {
		fmt.Fprintf(out, "No change for %s\n", res.Target)
	}
	if res.Backup != nil {
		fmt.Fprintf(out, "Backup: %s\n", res.Backup.Path)
	}
}

// RenderCertificates prints one certificate per line.
func RenderCertificates(out io.Writer, certs []domain.Certificate) {
	for _, cert := range certs {
		location := cert.Keychain
		if location == "" {
			location = cert.Path
		}
		line := fmt.Sprintf("%s | %s", cert.SHA1, cert.Name)
		if location != "" {
			line += " | " + location
		}
		fmt.Fprintln(out, line)
	}
}

// RenderBackups prints backups newest first.
func RenderBackups(out io.Writer, records []domain.BackupRecord) {
	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s\n", rec.CreatedAt.Format(domain.TimestampFormat), rec.Path)
	}
}

// RenderHistory prints audit records.
func RenderHistory(out io.Writer, records []domain.HistoryRecord) {
	for _, rec := range records {
		status := "ok"
		switch {
		case !rec.Success:
			status = "failed"
		case !rec.Changed:
			status = "unchanged"
		}
		line := fmt.Sprintf("%s | %-26s | %-9s | %s",
			rec.Timestamp.Local().Format(domain.TimestampFormat), rec.Operation, status, rec.Target)
		if rec.Error != "" {
			line += " | " + firstLine(rec.Error)
		}
		fmt.Fprintln(out, line)
	}
}

// RenderHealthReport prints doctor checks.
func RenderHealthReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
