package domain

import (
	"regexp"
	"strings"
)

// HostEntry is a single resolution mapping located in a hosts document.
type HostEntry struct {
	IP        string
	Hostname  string
	RawLine   string
	LineIndex int
}

// CanonicalHostLine renders the line hostwarden writes for hostname.
func CanonicalHostLine(hostname string) string {
	return LoopbackIP + " " + hostname
}

// HostsFileContext locates a hostname for display. It is never written back.
type HostsFileContext struct {
	LineNumber       int      `json:"line_number"`
	SurroundingLines []string `json:"surrounding_lines"`
}

// HostsDocument is an immutable snapshot of the hosts file lines.
//
// Each line keeps its own terminator so untouched lines render back byte for
// byte, whatever mix of LF and CRLF the file uses. Newline is the terminator
// given to appended lines: the one used by the last terminated source line.
type HostsDocument struct {
	lines   []hostsLine
	newline string
}

type hostsLine struct {
	text string
	eol  string
}

// ParseHostsDocument splits raw file content into a document.
func ParseHostsDocument(content string) HostsDocument {
	doc := HostsDocument{newline: "\n"}
	for content != "" {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			doc.lines = append(doc.lines, hostsLine{text: content})
			break
		}
		line := hostsLine{text: content[:i], eol: "\n"}
		if strings.HasSuffix(line.text, "\r") {
			line.text = strings.TrimSuffix(line.text, "\r")
			line.eol = "\r\n"
		}
		doc.lines = append(doc.lines, line)
		doc.newline = line.eol
		content = content[i+1:]
	}
	return doc
}

// Lines returns a copy of the document lines without terminators.
func (d HostsDocument) Lines() []string {
	out := make([]string, len(d.lines))
	for i, line := range d.lines {
		out[i] = line.text
	}
	return out
}

// Len reports the number of lines.
func (d HostsDocument) Len() int {
	return len(d.lines)
}

// String renders the document back to file content.
func (d HostsDocument) String() string {
	var b strings.Builder
	for _, line := range d.lines {
		b.WriteString(line.text)
		b.WriteString(line.eol)
	}
	return b.String()
}

// Find returns the context around the first line containing hostname.
func (d HostsDocument) Find(hostname string) (HostsFileContext, bool) {
	if hostname == "" {
		return HostsFileContext{}, false
	}
	for i, line := range d.lines {
		if !strings.Contains(line.text, hostname) {
			continue
		}
		start := i - ContextRadius
		if start < 0 {
			start = 0
		}
		end := i + ContextRadius + 1
		if end > len(d.lines) {
			end = len(d.lines)
		}
		surrounding := make([]string, 0, end-start)
		for _, l := range d.lines[start:end] {
			surrounding = append(surrounding, l.text)
		}
		return HostsFileContext{LineNumber: i + 1, SurroundingLines: surrounding}, true
	}
	return HostsFileContext{}, false
}

// Entry returns the active canonical entry for hostname, if any. Comment
// lines and differently formatted lines never count.
func (d HostsDocument) Entry(hostname string) (HostEntry, bool) {
	want := CanonicalHostLine(hostname)
	for i, line := range d.lines {
		trimmed := strings.TrimSpace(line.text)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed == want {
			return HostEntry{IP: LoopbackIP, Hostname: hostname, RawLine: line.text, LineIndex: i}, true
		}
	}
	return HostEntry{}, false
}

// HasLine reports whether any line, comments included, equals line after trimming.
func (d HostsDocument) HasLine(line string) bool {
	want := strings.TrimSpace(line)
	for _, existing := range d.lines {
		if strings.TrimSpace(existing.text) == want {
			return true
		}
	}
	return false
}

// WithAppended returns a copy with line added as the final line. An
// unterminated last line gets the document newline first.
func (d HostsDocument) WithAppended(line string) HostsDocument {
	next := d.clone()
	if n := len(next.lines); n > 0 && next.lines[n-1].eol == "" {
		next.lines[n-1].eol = next.newline
	}
	next.lines = append(next.lines, hostsLine{text: line, eol: next.newline})
	return next
}

// WithoutHost returns a copy without every line matching the loopback
// pattern for hostname, and the number of lines removed. Remaining lines
// keep their terminators.
func (d HostsDocument) WithoutHost(hostname string) (HostsDocument, int) {
	pattern := HostLinePattern(hostname)
	next := d.clone()
	next.lines = next.lines[:0]
	removed := 0
	for _, line := range d.lines {
		if pattern.MatchString(line.text) {
			removed++
			continue
		}
		next.lines = append(next.lines, line)
	}
	return next, removed
}

func (d HostsDocument) clone() HostsDocument {
	next := d
	next.lines = make([]hostsLine, len(d.lines), len(d.lines)+1)
	copy(next.lines, d.lines)
	if next.newline == "" {
		next.newline = "\n"
	}
	return next
}

// HostLinePattern matches a loopback line for the literal hostname.
func HostLinePattern(hostname string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(LoopbackIP) + `\s*` + regexp.QuoteMeta(hostname) + `$`)
}
