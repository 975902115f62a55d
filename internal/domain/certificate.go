package domain

import (
	"regexp"
	"strings"
)

var fingerprintPattern = regexp.MustCompile(`^[0-9A-Fa-f]{40}$`)

// CertificateRef identifies a trust store entry by subject or fingerprint.
type CertificateRef struct {
	SubjectName string
	Fingerprint string
}

// RefFor classifies a user supplied identifier. A 40 digit hex string is a
// SHA-1 fingerprint (keychain hash or Windows thumbprint); anything else is a
// subject name.
func RefFor(nameOrFingerprint string) CertificateRef {
	value := strings.TrimSpace(nameOrFingerprint)
	normalized := NormalizeFingerprint(value)
	if fingerprintPattern.MatchString(normalized) {
		return CertificateRef{Fingerprint: normalized}
	}
	return CertificateRef{SubjectName: value}
}

// NormalizeFingerprint strips separators and upper-cases a hex fingerprint.
func NormalizeFingerprint(fp string) string {
	r := strings.NewReplacer(" ", "", ":", "", "\t", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(fp)))
}

// Certificate is a trust store entry as reported by the platform tooling.
type Certificate struct {
	Name       string            `json:"name"`
	Subject    string            `json:"subject"`
	SHA1       string            `json:"sha1"`
	SHA256     string            `json:"sha256,omitempty"`
	Keychain   string            `json:"keychain,omitempty"`
	Path       string            `json:"path,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Matches reports whether the certificate name or subject contains subject.
func (c Certificate) Matches(subject string) bool {
	if subject == "" {
		return true
	}
	return strings.Contains(c.Name, subject) || strings.Contains(c.Subject, subject)
}

// CertificateBundle lists the files written for a generated host certificate.
type CertificateBundle struct {
	Hostname   string
	Dir        string
	CertPath   string
	KeyPath    string
	PublicPath string
	SHA1       string
}
