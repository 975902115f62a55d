package truststore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/doeshing/hostwarden/internal/domain"
	"github.com/doeshing/hostwarden/internal/ports"
)

const (
	CertFileName   = "cert.pem"
	KeyFileName    = "private.key"
	PublicFileName = "public.crt"
)

// Generator writes self-signed host certificates under a base directory,
// one subdirectory per hostname.
type Generator struct {
	dir string
	now func() time.Time
}

// NewGenerator builds a generator rooted at dir.
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir, now: time.Now}
}

// PathFor returns the certificate PEM path for hostname.
func (g *Generator) PathFor(hostname string) string {
	return filepath.Join(g.dir, hostname, CertFileName)
}

// Generate creates an RSA key and a self-signed certificate whose CN and DNS
// SAN are hostname, with 127.0.0.1 as IP SAN. Existing files are replaced.
func (g *Generator) Generate(hostname string) (domain.CertificateBundle, error) {
	if err := domain.ValidateHostname(domain.OpGenerateCert, hostname); err != nil {
		return domain.CertificateBundle{}, err
	}
	dir := filepath.Join(g.dir, hostname)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return domain.CertificateBundle{}, domain.NewError(domain.KindIOFailure, domain.OpGenerateCert, dir, err)
	}

	key, err := rsa.GenerateKey(rand.Reader, domain.CertificateKeyBits)
	if err != nil {
		return domain.CertificateBundle{}, fmt.Errorf("generate key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return domain.CertificateBundle{}, fmt.Errorf("generate serial: %w", err)
	}

	now := g.now()
	tpl := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: hostname},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(domain.CertificateValidity),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:              []string{hostname},
		IPAddresses:           []net.IP{net.ParseIP(domain.LoopbackIP)},
	}
	der, err := x509.CreateCertificate(rand.Reader, &tpl, &tpl, &key.PublicKey, key)
	if err != nil {
		return domain.CertificateBundle{}, fmt.Errorf("create certificate: %w", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return domain.CertificateBundle{}, fmt.Errorf("marshal public key: %w", err)
	}

	bundle := domain.CertificateBundle{
		Hostname:   hostname,
		Dir:        dir,
		CertPath:   filepath.Join(dir, CertFileName),
		KeyPath:    filepath.Join(dir, KeyFileName),
		PublicPath: filepath.Join(dir, PublicFileName),
	}
	files := []struct {
		path  string
		typ   string
		bytes []byte
		perm  os.FileMode
	}{
		{bundle.CertPath, "CERTIFICATE", der, 0o644},
		{bundle.KeyPath, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(key), domain.SecureFilePermissions},
		{bundle.PublicPath, "PUBLIC KEY", pub, 0o644},
	}
	for _, f := range files {
		if err := writePem(f.path, f.typ, f.bytes, f.perm); err != nil {
			return domain.CertificateBundle{}, domain.NewError(domain.KindIOFailure, domain.OpGenerateCert, f.path, err)
		}
	}

	sum := sha1.Sum(der)
	bundle.SHA1 = strings.ToUpper(hex.EncodeToString(sum[:]))
	return bundle, nil
}

func writePem(path, typ string, b []byte, perm os.FileMode) (err error) {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return pem.Encode(out, &pem.Block{Type: typ, Bytes: b})
}

var _ ports.CertificateGenerator = (*Generator)(nil)
