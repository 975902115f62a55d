package truststore

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hostwarden/internal/domain"
)

func TestGeneratorWritesBundle(t *testing.T) {
	base := t.TempDir()
	gen := NewGenerator(base)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	gen.now = func() time.Time { return now }

	bundle, err := gen.Generate("myapp.test")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "myapp.test", "cert.pem"), bundle.CertPath)
	assert.Equal(t, gen.PathFor("myapp.test"), bundle.CertPath)
	assert.Len(t, bundle.SHA1, 40)

	data, err := os.ReadFile(bundle.CertPath)
	require.NoError(t, err)
	block, _ := pem.Decode(data)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)

	assert.Equal(t, "myapp.test", cert.Subject.CommonName)
	assert.Equal(t, []string{"myapp.test"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", cert.IPAddresses[0].String())
	assert.Equal(t, now.Add(domain.CertificateValidity).Unix(), cert.NotAfter.Unix())

	info, err := os.Stat(bundle.KeyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.SecureFilePermissions), info.Mode().Perm())

	pub, err := os.ReadFile(bundle.PublicPath)
	require.NoError(t, err)
	assert.Contains(t, string(pub), "BEGIN PUBLIC KEY")
}

func TestGeneratorRejectsPathLikeHostnames(t *testing.T) {
	gen := NewGenerator(t.TempDir())
	for _, host := range []string{"", "..", "a/b", `a\b`, "a b"} {
		_, err := gen.Generate(host)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, host)
	}
}
