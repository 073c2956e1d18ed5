package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestFileManager_GetOrCreateCertificate(t *testing.T) {
	tests := []struct {
		setup         func(t *testing.T, dir string)
		validate      func(t *testing.T, dir string, cert *x509.Certificate)
		name          string
		hosts         []string
		errorContains string
	}{
		{
			name: "creates certificate when none exists",
			validate: func(t *testing.T, dir string, cert *x509.Certificate) {
				t.Helper()
				assert.Equal(t, "trackboard", cert.Subject.Organization[0])
				assert.Contains(t, cert.DNSNames, "localhost")
				assert.Len(t, cert.IPAddresses, 2)
				require.NoError(t, cert.VerifyHostname("localhost"))
				require.NoError(t, cert.VerifyHostname("127.0.0.1"))

				info, err := os.Stat(filepath.Join(dir, "trackboard.key"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
			},
		},
		{
			name:  "covers extra hosts",
			hosts: []string{"dashboard.lan", "10.0.0.5", "localhost"},
			validate: func(t *testing.T, _ string, cert *x509.Certificate) {
				t.Helper()
				assert.ElementsMatch(t, []string{"localhost", "dashboard.lan"}, cert.DNSNames)
				require.NoError(t, cert.VerifyHostname("10.0.0.5"))
			},
		},
		{
			name: "regenerates unreadable files",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(dir, 0o700))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "trackboard.crt"), []byte("garbage"), 0o600))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "trackboard.key"), []byte("garbage"), 0o600))
			},
			validate: func(t *testing.T, _ string, cert *x509.Certificate) {
				t.Helper()
				require.NoError(t, cert.VerifyHostname("localhost"))
			},
		},
		{
			name: "directory path is a file",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Dir(dir), 0o700))
				require.NoError(t, os.WriteFile(dir, []byte("not a directory"), 0o600))
			},
			errorContains: "failed to check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "certs")
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			cert, err := NewFileManager(dir, tt.hosts...).GetOrCreateCertificate()
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			tt.validate(t, dir, leaf(t, cert))
		})
	}
}

func TestFileManager_ReusesValidCertificate(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)

	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	assert.Equal(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
}

func TestFileManager_RegeneratesExpiredCertificate(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)
	m.now = func() time.Time { return time.Now().Add(-2 * Validity) }

	old, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	m.now = time.Now
	fresh, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	assert.NotEqual(t, leaf(t, old).SerialNumber, leaf(t, fresh).SerialNumber)
	assert.True(t, leaf(t, fresh).NotAfter.After(time.Now()))
}

func TestFileManager_RegeneratesWhenHostMissing(t *testing.T) {
	dir := t.TempDir()

	old, err := NewFileManager(dir).GetOrCreateCertificate()
	require.NoError(t, err)

	fresh, err := NewFileManager(dir, "dashboard.lan").GetOrCreateCertificate()
	require.NoError(t, err)

	assert.NotEqual(t, leaf(t, old).SerialNumber, leaf(t, fresh).SerialNumber)
	assert.NoError(t, leaf(t, fresh).VerifyHostname("dashboard.lan"))
}

func TestFileManager_TLSConfig(t *testing.T) {
	cfg, err := NewFileManager(t.TempDir()).TLSConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
}

func TestFileManager_CertificateExists(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)

	ok, err := m.CertificateExists()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "trackboard.crt"), nil, 0o600))
	ok, err = m.CertificateExists()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.GetOrCreateCertificate()
	require.NoError(t, err)
	ok, err = m.CertificateExists()
	require.NoError(t, err)
	assert.True(t, ok)
}
