package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestCert writes a self-signed PEM certificate with the given CN and returns its path
func writeTestCert(t *testing.T, cn string) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "client.pem")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatalf("failed to write certificate: %v", err)
	}
	return path
}

func TestApplyTopicPrefix(t *testing.T) {
	certPath := writeTestCert(t, "device-42")

	tests := []struct {
		name string
		cfg  MQTTConfig
		want string
	}{
		{
			name: "prefix applied",
			cfg:  MQTTConfig{Broker: "tcp://b:1883", Topic: "relay", UseCertCNPrefix: true, ClientCert: certPath},
			want: "device-42/relay",
		},
		{
			name: "prefix disabled",
			cfg:  MQTTConfig{Broker: "tcp://b:1883", Topic: "relay", ClientCert: certPath},
			want: "relay",
		},
		{
			name: "no client certificate",
			cfg:  MQTTConfig{Broker: "tcp://b:1883", Topic: "relay", UseCertCNPrefix: true},
			want: "relay",
		},
		{
			name: "relay disabled",
			cfg:  MQTTConfig{Topic: "relay", UseCertCNPrefix: true, ClientCert: certPath},
			want: "relay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := applyTopicPrefix(&cfg); err != nil {
				t.Fatalf("applyTopicPrefix() error = %v", err)
			}
			if cfg.Topic != tt.want {
				t.Errorf("Topic = %s; want %s", cfg.Topic, tt.want)
			}
		})
	}
}

func TestApplyTopicPrefix_BadCertificate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := MQTTConfig{Broker: "tcp://b:1883", Topic: "relay", UseCertCNPrefix: true, ClientCert: path}
	if err := applyTopicPrefix(&cfg); err == nil {
		t.Error("applyTopicPrefix() expected error for invalid PEM")
	}
}

func TestExtractCNFromCertFile(t *testing.T) {
	cn, err := extractCNFromCertFile(writeTestCert(t, "edge-gw"))
	if err != nil {
		t.Fatalf("extractCNFromCertFile() error = %v", err)
	}
	if cn != "edge-gw" {
		t.Errorf("CN = %s; want edge-gw", cn)
	}

	if _, err := extractCNFromCertFile(writeTestCert(t, "")); err == nil {
		t.Error("expected error for certificate without CN")
	}
	if _, err := extractCNFromCertFile(filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Error("expected error for missing file")
	}
}
