package config

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// applyRuntimeValidation applies runtime validations and transformations
func applyRuntimeValidation(cfg *Config) error {
	return applyTopicPrefix(&cfg.MQTT)
}

// applyTopicPrefix prefixes the relay topic with the client certificate CN if configured
func applyTopicPrefix(cfg *MQTTConfig) error {
	if !cfg.Enabled() || !cfg.UseCertCNPrefix || cfg.ClientCert == "" {
		return nil
	}
	cn, err := extractCNFromCertFile(cfg.ClientCert)
	if err != nil {
		return fmt.Errorf("failed to extract CN from certificate: %w", err)
	}
	cfg.Topic = cn + "/" + cfg.Topic
	return nil
}

// extractCNFromCertFile extracts the CN from a PEM certificate file
func extractCNFromCertFile(certPath string) (string, error) {
	certPEM, err := os.ReadFile(certPath) // #nosec G304 - certPath is from config, not user input
	if err != nil {
		return "", fmt.Errorf("failed to read certificate: %w", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		return "", fmt.Errorf("failed to decode PEM certificate")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("failed to parse certificate: %w", err)
	}

	if cert.Subject.CommonName == "" {
		return "", fmt.Errorf("certificate has no CN")
	}

	return cert.Subject.CommonName, nil
}
