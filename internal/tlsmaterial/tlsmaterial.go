// Package tlsmaterial loads the PEM certificate/private-key pair used to
// terminate client-side TLS. Loading is a thin wrapper over crypto/tls: the
// spec explicitly scopes "PEM certificate/private-key file loading" out of
// the core as an external collaborator, so this package stays minimal.
package tlsmaterial

import (
	"crypto/tls"
	"fmt"
)

// Load reads a PEM certificate and private key (PKCS#8 or RSA, both accepted
// by crypto/tls) from disk and returns a ready-to-use server certificate.
func Load(certPath, keyPath string) (tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("loading TLS material: %w", err)
	}
	return cert, nil
}
