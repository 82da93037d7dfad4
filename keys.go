package meetup

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// LoadSigningKey reads a PEM-encoded RSA private key from path. An unreadable
// file, a non-PEM body, or a non-RSA key all surface as ConfigurationError.
func LoadSigningKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("could not read signing key file %s", path), Err: err}
	}

	key, err := jwk.ParseKey(b, jwk.WithPEM(true))
	if err != nil {
		return nil, &ConfigurationError{Reason: "could not parse signing key", Err: err}
	}

	var pkey rsa.PrivateKey
	if err := key.Raw(&pkey); err != nil {
		return nil, &ConfigurationError{Reason: "signing key is not an rsa private key", Err: err}
	}

	return &pkey, nil
}

// GenerateSigningKey creates a new 2048-bit RSA key. The public half is what
// gets registered with the platform's OAuth settings.
func GenerateSigningKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, 2048)
}

// EncodePrivateKeyPEM renders the key in PKCS#8 PEM form, the format
// LoadSigningKey accepts back.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// EncodePublicKeyPEM renders the public half in PKIX PEM form.
func EncodePublicKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// PublicJWK returns the public half as a JWK carrying the given key id, ready
// to paste into the platform's signing-key registration form.
func PublicJWK(key *rsa.PrivateKey, kid string) (jwk.Key, error) {
	pub, err := jwk.FromRaw(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	if kid != "" {
		if err := pub.Set(jwk.KeyIDKey, kid); err != nil {
			return nil, err
		}
	}

	return pub, nil
}
