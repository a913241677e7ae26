// Package gpg provides OpenPGP signing and verification of report files.
package gpg

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
)

const armoredSignatureHeader = "-----BEGIN PGP SIGNATURE---"

// Signer produces and checks detached signatures using ProtonMail's go-crypto,
// a maintained fork of golang.org/x/crypto/openpgp
type Signer struct{}

// NewSigner creates a new signer
func NewSigner() *Signer {
	return &Signer{}
}

// ReadKeyRing parses an armored key ring, falling back to the binary format
func (s *Signer) ReadKeyRing(key []byte) (openpgp.EntityList, error) {
	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(key))
	if err != nil {
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(key))
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("no keys found")
	}
	return entities, nil
}

// Sign writes an armored detached signature over data with the first private key
// in armoredPrivateKey. Encrypted keys are unlocked with passphrase.
func (s *Signer) Sign(data io.Reader, armoredPrivateKey, passphrase []byte) ([]byte, error) {
	entities, err := s.ReadKeyRing(armoredPrivateKey)
	if err != nil {
		return nil, err
	}

	var signer *openpgp.Entity
	for _, e := range entities {
		if e.PrivateKey != nil {
			signer = e
			break
		}
	}
	if signer == nil {
		return nil, fmt.Errorf("no private key found")
	}

	if err := unlock(signer, passphrase); err != nil {
		return nil, err
	}

	var sig bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&sig, signer, data, nil); err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return sig.Bytes(), nil
}

// unlock decrypts the primary key and any signing subkeys
func unlock(e *openpgp.Entity, passphrase []byte) error {
	if e.PrivateKey.Encrypted {
		if len(passphrase) == 0 {
			return fmt.Errorf("private key is encrypted and no passphrase was given")
		}
		if err := e.PrivateKey.Decrypt(passphrase); err != nil {
			return fmt.Errorf("failed to decrypt private key: %w", err)
		}
	}
	for _, sub := range e.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			if err := sub.PrivateKey.Decrypt(passphrase); err != nil {
				return fmt.Errorf("failed to decrypt subkey: %w", err)
			}
		}
	}
	return nil
}

// Verify checks a detached signature (armored or binary) over data and
// returns the signer's fingerprint
func (s *Signer) Verify(data io.Reader, signature, publicKey []byte) (string, error) {
	keyring, err := s.ReadKeyRing(publicKey)
	if err != nil {
		return "", err
	}

	// GPG signatures are typically < 1KB
	if len(signature) < 10 {
		return "", fmt.Errorf("signature too small to be a valid OpenPGP signature")
	}

	var signer *openpgp.Entity
	if bytes.HasPrefix(bytes.TrimSpace(signature), []byte(armoredSignatureHeader)) {
		signer, err = openpgp.CheckArmoredDetachedSignature(keyring, data, bytes.NewReader(signature), nil)
	} else {
		signer, err = openpgp.CheckDetachedSignature(keyring, data, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return "", fmt.Errorf("signature verification failed: %w", err)
	}

	return fmt.Sprintf("%X", signer.PrimaryKey.Fingerprint), nil
}
