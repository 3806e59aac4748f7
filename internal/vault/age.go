package vault

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// Decrypter turns vault ciphertext into plaintext .env content.
type Decrypter interface {
	Decrypt(ciphertext, identity []byte) ([]byte, error)
}

// AgeDecrypter decrypts binary or ASCII-armored age files with X25519
// identities.
type AgeDecrypter struct{}

func (AgeDecrypter) Decrypt(ciphertext, identity []byte) ([]byte, error) {
	ids, err := age.ParseIdentities(bytes.NewReader(identity))
	if err != nil {
		return nil, fmt.Errorf("parsing age identity: %w", err)
	}

	var src io.Reader = bytes.NewReader(ciphertext)
	if bytes.HasPrefix(bytes.TrimSpace(ciphertext), []byte(armor.Header)) {
		src = armor.NewReader(bytes.NewReader(bytes.TrimSpace(ciphertext)))
	}

	r, err := age.Decrypt(src, ids...)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
