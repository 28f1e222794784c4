package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrSealedPayload = errors.New("session: cannot open sealed payload")

// Sealer encrypts session payloads at rest with NaCl secretbox.
// The output is base64 text so every Store can hold it as a string.
type Sealer struct {
	key [32]byte
}

// NewSealer derives a 32-byte key from the configured secret.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("session: empty encryption key")
	}
	return &Sealer{key: sha256.Sum256([]byte(secret))}, nil
}

func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], plain, &nonce, &s.key)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(box)))
	base64.StdEncoding.Encode(out, box)
	return out, nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	box := make([]byte, base64.StdEncoding.DecodedLen(len(sealed)))
	n, err := base64.StdEncoding.Decode(box, sealed)
	if err != nil {
		return nil, ErrSealedPayload
	}
	box = box[:n]
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, ErrSealedPayload
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrSealedPayload
	}
	return plain, nil
}
