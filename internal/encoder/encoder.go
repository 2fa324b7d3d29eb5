// Package encoder seals credit applications for the bank: the JSON document
// is split into blocks that fit one RSA PKCS#1 v1.5 operation each, the
// ciphertexts are concatenated and the result is base64 encoded.
package encoder

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// pkcs1Overhead is the padding PKCS#1 v1.5 adds to every block.
const pkcs1Overhead = 11

var (
	ErrInvalidKey = errors.New("invalid rsa public key")
	ErrEncrypt    = errors.New("encrypt application")
)

type Encoder struct {
	key *rsa.PublicKey
}

func New(key *rsa.PublicKey) (*Encoder, error) {
	if key == nil || key.N == nil {
		return nil, ErrInvalidKey
	}
	if ChunkSize(key) <= 0 {
		return nil, fmt.Errorf("%w: modulus of %d bits is too small", ErrInvalidKey, key.N.BitLen())
	}
	return &Encoder{key: key}, nil
}

func NewFromFile(path string) (*Encoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	key, err := ParsePublicKey(data)
	if err != nil {
		return nil, err
	}
	return New(key)
}

// ParsePublicKey accepts PKIX ("PUBLIC KEY") and PKCS#1 ("RSA PUBLIC KEY")
// PEM blocks.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block", ErrInvalidKey)
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return key, nil
	case "PUBLIC KEY":
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidKey)
		}
		return key, nil
	}
	return nil, fmt.Errorf("%w: unexpected PEM type %q", ErrInvalidKey, block.Type)
}

// ChunkSize is ceil(bits/8) - 11, the largest plaintext one block can carry.
func ChunkSize(key *rsa.PublicKey) int {
	return (key.N.BitLen()+7)/8 - pkcs1Overhead
}

// Marshal renders v the way it is sealed: compact JSON without HTML
// escaping and without a trailing newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal application: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode marshals v and seals it. Any block failure aborts the whole
// operation; there is no partial output.
func (e *Encoder) Encode(v any) (string, error) {
	plaintext, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return e.Seal(plaintext)
}

func (e *Encoder) Seal(plaintext []byte) (string, error) {
	size := ChunkSize(e.key)
	out := make([]byte, 0, (len(plaintext)/size+1)*e.key.Size())

	for len(plaintext) > 0 {
		n := min(size, len(plaintext))
		block, err := rsa.EncryptPKCS1v15(rand.Reader, e.key, plaintext[:n])
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEncrypt, err)
		}
		out = append(out, block...)
		plaintext = plaintext[n:]
	}

	return base64.StdEncoding.EncodeToString(out), nil
}
