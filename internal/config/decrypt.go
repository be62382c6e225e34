// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"math"
	"regexp"
)

// Decryptor decrypts RSA-encrypted config values (see DecryptField for
// the `ENC(...)` wrapping) with a PEM private key supplied by the caller.
// No fzf-serve command constructs one; config values are used as
// written unless library code calls it.
type Decryptor struct {
	*rsa.PrivateKey
}

func parseRsaKey(key []byte) (any, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, errors.New("malformed key")
	}
	switch block.Type {
	case "PUBLIC KEY":
		return x509.ParsePKIXPublicKey(block.Bytes)
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		return x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	return nil, fmt.Errorf("key type not supported: %s", block.Type)
}

// NewDecryptor parses a PEM-encoded RSA private key.
func NewDecryptor(pemKey string) (*Decryptor, error) {
	raw, err := parseRsaKey([]byte(pemKey))
	if err != nil {
		return nil, err
	}
	k, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an rsa private key")
	}
	return &Decryptor{PrivateKey: k}, nil
}

func (d *Decryptor) Decrypt(data []byte) ([]byte, error) {
	chunkLen := d.N.BitLen() / 8
	var out bytes.Buffer
	chunks := int(math.Ceil(float64(len(data)) / float64(chunkLen)))
	for i := range chunks {
		end := chunkLen * (i + 1)
		if i == chunks-1 {
			end = len(data)
		}
		part, err := rsa.DecryptPKCS1v15(rand.Reader, d.PrivateKey, data[chunkLen*i:end])
		if err != nil {
			return nil, err
		}
		out.Write(part)
	}
	return out.Bytes(), nil
}

var regEncryptBlock = regexp.MustCompile(`^ENC\((?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{2}==|[A-Za-z0-9+/]{3}=|[A-Za-z0-9+/]{4})\)$`)

// DecryptField decrypts content if it is wrapped in ENC(...), otherwise
// returns it unchanged.
func DecryptField(content string, pemKey string) (string, error) {
	if !regEncryptBlock.MatchString(content) {
		return content, nil
	}
	raw, err := base64.StdEncoding.DecodeString(content[4 : len(content)-1])
	if err != nil {
		return "", err
	}
	d, err := NewDecryptor(pemKey)
	if err != nil {
		return "", err
	}
	plain, err := d.Decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
