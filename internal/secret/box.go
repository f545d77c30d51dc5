// Package secret 加密存储在数据库中的邮箱令牌和密码。
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	prefix    = "sb1:"
	nonceSize = 24
)

// ErrDecrypt 密文损坏或密钥不匹配
var ErrDecrypt = errors.New("secret: decryption failed")

// Box 使用 NaCl secretbox 加解密字符串。
//
// 未配置密钥时 Box 透传明文；读取时不带前缀的值视为历史明文。
type Box struct {
	key     *[32]byte
	enabled bool
}

// New 根据口令派生密钥，口令为空时返回透传实例
func New(passphrase string) *Box {
	if passphrase == "" {
		return &Box{}
	}
	key := sha256.Sum256([]byte(passphrase))
	return &Box{key: &key, enabled: true}
}

// Enabled 是否启用加密
func (b *Box) Enabled() bool {
	return b != nil && b.enabled
}

// Seal 加密明文
func (b *Box) Seal(plaintext string) (string, error) {
	if !b.Enabled() || plaintext == "" {
		return plaintext, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secret: nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, b.key)
	return prefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open 解密密文，不带前缀的值原样返回
func (b *Box) Open(value string) (string, error) {
	if !strings.HasPrefix(value, prefix) {
		return value, nil
	}
	if !b.Enabled() {
		return "", fmt.Errorf("%w: no key configured", ErrDecrypt)
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, prefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	out, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, b.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(out), nil
}
