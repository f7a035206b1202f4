package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// 密钥派生盐，随存储格式版本固定
var kdfSalt = []byte("wikicore.content.v1")

var ErrCipherText = errors.New("crypt: malformed ciphertext")

// Cipher 文章内容加解密器
// 未启用时 Encrypt/Decrypt 均为恒等变换
type Cipher struct {
	enabled bool
	aead    cipher.AEAD
}

// New 构造加解密器，secret 经 argon2id 派生为 AES-256 密钥
func New(enabled bool, secret string) (*Cipher, error) {
	if !enabled {
		return &Cipher{}, nil
	}
	if secret == "" {
		return nil, errors.New("crypt: encryption enabled but secret is empty")
	}
	key := argon2.IDKey([]byte(secret), kdfSalt, 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{enabled: true, aead: aead}, nil
}

// Enabled 是否启用加密
func (c *Cipher) Enabled() bool {
	return c.enabled
}

// Encrypt 加密明文，输出 base64(nonce || ciphertext)
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if !c.enabled {
		return plaintext, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt 解密 Encrypt 的输出
// 失败必须返回错误，调用方不得把密文当明文继续使用
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if !c.enabled {
		return ciphertext, nil
	}
	if ciphertext == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCipherText, err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", ErrCipherText
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCipherText, err)
	}
	return string(plain), nil
}
