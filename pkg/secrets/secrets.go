package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDecryption 解密失败（格式损坏、密钥不匹配或密文被篡改）
var ErrDecryption = errors.New("decryption failed")

// Box 竞猜答案的对称加密器，输出格式为 hex(nonce):hex(ciphertext)
type Box struct {
	aead cipher.AEAD
}

// New 根据 hex 编码的 32 字节密钥构造加密器
func New(hexKey string) (*Box, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Box{aead: aead}, nil
}

// Encrypt 每次调用生成新的随机 nonce
func (b *Box) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := b.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(ciphertext), nil
}

func (b *Box) Decrypt(value string) (string, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return "", ErrDecryption
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != b.aead.NonceSize() {
		return "", ErrDecryption
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrDecryption
	}

	plaintext, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}

// IsEncrypted 判断值是否是本包产出的 nonce:ciphertext 形态，
// 加密功能上线前存的明文答案会返回 false，按明文兼容处理
func (b *Box) IsEncrypted(value string) bool {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) != b.aead.NonceSize()*2 {
		return false
	}
	if _, err := hex.DecodeString(parts[0]); err != nil {
		return false
	}
	if _, err := hex.DecodeString(parts[1]); err != nil {
		return false
	}
	return true
}
