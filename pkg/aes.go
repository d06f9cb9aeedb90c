package pkg

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"

	"github.com/pkg/errors"
)

var DefaultIV = []byte("21a34b56c78d90ef")

// AesCipher encrypts and decrypts config passwords with AES-CFB.
// Streams are created per call so one cipher can be reused.
type AesCipher struct {
	block cipher.Block
	iv    []byte
}

func NewAes(key []byte, iv []byte) (*AesCipher, error) {
	if len(iv) == 0 {
		iv = DefaultIV
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "invalid aes key")
	}
	if len(iv) != block.BlockSize() {
		return nil, errors.Errorf("aes iv must be %d bytes, got %d", block.BlockSize(), len(iv))
	}
	return &AesCipher{block: block, iv: iv}, nil
}

func (c *AesCipher) Enc(data []byte) []byte {
	b := make([]byte, len(data))
	cipher.NewCFBEncrypter(c.block, c.iv).XORKeyStream(b, data)
	return b
}

func (c *AesCipher) EncAsHex(data string) string {
	return hex.EncodeToString(c.Enc([]byte(data)))
}

func (c *AesCipher) Dec(data []byte) []byte {
	b := make([]byte, len(data))
	cipher.NewCFBDecrypter(c.block, c.iv).XORKeyStream(b, data)
	return b
}

func (c *AesCipher) DecAsStr(hexData string) (string, error) {
	data, err := hex.DecodeString(hexData)
	if err != nil {
		return "", errors.Wrap(err, "encrypted value is not hex")
	}
	return string(c.Dec(data)), nil
}
