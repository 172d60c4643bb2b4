package internal

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"redsys-orders/entity"
)

const signatureVersion = "HMAC_SHA256_V1"

// Encryptor signs merchant parameters the way Redsys expects (HMAC_SHA256_V1).
type Encryptor struct{}

func NewEncryptor() *Encryptor {
	return &Encryptor{}
}

// Sign encodes the parameters to Base64 JSON and signs them with a key derived from the order number.
func (e *Encryptor) Sign(parameters *entity.MerchantRequest, secret string) (*entity.PaymentRequest, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: merchant secret", ErrConfigurationMissing)
	}
	parametersJson, err := json.Marshal(parameters)
	if err != nil {
		return nil, fmt.Errorf("encode parameters: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(parametersJson)

	signature, err := e.CreateSignature(secret, encoded, parameters.Order)
	if err != nil {
		return nil, fmt.Errorf("create signature: %w", err)
	}
	return &entity.PaymentRequest{
		Parameters:       encoded,
		Signature:        signature,
		SignatureVersion: signatureVersion,
	}, nil
}

// CreateSignature returns Base64(HMAC-SHA256(3DES(order, secret), parameters)).
func (e *Encryptor) CreateSignature(secret, parameters, order string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("decode secret: %w", err)
	}

	orderKey, err := e.encrypt3DES(order, key)
	if err != nil {
		return "", fmt.Errorf("encrypt3DES: %w", err)
	}

	hash := e.mac256(parameters, orderKey)
	return base64.StdEncoding.EncodeToString(hash), nil
}

func (e *Encryptor) encrypt3DES(plainText string, key []byte) ([]byte, error) {
	if plainText == "" {
		return nil, errors.New("order number cannot be empty")
	}

	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, err
	}

	// zero padding up to the block size, zero IV
	data := []byte(plainText)
	if rem := len(data) % block.BlockSize(); rem != 0 {
		data = append(data, bytes.Repeat([]byte{0}, block.BlockSize()-rem)...)
	}
	iv := make([]byte, block.BlockSize())

	ciphertext := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, data)
	return ciphertext, nil
}

func (e *Encryptor) mac256(message string, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}
