package main

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// CryptoFailure is returned when AES key setup or the stream operation
// itself fails.
type CryptoFailure struct {
	Stage string
	Err   error
}

func (e *CryptoFailure) Error() string {
	return fmt.Sprintf("crypto failure during %s: %v", e.Stage, e.Err)
}

func (e *CryptoFailure) Unwrap() error { return e.Err }

// Fixed, process-wide constants embedded in every PSARC/SNG-capable tool in
// this ecosystem. These are the same values Ubisoft's toolchain uses; they
// are not secrets in the security sense, just a fixed obfuscation layer.
var (
	psarcTocKey = []byte{
		0xC5, 0x3D, 0xB2, 0x38, 0x70, 0xA1, 0xA2, 0xF7,
		0x1C, 0xAE, 0x64, 0x06, 0x1F, 0xDD, 0x0E, 0x11,
		0x57, 0x30, 0x9D, 0xC8, 0x52, 0x04, 0xD4, 0xC5,
		0xBF, 0xDF, 0x25, 0x09, 0x0D, 0xF2, 0x57, 0x2C,
	}
	psarcTocIV = []byte{
		0xE9, 0x15, 0xAA, 0x01, 0x8F, 0xEF, 0x71, 0xFC,
		0x50, 0x81, 0x32, 0xE4, 0xBB, 0x4C, 0xEB, 0x42,
	}

	sngKey = []byte{
		0xC5, 0x3D, 0xB2, 0x38, 0x70, 0xA1, 0xA2, 0xF7,
		0x1C, 0xAE, 0x64, 0x06, 0x1F, 0xDD, 0x0E, 0x11,
		0x57, 0x30, 0x9D, 0xC8, 0x52, 0x04, 0xD4, 0xC5,
		0xBF, 0xDF, 0x25, 0x09, 0x0D, 0xF2, 0x57, 0x2C,
	}
)

// DecryptTOC reverses the PSARC TOC's AES-256-CFB128 obfuscation (no
// padding). The ciphertext is zero-padded up to a 16-byte multiple before
// decryption and the output is truncated back to the original length, per
// spec §4.2.
func DecryptTOC(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(psarcTocKey)
	if err != nil {
		return nil, &CryptoFailure{Stage: "toc key setup", Err: err}
	}

	padded := make([]byte, roundUp16(len(ciphertext)))
	copy(padded, ciphertext)

	stream := cipher.NewCFBDecrypter(block, psarcTocIV)
	out := make([]byte, len(padded))
	stream.XORKeyStream(out, padded)

	return out[:len(ciphertext)], nil
}

func roundUp16(n int) int {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}

// DecryptSngPayload decrypts a single SNG entry's ciphertext into a new
// buffer using AES-256-CTR with the IV carried in the SNG wrapper (spec §4.5). CTR is a
// stream cipher, so there is no final-block padding to handle.
func DecryptSngPayload(ciphertext, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(sngKey)
	if err != nil {
		return nil, &CryptoFailure{Stage: "sng key setup", Err: err}
	}

	stream := cipher.NewCTR(block, iv)
	out := make([]byte, len(ciphertext))
	stream.XORKeyStream(out, ciphertext)
	return out, nil
}
