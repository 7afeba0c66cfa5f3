package main

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	sngWrapperMagic       uint32 = 0x0000004A
	sngWrapperHeaderSize         = 24 // magic(4) + flags(4) + iv(16)
	sngFlagPayloadZlib    uint32 = 0x01
)

// DecodeSng strips the SNG wrapper (magic + flags + IV), decrypts the
// remaining ciphertext with AES-256-CTR, and — if the flags say so —
// un-zlibs the plaintext, returning the raw section stream SngParser
// consumes (spec §4.5).
func DecodeSng(wrapped []byte) ([]byte, error) {
	if len(wrapped) < sngWrapperHeaderSize {
		return nil, fmt.Errorf("sng wrapper too short: %d bytes", len(wrapped))
	}

	r := NewBinaryReader(wrapped)
	magic, _ := r.ReadU32(binary.LittleEndian)
	if magic != sngWrapperMagic {
		return nil, fmt.Errorf("invalid sng wrapper magic: 0x%08X", magic)
	}
	flags, _ := r.ReadU32(binary.LittleEndian)
	iv, _ := r.ReadBytes(16)

	ciphertext := wrapped[sngWrapperHeaderSize:]
	plaintext, err := DecryptSngPayload(ciphertext, iv)
	if err != nil {
		return nil, err
	}

	if flags&sngFlagPayloadZlib == 0 {
		return plaintext, nil
	}

	if len(plaintext) < 4 {
		return nil, &DecompressionFailure{Context: "sng payload shorter than its size prefix"}
	}
	uncompressedSize := binary.LittleEndian.Uint32(plaintext[:4])

	zr, err := zlib.NewReader(bytes.NewReader(plaintext[4:]))
	if err != nil {
		return nil, &DecompressionFailure{Context: fmt.Sprintf("sng inner zlib: %v", err)}
	}
	defer zr.Close()

	out := make([]byte, uncompressedSize)
	n, err := io.ReadFull(zr, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, &DecompressionFailure{Context: fmt.Sprintf("sng inner zlib: %v", err)}
	}
	return out[:n], nil
}
