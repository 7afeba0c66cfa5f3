package main

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// InflateZlib tries three window-bit configurations in order — standard
// zlib header, raw deflate, gzip auto-detect — and returns the bytes
// produced by the first one that runs the stream to completion. The
// compressed input may legitimately decode to fewer bytes than expected
// (the caller is responsible for capping to the entry's declared total); an
// empty result signals total failure rather than an error, matching spec
// §4.3's "never throws on decompression failure" contract.
func InflateZlib(compressed []byte, expected int) []byte {
	if out, ok := tryZlibHeader(compressed, expected); ok {
		return out
	}
	if out, ok := tryRawDeflate(compressed, expected); ok {
		return out
	}
	if out, ok := tryGzip(compressed, expected); ok {
		return out
	}
	return nil
}

func tryZlibHeader(compressed []byte, expected int) ([]byte, bool) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, false
	}
	defer r.Close()
	return drainUpTo(r, expected)
}

func tryRawDeflate(compressed []byte, expected int) ([]byte, bool) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	return drainUpTo(r, expected)
}

func tryGzip(compressed []byte, expected int) ([]byte, bool) {
	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, false
	}
	defer r.Close()
	return drainUpTo(r, expected)
}

// drainUpTo reads at most `expected` bytes, tolerating io.EOF / io.ErrUnexpectedEOF
// as "stream ended, return what we have" rather than failure, since a chunk's
// decompressed length may be legitimately shorter than the caller's estimate.
func drainUpTo(r io.Reader, expected int) ([]byte, bool) {
	if expected <= 0 {
		expected = 1 << 16
	}
	buf := make([]byte, expected)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, false
	}
	if n == 0 {
		return nil, false
	}
	return buf[:n], true
}

// InflateLZMA performs a single-attempt LZMA-alone decode. The resulting
// length is whatever `lzma.NewReader` produces before exhausting its input;
// an empty result signals failure per the same no-throw contract as
// InflateZlib.
func InflateLZMA(compressed []byte, expected int) []byte {
	r, err := lzma.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil
	}
	if expected <= 0 {
		expected = 1 << 16
	}
	buf := make([]byte, expected)
	n, _ := io.ReadFull(r, buf)
	if n == 0 {
		return nil
	}
	return buf[:n]
}
