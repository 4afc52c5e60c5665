package table

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// Compression identifies the container wrapping an uploaded file.
type Compression byte

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZip
	CompressionXZ
)

var byteCodeSigs = map[Compression][]byte{
	CompressionGzip: {0x1f, 0x8b, 0x08},
	CompressionZip:  {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:   {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
}

var compressedExtensions = map[string]Compression{
	".gz":  CompressionGzip,
	".zip": CompressionZip,
	".xz":  CompressionXZ,
}

// DetectCompression matches the leading bytes against known signatures.
func DetectCompression(b []byte) Compression {
Outer:
	for c, sig := range byteCodeSigs {
		if len(b) < len(sig) {
			continue
		}
		for i := range sig {
			if b[i] != sig[i] {
				continue Outer
			}
		}
		return c
	}
	return CompressionNone
}

func decompress(b []byte, want Compression) ([]byte, error) {
	if got := DetectCompression(b); got != want {
		return nil, fmt.Errorf("file extension does not match its content")
	}

	var r io.Reader
	switch want {
	case CompressionGzip:
		gz, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	case CompressionXZ:
		xr, err := xz.NewReader(bytes.NewReader(b), 0)
		if err != nil {
			return nil, err
		}
		r = xr
	case CompressionZip:
		zr := zipstream.NewReader(bytes.NewReader(b))
		// Only the first archive member is read
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		r = zr
	default:
		return b, nil
	}

	return io.ReadAll(r)
}
