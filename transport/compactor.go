package transport

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// compactor is an instance of zstandard compression applied to payload
// frames; claim payloads compress well and the codec is symmetric on both
// sides of the wire.
type compactor struct {
	zEncodr *zstd.Encoder
	zDecodr *zstd.Decoder
}

func newCompactor() (*compactor, error) {
	zstdEncoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf(`creating zstd encoder failed - %v`, err)
	}

	zstdDecoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf(`creating zstd decoder failed - %v`, err)
	}

	return &compactor{zEncodr: zstdEncoder, zDecodr: zstdDecoder}, nil
}

func (c *compactor) compact(data []byte) []byte {
	return c.zEncodr.EncodeAll(data, nil)
}

func (c *compactor) restore(data []byte) ([]byte, error) {
	out, err := c.zDecodr.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf(`decompressing payload frame failed - %v`, err)
	}
	return out, nil
}
