package serialize

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the ZStandard frame header. Compressed envelopes start
// with it, so Unmarshal can detect compression without a flag byte.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	encoderOnce sync.Once
	encoder     *zstd.Encoder
	encoderErr  error

	decoderOnce sync.Once
	decoder     *zstd.Decoder
	decoderErr  error
)

// compress encodes data with ZStandard at the default level. The
// shared encoder is created once; EncodeAll is safe for concurrent
// use.
func compress(data []byte) ([]byte, error) {
	encoderOnce.Do(func() {
		encoder, encoderErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	if encoderErr != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", encoderErr)
	}
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// decompress decodes a ZStandard frame. The shared decoder is created
// once; DecodeAll is safe for concurrent use.
func decompress(data []byte) ([]byte, error) {
	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil)
	})
	if decoderErr != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", decoderErr)
	}
	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress envelope: %w", err)
	}
	return out, nil
}

func isCompressed(data []byte) bool { return bytes.HasPrefix(data, zstdMagic) }
