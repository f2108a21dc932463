package storage

import (
	"bytes"
	"fmt"
	"github.com/klauspost/compress/zstd"
	"kickoff/internal/storage/interfaces"
	"kickoff/internal/structures"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

// Decompress passes through values written before compression was enabled.
func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	if !bytes.HasPrefix(val, zstdMagic) {
		return val, nil
	}
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

type noopCompression struct{}

func (noopCompression) Compress(val []byte) ([]byte, error)   { return val, nil }
func (noopCompression) Decompress(val []byte) ([]byte, error) { return val, nil }
func (noopCompression) Close()                                {}

func NewCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	if !conf.Storage.Compress {
		return noopCompression{}, nil
	}
	return NewZstdCompressor()
}
