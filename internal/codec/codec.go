// Package codec encodes record values for storage and transport.
package codec

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Codec turns entity values into opaque bytes and back.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSON encodes values as plain JSON.
type JSON struct{}

// Encode marshals v.
func (JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals data into v.
func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ZstdJSON compresses JSON-encoded values with zstd, pooling encoders and decoders.
type ZstdJSON struct {
	level    zstd.EncoderLevel
	encoders sync.Pool
	decoders sync.Pool
}

// NewZstdJSON builds a codec compressing at the given level (1 fastest to 4 best).
func NewZstdJSON(level int) *ZstdJSON {
	return &ZstdJSON{level: levelToZstd(level)}
}

// Encode marshals and compresses v.
func (c *ZstdJSON) Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}

	enc, err := c.encoder()
	if err != nil {
		return nil, err
	}
	defer c.encoders.Put(enc)

	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode decompresses data and unmarshals it into v.
func (c *ZstdJSON) Decode(data []byte, v any) error {
	dec, err := c.decoder()
	if err != nil {
		return err
	}
	defer c.decoders.Put(dec)

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("decompress value: %w", err)
	}
	if err = json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal value: %w", err)
	}
	return nil
}

func (c *ZstdJSON) encoder() (*zstd.Encoder, error) {
	if enc, ok := c.encoders.Get().(*zstd.Encoder); ok {
		return enc, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return enc, nil
}

func (c *ZstdJSON) decoder() (*zstd.Decoder, error) {
	if dec, ok := c.decoders.Get().(*zstd.Decoder); ok {
		return dec, nil
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return dec, nil
}

func levelToZstd(level int) zstd.EncoderLevel {
	switch level {
	case 2:
		return zstd.SpeedDefault
	case 3:
		return zstd.SpeedBetterCompression
	case 4:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedFastest
	}
}

// ForLevel returns plain JSON for level 0 and zstd-compressed JSON otherwise.
// Producers and readers of one store must agree on it.
func ForLevel(level int) Codec {
	if level <= 0 {
		return JSON{}
	}
	return NewZstdJSON(level)
}
