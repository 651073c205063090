package redis

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/mrmps/SMRY-sub004/internal/entity"
)

// articleCodec serializes articles as zstd-compressed JSON.
// EncodeAll and DecodeAll are safe for concurrent use.
type articleCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newArticleCodec() (*articleCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &articleCodec{encoder: enc, decoder: dec}, nil
}

func (c *articleCodec) encode(a *entity.Article) ([]byte, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal article: %w", err)
	}
	return c.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/3)), nil
}

func (c *articleCodec) decode(data []byte) (*entity.Article, error) {
	raw, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress article: %w", err)
	}
	var a entity.Article
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("unmarshal article: %w", err)
	}
	return &a, nil
}
