package ingest

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tokenEncoderOnce sync.Once
	tokenEncoder     *tiktoken.Tiktoken
)

// CountTokens returns the cl100k_base token count of the text, or 0 when
// the encoding is unavailable (the encoder may need to fetch its
// vocabulary on first use).
func CountTokens(text string) int {
	if text == "" {
		return 0
	}

	tokenEncoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return
		}
		tokenEncoder = enc
	})

	if tokenEncoder == nil {
		return 0
	}

	return len(tokenEncoder.Encode(text, nil, nil))
}
