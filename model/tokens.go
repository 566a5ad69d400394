package model

import "github.com/pkoukk/tiktoken-go"

// CountTokens measures text with the cl100k tokenizer family used by
// the embedding and completion models. Falls back to a character
// estimate when the encoding tables are unavailable offline.
func CountTokens(text string) int {
	enc, err := tiktoken.EncodingForModel("gpt-4o-mini")
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return len(text) / 4
		}
	}
	return len(enc.Encode(text, nil, nil))
}
