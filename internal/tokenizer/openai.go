package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

// allSpecialTokens lets names such as "<|endoftext|>" be counted instead of rejected;
// tiktoken-go panics on disallowed special tokens.
var allSpecialTokens = []string{"all"}

var errNilEncoding = errors.New("nil tiktoken encoding")

// encodingCounter counts rendered trees with one tiktoken BPE encoding.
type encodingCounter struct {
	encoding     *tiktoken.Tiktoken
	encodingName string
}

func newEncodingCounter(encoding *tiktoken.Tiktoken, encodingName string) (Counter, error) {
	if encoding == nil {
		return nil, errNilEncoding
	}
	return encodingCounter{encoding: encoding, encodingName: encodingName}, nil
}

func (counter encodingCounter) Name() string {
	return counter.encodingName
}

func (counter encodingCounter) CountString(input string) (int, error) {
	if input == "" {
		return 0, nil
	}
	return len(counter.encoding.Encode(input, allSpecialTokens, nil)), nil
}
