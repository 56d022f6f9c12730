package captions

import (
	"fmt"
	"strings"
)

const (
	NullToken  = "<NULL>"
	StartToken = "<START>"
	EndToken   = "<END>"
)

// DecodeOne は単語IDの列を空白区切りの文に戻します。
// NullToken は読み飛ばし、EndToken を含めたところで打ち切ります。
func DecodeOne(caption []int, idxToWord []string) (string, error) {
	words := make([]string, 0, len(caption))
	for t, idx := range caption {
		if idx < 0 || idx >= len(idxToWord) {
			return "", fmt.Errorf("captions: index %d at position %d is outside the vocabulary of %d words", idx, t, len(idxToWord))
		}
		word := idxToWord[idx]
		if word != NullToken {
			words = append(words, word)
		}
		if word == EndToken {
			break
		}
	}
	return strings.Join(words, " "), nil
}

func Decode(caps [][]int, idxToWord []string) ([]string, error) {
	decoded := make([]string, len(caps))
	for i, caption := range caps {
		s, err := DecodeOne(caption, idxToWord)
		if err != nil {
			return nil, fmt.Errorf("caption %d: %w", i, err)
		}
		decoded[i] = s
	}
	return decoded, nil
}
