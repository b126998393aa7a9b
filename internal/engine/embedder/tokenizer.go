package embedder

import (
	"strings"

	"github.com/crimson-sun/roletag/internal/textnorm"
)

const (
	defaultMaxSeqLen = 128
	maxWordRunes     = 100
	unkToken         = "[UNK]"
)

// tokenized is a padded batch ready for inference. Slices are flat
// [batchSize * seqLen]; padding positions have ID 0 and mask 0.
type tokenized struct {
	inputIDs      []int64
	attentionMask []int64
	batchSize     int64
	seqLen        int64
}

// tokenizer is an uncased BERT WordPiece tokenizer. Job titles go through
// the same normalization as the rule layer before WordPiece.
type tokenizer struct {
	vocab  *vocab
	maxLen int
}

func newTokenizer(vocabPath string, maxLen int) (*tokenizer, error) {
	v, err := loadVocab(vocabPath)
	if err != nil {
		return nil, err
	}
	if maxLen <= 2 {
		maxLen = defaultMaxSeqLen
	}
	return &tokenizer{vocab: v, maxLen: maxLen}, nil
}

// encode returns [CLS] pieces... [SEP] as IDs, truncated to maxLen.
func (t *tokenizer) encode(text string) []int64 {
	pieces := t.pieces(text)
	if limit := t.maxLen - 2; len(pieces) > limit {
		pieces = pieces[:limit]
	}
	ids := make([]int64, 0, len(pieces)+2)
	ids = append(ids, t.vocab.clsID)
	for _, p := range pieces {
		ids = append(ids, t.vocab.lookup(p))
	}
	return append(ids, t.vocab.sepID)
}

// tokenizeBatch encodes texts and pads them to the longest sequence.
func (t *tokenizer) tokenizeBatch(texts []string) tokenized {
	if len(texts) == 0 {
		return tokenized{}
	}
	encoded := make([][]int64, len(texts))
	var seqLen int
	for i, text := range texts {
		encoded[i] = t.encode(text)
		seqLen = max(seqLen, len(encoded[i]))
	}

	batch := tokenized{
		inputIDs:      make([]int64, len(texts)*seqLen),
		attentionMask: make([]int64, len(texts)*seqLen),
		batchSize:     int64(len(texts)),
		seqLen:        int64(seqLen),
	}
	for i, ids := range encoded {
		row := i * seqLen
		copy(batch.inputIDs[row:], ids)
		for j := range ids {
			batch.attentionMask[row+j] = 1
		}
	}
	return batch
}

// pieces normalizes text, splits CJK ideographs into their own words and
// applies WordPiece to each word.
func (t *tokenizer) pieces(text string) []string {
	var out []string
	for _, word := range strings.Fields(splitIdeographs(textnorm.Normalize(text))) {
		out = append(out, t.wordpiece(word)...)
	}
	return out
}

// wordpiece greedily matches the longest vocabulary prefix, continuing with
// "##" pieces. A word that cannot be fully decomposed becomes [UNK].
func (t *tokenizer) wordpiece(word string) []string {
	runes := []rune(word)
	if len(runes) > maxWordRunes {
		return []string{unkToken}
	}
	var out []string
	for start := 0; start < len(runes); {
		end := len(runes)
		var piece string
		for ; end > start; end-- {
			piece = string(runes[start:end])
			if start > 0 {
				piece = "##" + piece
			}
			if t.vocab.has(piece) {
				break
			}
		}
		if end == start {
			return []string{unkToken}
		}
		out = append(out, piece)
		start = end
	}
	return out
}

func splitIdeographs(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isIdeograph(r) {
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isIdeograph(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}
