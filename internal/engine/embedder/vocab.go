package embedder

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// vocab is a WordPiece vocabulary; a token's ID is its 0-indexed line number
// in vocab.txt.
type vocab struct {
	ids map[string]int64

	unkID int64
	clsID int64
	sepID int64
}

func loadVocab(path string) (*vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}
	defer f.Close()

	ids := make(map[string]int64, 32000)
	var n int64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		tok := strings.TrimRight(sc.Text(), "\r")
		if _, dup := ids[tok]; !dup {
			ids[tok] = n
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("vocab: %s is empty", path)
	}

	v := &vocab{ids: ids}
	for name, dest := range map[string]*int64{
		"[UNK]": &v.unkID,
		"[CLS]": &v.clsID,
		"[SEP]": &v.sepID,
	} {
		id, ok := ids[name]
		if !ok {
			return nil, fmt.Errorf("vocab: missing special token %s", name)
		}
		*dest = id
	}
	return v, nil
}

func (v *vocab) lookup(token string) int64 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return v.unkID
}

func (v *vocab) has(token string) bool {
	_, ok := v.ids[token]
	return ok
}

func (v *vocab) size() int {
	return len(v.ids)
}
