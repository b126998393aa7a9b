package embedder

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

var testVocab = []string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]",
	"software", "engineer", "eng", "##ine", "##r",
	"head", "of", "sales", "中", "文",
}

func writeVocab(t *testing.T, tokens []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testTokenizer(t *testing.T, maxLen int) *tokenizer {
	t.Helper()
	tok, err := newTokenizer(writeVocab(t, testVocab), maxLen)
	if err != nil {
		t.Fatalf("newTokenizer: %v", err)
	}
	return tok
}

func TestLoadVocab(t *testing.T) {
	v, err := loadVocab(writeVocab(t, testVocab))
	if err != nil {
		t.Fatalf("loadVocab: %v", err)
	}
	if v.size() != len(testVocab) {
		t.Errorf("size = %d, want %d", v.size(), len(testVocab))
	}
	if v.unkID != 1 || v.clsID != 2 || v.sepID != 3 {
		t.Errorf("specials = %d/%d/%d, want 1/2/3", v.unkID, v.clsID, v.sepID)
	}
	if got := v.lookup("nope"); got != v.unkID {
		t.Errorf("lookup(nope) = %d, want unk", got)
	}
}

func TestLoadVocabMissingSpecial(t *testing.T) {
	if _, err := loadVocab(writeVocab(t, []string{"[PAD]", "[UNK]", "hello"})); err == nil {
		t.Fatal("expected error for vocab without [CLS]/[SEP]")
	}
}

func TestLoadVocabEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadVocab(path); err == nil {
		t.Fatal("expected error for empty vocab")
	}
}

func TestEncode(t *testing.T) {
	tok := testTokenizer(t, 0)

	tests := []struct {
		text string
		want []int64
	}{
		{"Software Engineer", []int64{2, 4, 5, 3}},
		{"Head of Sales!", []int64{2, 9, 10, 11, 3}},
		{"enginer", []int64{2, 6, 7, 8, 3}},
		{"engx", []int64{2, 1, 3}},
		{"中文", []int64{2, 12, 13, 3}},
		{"", []int64{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := tok.encode(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("encode(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestEncodeTruncates(t *testing.T) {
	tok := testTokenizer(t, 4)
	want := []int64{2, 9, 10, 3}
	if got := tok.encode("head of sales"); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWordpieceLongWord(t *testing.T) {
	tok := testTokenizer(t, 0)
	got := tok.wordpiece(strings.Repeat("a", maxWordRunes+1))
	if !reflect.DeepEqual(got, []string{unkToken}) {
		t.Errorf("got %v, want [UNK]", got)
	}
}

func TestTokenizeBatchPads(t *testing.T) {
	tok := testTokenizer(t, 0)
	b := tok.tokenizeBatch([]string{"software engineer", "sales"})

	if b.batchSize != 2 || b.seqLen != 4 {
		t.Fatalf("shape = %dx%d, want 2x4", b.batchSize, b.seqLen)
	}
	wantIDs := []int64{2, 4, 5, 3, 2, 11, 3, 0}
	wantMask := []int64{1, 1, 1, 1, 1, 1, 1, 0}
	if !reflect.DeepEqual(b.inputIDs, wantIDs) {
		t.Errorf("ids = %v, want %v", b.inputIDs, wantIDs)
	}
	if !reflect.DeepEqual(b.attentionMask, wantMask) {
		t.Errorf("mask = %v, want %v", b.attentionMask, wantMask)
	}
}

func TestTokenizeBatchEmpty(t *testing.T) {
	tok := testTokenizer(t, 0)
	if b := tok.tokenizeBatch(nil); b.batchSize != 0 {
		t.Errorf("batchSize = %d, want 0", b.batchSize)
	}
}
