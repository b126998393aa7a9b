package embedder

import (
	"fmt"
	"sync"
)

// Embedder produces vector embeddings from text.
type Embedder interface {
	Embed(text string) ([]float64, error)
	EmbedBatch(texts []string) ([][]float64, error)
	Close() error
}

// ONNXOptions locates the model files for an ONNX embedder.
type ONNXOptions struct {
	ModelPath   string
	VocabPath   string
	LibraryPath string // ONNX Runtime shared library; empty = next to the model
	Threads     int    // intra-op threads; 0 = 4
	MaxSeqLen   int    // 0 = 128
}

// ONNX runs a BERT-style sentence-transformer locally: WordPiece
// tokenization, ONNX inference and attention-masked mean pooling.
type ONNX struct {
	mu      sync.Mutex
	session *onnxSession
	tok     *tokenizer
}

// NewONNX loads the ONNX model and vocabulary.
func NewONNX(opts ONNXOptions) (*ONNX, error) {
	tok, err := newTokenizer(opts.VocabPath, opts.MaxSeqLen)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	sess, err := newONNXSession(opts.ModelPath, opts.LibraryPath, opts.Threads)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	return &ONNX{session: sess, tok: tok}, nil
}

// Dim returns the embedding dimensionality.
func (e *ONNX) Dim() int {
	return int(e.session.embedDim)
}

// Embed produces a single embedding vector for the given text.
func (e *ONNX) Embed(text string) ([]float64, error) {
	vecs, err := e.EmbedBatch([]string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one inference call, padded to the longest
// sequence in the batch.
func (e *ONNX) EmbedBatch(texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	batch := e.tok.tokenizeBatch(texts)

	e.mu.Lock()
	hidden, err := e.session.infer(batch)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	return meanPool(hidden, batch.attentionMask, batch.batchSize, batch.seqLen, e.session.embedDim), nil
}

// Close releases ONNX Runtime resources.
func (e *ONNX) Close() error {
	if e.session != nil {
		return e.session.close()
	}
	return nil
}
