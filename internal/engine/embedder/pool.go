package embedder

// meanPool averages transformer hidden states over the non-padding tokens
// of each sequence.
//
// hidden: flat [batchSize * seqLen * dim]
// mask:   flat [batchSize * seqLen], 1 for real tokens
func meanPool(hidden []float32, mask []int64, batchSize, seqLen, dim int64) [][]float64 {
	out := make([][]float64, batchSize)
	for b := int64(0); b < batchSize; b++ {
		vec := make([]float64, dim)
		out[b] = vec

		var count float64
		for s := int64(0); s < seqLen; s++ {
			if mask[b*seqLen+s] != 1 {
				continue
			}
			count++
			tok := hidden[(b*seqLen+s)*dim:]
			for d := int64(0); d < dim; d++ {
				vec[d] += float64(tok[d])
			}
		}
		if count == 0 {
			continue
		}
		for d := range vec {
			vec[d] /= count
		}
	}
	return out
}
