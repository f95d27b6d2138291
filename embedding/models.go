package embedding

// modelDimension returns the output dimension of known models.
func modelDimension(model string) (int, bool) {
	dims := map[string]int{
		"sentence-transformers/all-MiniLM-L6-v2": 384,
		"BAAI/bge-small-en-v1.5":                 384,
		"BAAI/bge-small-en":                      384,
		"BAAI/bge-base-en-v1.5":                  768,
		"BAAI/bge-base-en":                       768,
		"fast-all-MiniLM-L6-v2":                  384,
		"fast-bge-small-en-v1.5":                 384,
		"fast-bge-base-en-v1.5":                  768,
	}
	dim, ok := dims[model]
	return dim, ok
}
