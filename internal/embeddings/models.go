package embeddings

// DefaultModel is the model loaded when none is configured.
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

// modelAliases maps friendly model names to fastembed model names.
// The fastembed names themselves are also accepted directly.
var modelAliases = map[string]string{
	"sentence-transformers/all-MiniLM-L6-v2": "fast-all-MiniLM-L6-v2",
	"BAAI/bge-small-en-v1.5":                 "fast-bge-small-en-v1.5",
	"BAAI/bge-small-en":                      "fast-bge-small-en",
	"BAAI/bge-base-en-v1.5":                  "fast-bge-base-en-v1.5",
	"BAAI/bge-base-en":                       "fast-bge-base-en",
	"BAAI/bge-small-zh-v1.5":                 "fast-bge-small-zh-v1.5",
}

// modelDimensions maps fastembed model names to their embedding dimensions.
var modelDimensions = map[string]int{
	"fast-all-MiniLM-L6-v2":  384,
	"fast-bge-small-en-v1.5": 384,
	"fast-bge-small-en":      384,
	"fast-bge-base-en-v1.5":  768,
	"fast-bge-base-en":       768,
	"fast-bge-small-zh-v1.5": 512,
}

// resolveModel maps a model name to its fastembed model name.
func resolveModel(name string) (string, bool) {
	if fast, ok := modelAliases[name]; ok {
		return fast, true
	}
	// Accept a raw fastembed model name as long as it is known
	_, known := modelDimensions[name]
	return name, known
}

// ModelDimension returns the embedding dimension for a model name.
// The lookup uses the static model table and never loads the model,
// so it is safe to call before (or instead of) constructing a provider.
func ModelDimension(name string) (int, bool) {
	fast, ok := resolveModel(name)
	if !ok {
		return 0, false
	}
	return modelDimensions[fast], true
}
