package document

// Section is a contiguous stretch of reference-document text produced by a
// parser, before chunking. Page is 1-based; 0 means the source format has no
// page concept.
type Section struct {
	Title string // Heading or page label (may be empty)
	Text  string
	Page  int
}

// Passage is the unit of retrieval: a chunk of source text plus the
// provenance metadata a citation identifier is derived from.
type Passage struct {
	Text   string `json:"text"`
	Source string `json:"source"` // Source document file name
	Page   int    `json:"page"`   // 1-based page; <=0 means unknown
	Chunk  int    `json:"chunk"`  // Sequence number within the document; <0 means unknown
}
