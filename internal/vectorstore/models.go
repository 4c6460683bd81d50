package vectorstore

// Document is one unit of stored, searchable content.
type Document struct {
	// ID is the deterministic content-derived identifier. Callers always
	// provide it; ingestion identity depends on it.
	ID string

	// Content is the text that gets embedded and searched.
	Content string

	// Metadata carries flat key-value facts about the document (kind, path,
	// screen, counts). Values are flattened to strings on storage.
	Metadata map[string]any
}

// SearchResult is one ranked hit from a similarity query.
type SearchResult struct {
	// ID is the stored document identifier.
	ID string

	// Content is the stored document text.
	Content string

	// Score is the similarity score, higher is more similar.
	Score float32

	// Metadata is the document metadata as stored.
	Metadata map[string]any
}
