package router

import "errors"

var (
	// ErrClassifierRequired is returned when a classifier is not provided.
	ErrClassifierRequired = errors.New("classifier required")

	// ErrExtractorRequired is returned when a filter extractor is not provided.
	ErrExtractorRequired = errors.New("filter extractor required")

	// ErrSemanticSearcherRequired is returned when a semantic searcher is not provided.
	ErrSemanticSearcherRequired = errors.New("semantic searcher required")

	// ErrStructuredSearcherRequired is returned when a structured searcher is not provided.
	ErrStructuredSearcherRequired = errors.New("structured searcher required")

	// ErrChatModelRequired is returned when a chat model is not provided.
	ErrChatModelRequired = errors.New("chat model required")
)
