package bench

import "errors"

var (
	// ErrNoCorpus is returned when a retrieval suite has neither an input
	// directory nor a dataset to search.
	ErrNoCorpus = errors.New("no corpus: set an input directory or a dataset")

	// ErrNoIngester is returned when a directory must be ingested but the
	// engine cannot ingest and no ingester was configured.
	ErrNoIngester = errors.New("no ingester configured")

	// ErrNoInputs is returned by the encode suite without input paths.
	ErrNoInputs = errors.New("at least one input is required")
)
