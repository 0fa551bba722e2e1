package translate

import "github.com/heartmarshall/emakua-backend/internal/domain"

// Result is the outcome of a single translation request.
type Result struct {
	// Translation is the assembled output sentence.
	Translation string

	// Direction is the concrete direction that was applied. When the
	// request asked for auto detection this carries the detected one.
	Direction domain.Direction

	// Missing lists the word tokens that resolved to no candidate, in
	// input order, as they appeared in the request.
	Missing []string
}
