package supabase

import "encoding/json"

// resourceRow is one row of the emakua_ml_resources table as returned by the
// PostgREST endpoint (select=metadata).
type resourceRow struct {
	Metadata json.RawMessage `json:"metadata"`
}

// postgrestError is PostgREST's error response format.
type postgrestError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
