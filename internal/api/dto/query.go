package dto

import "encoding/json"

// QueryRequest keeps the raw JSON of each field so the handler can tell a
// missing key from a key that holds the wrong type.
type QueryRequest struct {
	Auth  json.RawMessage `json:"auth"`
	Query json.RawMessage `json:"query"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
