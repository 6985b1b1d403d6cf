package query

import (
	"encoding/json"
	"net/http"
)

type Kind int

const (
	KindRows Kind = iota + 1
	KindStatus
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindRows:
		return "rows"
	case KindStatus:
		return "status"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	StatusExecuted = "Query executed successfully"
	MsgUnsafeQuery = "Unsafe query detected"
)

// Result is what one dispatched statement produces. Exactly one of Rows,
// Status or Err is meaningful, selected by Kind; Code is the HTTP status
// the result is relayed with.
type Result struct {
	Kind   Kind
	Code   int
	Rows   [][]any
	Status string
	Err    string
}

type statusPayload struct {
	Status string `json:"status"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func RowsResult(rows [][]any) Result {
	if rows == nil {
		rows = make([][]any, 0)
	}
	return Result{Kind: KindRows, Code: http.StatusOK, Rows: rows}
}

func StatusResult() Result {
	return Result{Kind: KindStatus, Code: http.StatusOK, Status: StatusExecuted}
}

func ErrorResult(code int, msg string) Result {
	return Result{Kind: KindError, Code: code, Err: msg}
}

func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindRows:
		rows := r.Rows
		if rows == nil {
			rows = make([][]any, 0)
		}
		return json.Marshal(rows)
	case KindStatus:
		return json.Marshal(statusPayload{Status: r.Status})
	default:
		return json.Marshal(errorPayload{Error: r.Err})
	}
}
