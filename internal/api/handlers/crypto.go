package handlers

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"cryptodb-gateway/internal/api/dto"
	"cryptodb-gateway/internal/api/utils"
	"cryptodb-gateway/internal/query"
)

const cryptoMaxBodyBytes = 1 << 20

const (
	msgInvalidRequest   = "Invalid request, 'auth' and 'query' required"
	msgUnauthorized     = "Unauthorized"
	msgMethodNotAllowed = "Method not allowed"
)

type QueryExecutor interface {
	Execute(ctx context.Context, database, q string) query.Result
}

// NewCryptoHandler serves POST /crypto: it checks the shared secret and runs
// the submitted statement against database.
func NewCryptoHandler(secret, database string, exec QueryExecutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			utils.WriteError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cryptoMaxBodyBytes)
		defer r.Body.Close()

		var req dto.QueryRequest
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}
		if err := ensureEOF(dec); err != nil {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}
		if len(req.Auth) == 0 || len(req.Query) == 0 {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}

		auth, ok := decodeString(req.Auth)
		if !ok || !secretEqual(auth, secret) {
			utils.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		q, ok := decodeString(req.Query)
		if !ok {
			utils.WriteError(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}

		res := exec.Execute(r.Context(), database, q)
		utils.WriteJSON(w, res.Code, res)
	}
}

func ensureEOF(dec *json.Decoder) error {
	var extra any
	if err := dec.Decode(&extra); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return errors.New("extra data")
}

// decodeString accepts only a JSON string; null and other types fail.
func decodeString(raw json.RawMessage) (string, bool) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func secretEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
