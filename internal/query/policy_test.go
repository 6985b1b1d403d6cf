package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "select ok", query: "SELECT * FROM prices"},
		{name: "insert ok", query: "INSERT INTO prices (symbol) VALUES ('BTC')"},
		{name: "delete ok", query: "DELETE FROM prices"},
		{name: "drop rejected", query: "DROP TABLE prices", wantErr: true},
		{name: "lowercase drop rejected", query: "drop table prices", wantErr: true},
		{name: "alter rejected", query: "ALTER TABLE prices ADD COLUMN x", wantErr: true},
		{name: "keyword inside identifier", query: "CREATE TABLE t (alternate TEXT)", wantErr: true},
		{name: "keyword inside literal", query: "SELECT 'raindrop' AS word", wantErr: true},
		{name: "mixed case", query: "sElEcT 1; DrOp TABLE x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckQuery(tt.query)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsafeQuery)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIsReadStatement(t *testing.T) {
	require.True(t, IsReadStatement("SELECT 1"))
	require.True(t, IsReadStatement("  \n\tselect * from t"))
	require.True(t, IsReadStatement("pragma table_info(t)"))
	require.True(t, IsReadStatement("SELECTED_COLUMNS"))

	require.False(t, IsReadStatement("WITH cte AS (SELECT 1) SELECT * FROM cte"))
	require.False(t, IsReadStatement("INSERT INTO t VALUES (1)"))
	require.False(t, IsReadStatement(""))
}
