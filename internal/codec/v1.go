package codec

import (
	"github.com/chahine-tech/reldb/internal/table"
	"github.com/chahine-tech/reldb/internal/types"
)

// v1 is the legacy layout: read-only, kept for compatibility with files
// and peers that still speak it. It shares v2's physical encoding (8-byte
// little-endian lengths throughout) since there is no portable way to
// recover whatever host word width the original writer used; the only
// thing that distinguishes v1 from v2 on this wire is the leading
// version byte. New data is always written as v2 (see codec.go).
func decodeSchemaV1(c *cursor) (types.TableSchema, error) {
	return decodeSchemaV2(c)
}

func decodeTableV1(c *cursor) (*table.Table, error) {
	return decodeTableV2(c)
}

func decodeRowSetV1(c *cursor) (table.RowSet, error) {
	return decodeRowSetV2(c)
}
