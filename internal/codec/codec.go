package codec

import (
	"github.com/sirupsen/logrus"

	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/table"
	"github.com/chahine-tech/reldb/internal/types"
)

// log is package-level so decode paths can warn about trailing bytes
// without threading a logger through every Decode* signature. Defaults
// to logrus's standard logger; SetLogger lets the composition root wire
// in the server's configured logger instead.
var log = logrus.StandardLogger()

// SetLogger replaces the logger used to warn about trailing bytes after
// a full decode.
func SetLogger(l *logrus.Logger) {
	log = l
}

func warnIfTrailingBytes(c *cursor, what string) {
	if n := c.remaining(); n > 0 {
		log.WithField("trailing_bytes", n).Warnf("%s: ignoring trailing bytes after full decode", what)
	}
}

// EncodeTable serializes t under the canonical v2 layout, prefixed with
// the version byte.
func EncodeTable(t *table.Table) []byte {
	b := &buffer{}
	b.writeByte(byte(V2))
	encodeTableV2(b, t)
	return b.buf
}

// DecodeTable reads the version byte and dispatches to the matching
// per-version decoder. Unknown versions are rejected outright.
func DecodeTable(data []byte) (*table.Table, error) {
	c := newCursor(data)
	v, err := c.readByte()
	if err != nil {
		return nil, err
	}
	switch Version(v) {
	case V1:
		t, err := decodeTableV1(c)
		if err == nil {
			warnIfTrailingBytes(c, "DecodeTable")
		}
		return t, err
	case V2:
		t, err := decodeTableV2(c)
		if err == nil {
			warnIfTrailingBytes(c, "DecodeTable")
		}
		return t, err
	default:
		return nil, errs.IncompatibleVersion(v)
	}
}

// EncodeRowSet serializes rs under the canonical v2 layout, prefixed
// with the version byte.
func EncodeRowSet(rs table.RowSet) []byte {
	b := &buffer{}
	b.writeByte(byte(V2))
	encodeRowSetV2(b, rs)
	return b.buf
}

// DecodeRowSet reads the version byte and dispatches accordingly.
func DecodeRowSet(data []byte) (table.RowSet, error) {
	c := newCursor(data)
	v, err := c.readByte()
	if err != nil {
		return table.RowSet{}, err
	}
	switch Version(v) {
	case V1:
		rs, err := decodeRowSetV1(c)
		if err == nil {
			warnIfTrailingBytes(c, "DecodeRowSet")
		}
		return rs, err
	case V2:
		rs, err := decodeRowSetV2(c)
		if err == nil {
			warnIfTrailingBytes(c, "DecodeRowSet")
		}
		return rs, err
	default:
		return table.RowSet{}, errs.IncompatibleVersion(v)
	}
}

// EncodeSchema serializes a bare TableSchema under v2, version-prefixed.
// The persistence backends do not call it: they store schema and rows
// together through EncodeTable.
func EncodeSchema(s types.TableSchema) []byte {
	b := &buffer{}
	b.writeByte(byte(V2))
	encodeSchemaV2(b, s)
	return b.buf
}

// DecodeSchema reads the version byte and dispatches accordingly.
func DecodeSchema(data []byte) (types.TableSchema, error) {
	c := newCursor(data)
	v, err := c.readByte()
	if err != nil {
		return types.TableSchema{}, err
	}
	switch Version(v) {
	case V1:
		s, err := decodeSchemaV1(c)
		if err == nil {
			warnIfTrailingBytes(c, "DecodeSchema")
		}
		return s, err
	case V2:
		s, err := decodeSchemaV2(c)
		if err == nil {
			warnIfTrailingBytes(c, "DecodeSchema")
		}
		return s, err
	default:
		return types.TableSchema{}, errs.IncompatibleVersion(v)
	}
}
