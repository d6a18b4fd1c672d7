// Package codec implements the versioned binary serialization of tables
// and row-sets used both on disk and on the wire. Every payload begins
// with a version byte; v2 is the only version this implementation emits,
// and fixes all length prefixes at 8 bytes, little-endian. v1 is kept for
// read compatibility only.
package codec

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"

	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/types"
)

// Version identifies which per-version layout to use.
type Version byte

const (
	V1 Version = 1
	V2 Version = 2
)

// cursor reads sequentially from a byte slice, advancing as it goes.
// Trailing bytes after a full decode are left in the cursor; DecodeTable,
// DecodeRowSet, and DecodeSchema check remaining() once the per-version
// decoder returns and log a warning rather than treating it as an error.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, errs.InputTooShort(c.remaining(), n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) readByte() (byte, error) {
	b, err := c.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU64() (uint64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readString() (string, error) {
	n, err := c.readU64()
	if err != nil {
		return "", err
	}
	b, err := c.readBytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errs.NotAValidString(errors.New("invalid utf-8 byte sequence"))
	}
	return string(b), nil
}

func (c *cursor) readType() (types.ColumnType, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case 1:
		return types.Int, nil
	case 2:
		return types.Decimal, nil
	case 3:
		return types.Text, nil
	case 4:
		return types.Bool, nil
	default:
		return 0, errs.NotATypeDiscriminator(b)
	}
}

func (c *cursor) readBool() (bool, error) {
	b, err := c.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errs.NotABoolean(b)
	}
}

// readValue decodes a ColumnValue whose kind is already known from schema
// context — values carry no self-tag on the wire.
func (c *cursor) readValue(kind types.ColumnType) (types.ColumnValue, error) {
	switch kind {
	case types.Int:
		v, err := c.readU64()
		if err != nil {
			return types.ColumnValue{}, err
		}
		return types.NewInt(v), nil
	case types.Decimal:
		whole, err := c.readU64()
		if err != nil {
			return types.ColumnValue{}, err
		}
		frac, err := c.readU64()
		if err != nil {
			return types.ColumnValue{}, err
		}
		return types.NewDecimal(whole, frac), nil
	case types.Text:
		s, err := c.readString()
		if err != nil {
			return types.ColumnValue{}, err
		}
		return types.NewText(s), nil
	case types.Bool:
		b, err := c.readBool()
		if err != nil {
			return types.ColumnValue{}, err
		}
		return types.NewBool(b), nil
	default:
		return types.ColumnValue{}, errs.NotATypeDiscriminator(byte(kind))
	}
}

// readRow decodes len(schemaTypes) values against schemaTypes
// positionally. The encoded count must equal len(schemaTypes).
func (c *cursor) readRow(schemaTypes []types.ColumnType) (types.Row, error) {
	n, err := c.readU64()
	if err != nil {
		return nil, err
	}
	if int(n) != len(schemaTypes) {
		return nil, errs.UnequalLengths(int(n), len(schemaTypes))
	}
	row := make(types.Row, n)
	for i := range row {
		v, err := c.readValue(schemaTypes[i])
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

func (c *cursor) readTypeVec() ([]types.ColumnType, error) {
	n, err := c.readU64()
	if err != nil {
		return nil, err
	}
	out := make([]types.ColumnType, n)
	for i := range out {
		t, err := c.readType()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (c *cursor) readStringVec() ([]string, error) {
	n, err := c.readU64()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		s, err := c.readString()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// --- encoding ---

type buffer struct {
	buf []byte
}

func (b *buffer) writeBytes(p []byte) {
	b.buf = append(b.buf, p...)
}

func (b *buffer) writeByte(v byte) {
	b.buf = append(b.buf, v)
}

func (b *buffer) writeU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.writeBytes(tmp[:])
}

func (b *buffer) writeString(s string) {
	b.writeU64(uint64(len(s)))
	b.writeBytes([]byte(s))
}

func (b *buffer) writeType(t types.ColumnType) {
	b.writeByte(byte(t))
}

func (b *buffer) writeBool(v bool) {
	if v {
		b.writeByte(1)
	} else {
		b.writeByte(0)
	}
}

// writeValue encodes a value without a self-tag; the type is implied by
// schema context, exactly as on read.
func (b *buffer) writeValue(v types.ColumnValue) {
	switch v.Kind {
	case types.Int:
		b.writeU64(v.IntVal)
	case types.Decimal:
		b.writeU64(v.Whole)
		b.writeU64(v.Frac)
	case types.Text:
		b.writeString(v.StrVal)
	case types.Bool:
		b.writeBool(v.BoolVal)
	}
}

func (b *buffer) writeRow(row types.Row) {
	b.writeU64(uint64(len(row)))
	for _, v := range row {
		b.writeValue(v)
	}
}

func (b *buffer) writeTypeVec(ts []types.ColumnType) {
	b.writeU64(uint64(len(ts)))
	for _, t := range ts {
		b.writeType(t)
	}
}

func (b *buffer) writeStringVec(strs []string) {
	b.writeU64(uint64(len(strs)))
	for _, s := range strs {
		b.writeString(s)
	}
}
