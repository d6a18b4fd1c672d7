// Package protocol implements the length-framed wire format connecting
// clients and sessions: frame read/write, the header flag word, the
// message taxonomy, and serializer-version negotiation.
package protocol

import (
	"encoding/binary"
	"io"

	"github.com/chahine-tech/reldb/internal/errs"
)

// ReadFrame reads one length-prefixed frame: an 8-byte little-endian
// byte count followed by that many bytes.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, errs.CouldNotReadFromConnection(err)
	}
	n := binary.LittleEndian.Uint64(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errs.CouldNotReadFromConnection(err)
	}
	return buf, nil
}

// WriteFrame writes payload prefixed with its 8-byte little-endian
// length.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return errs.CouldNotWriteToConnection(err)
	}
	if _, err := w.Write(payload); err != nil {
		return errs.CouldNotWriteToConnection(err)
	}
	return nil
}
