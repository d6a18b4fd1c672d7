package protocol

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/chahine-tech/reldb/internal/codec"
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/table"
)

// MessageType is the one-byte discriminator carried in the header.
type MessageType byte

const (
	Close   MessageType = 1
	Ok      MessageType = 2
	Str     MessageType = 3
	Command MessageType = 4
	Error   MessageType = 5
	RowSet  MessageType = 6
)

// Header flag bits, MSB-numbered: bit 0 is 1<<63.
const (
	flagMessageTypePresent  uint64 = 1 << 63
	flagSerializerVersionPresent uint64 = 1 << 62
)

// CommandKind discriminates the Command message body.
type CommandKind byte

const (
	Connect       CommandKind = 1
	ListDatabases CommandKind = 2
	ListTables    CommandKind = 3
)

// Command is the decoded body of a Command message.
type Command struct {
	Kind CommandKind
	Arg  string // populated for Connect only
}

// Message is a fully decoded (header, body) pair.
type Message struct {
	Type             MessageType
	SerializerVersion byte
	HasVersion       bool
	Text             string        // Str, Error
	Cmd              Command       // Command
	RowSet           table.RowSet  // RowSet
}

type writer struct {
	buf []byte
}

func (w *writer) u64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *writer) byte(v byte) {
	w.buf = append(w.buf, v)
}

func (w *writer) str(s string) {
	w.u64(uint64(len(s)))
	w.buf = append(w.buf, []byte(s)...)
}

func (w *writer) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) take(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, errs.InvalidMessage(len(r.buf))
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) byteVal() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) str() (string, error) {
	n, err := r.u64()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errs.InvalidMessage(len(r.buf))
	}
	return string(b), nil
}

// EncodeMessage serializes msg into one frame payload: header flags,
// optional message-type/version content, then the body bytes for Type.
func EncodeMessage(msg Message) []byte {
	w := &writer{}
	flags := flagMessageTypePresent
	if msg.HasVersion {
		flags |= flagSerializerVersionPresent
	}
	w.u64(flags)
	w.byte(byte(msg.Type))
	if msg.HasVersion {
		w.byte(msg.SerializerVersion)
	}

	switch msg.Type {
	case Close, Ok:
		// empty body
	case Str, Error:
		w.str(msg.Text)
	case Command:
		w.byte(byte(msg.Cmd.Kind))
		if msg.Cmd.Kind == Connect {
			w.str(msg.Cmd.Arg)
		}
	case RowSet:
		w.bytes(codec.EncodeRowSet(msg.RowSet))
	}
	return w.buf
}

// DecodeMessage parses one frame payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	r := &reader{buf: payload}
	flags, err := r.u64()
	if err != nil {
		return Message{}, err
	}
	if flags&flagMessageTypePresent == 0 {
		return Message{}, errs.InvalidHeader("message type bit not set")
	}
	typeByte, err := r.byteVal()
	if err != nil {
		return Message{}, err
	}

	msg := Message{Type: MessageType(typeByte)}
	if flags&flagSerializerVersionPresent != 0 {
		v, err := r.byteVal()
		if err != nil {
			return Message{}, err
		}
		msg.HasVersion = true
		msg.SerializerVersion = v
	}

	switch msg.Type {
	case Close, Ok:
		// empty body
	case Str, Error:
		text, err := r.str()
		if err != nil {
			return Message{}, err
		}
		msg.Text = text
	case Command:
		kindByte, err := r.byteVal()
		if err != nil {
			return Message{}, err
		}
		msg.Cmd.Kind = CommandKind(kindByte)
		if msg.Cmd.Kind == Connect {
			arg, err := r.str()
			if err != nil {
				return Message{}, err
			}
			msg.Cmd.Arg = arg
		}
	case RowSet:
		rs, err := codec.DecodeRowSet(r.buf[r.pos:])
		if err != nil {
			return Message{}, err
		}
		msg.RowSet = rs
	default:
		return Message{}, errs.InvalidMessageType(typeByte)
	}
	return msg, nil
}

// CloseMessage, OkMessage, StrMessage, ErrorMessage are small
// constructors for the common fixed-shape messages.
func CloseMessage() Message { return Message{Type: Close} }
func OkMessage() Message    { return Message{Type: Ok} }
func StrMessage(text string) Message { return Message{Type: Str, Text: text} }
func ErrorMessage(text string) Message { return Message{Type: Error, Text: text} }
func RowSetMessage(rs table.RowSet) Message { return Message{Type: RowSet, RowSet: rs} }
func CommandMessage(cmd Command) Message    { return Message{Type: Command, Cmd: cmd} }
