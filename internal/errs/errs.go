// Package errs defines the typed error families used across the database
// server: shape, naming, typing, codec, protocol, I/O and SQL errors.
// Callers compare against these with errors.As instead of matching strings.
package errs

import "fmt"

// Kind distinguishes the seven error families from section 7 of the spec.
type Kind int

const (
	KindShape Kind = iota
	KindNaming
	KindTyping
	KindCodec
	KindProtocol
	KindIO
	KindSQL
)

// Error is the single error type returned by every package in this module.
// Code names the specific condition (e.g. "TableDoesNotExist") so that
// logs and client-facing text stay stable even as the message wording
// changes.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Shape family.

func UnequalLengths(got, want int) *Error {
	return newErr(KindShape, "UnequalLengths", "got %d values, want %d", got, want)
}

func IndexOutOfBounds(i, length int) *Error {
	return newErr(KindShape, "IndexOutOfBounds", "index %d out of bounds for length %d", i, length)
}

func InputTooShort(have, need int) *Error {
	return newErr(KindShape, "InputTooShort", "have %d bytes, need %d", have, need)
}

func SliceConversionError() *Error {
	return newErr(KindShape, "SliceConversionError", "could not convert slice")
}

// Naming family.

func NameDoesNotExist(name string, candidates []string) *Error {
	return newErr(KindNaming, "NameDoesNotExist", "%q does not exist (have: %v)", name, candidates)
}

func ColumnNameNotUnique(name string) *Error {
	return newErr(KindNaming, "ColumnNameNotUnique", "column name %q is not unique", name)
}

func DuplicateTable(name string) *Error {
	return newErr(KindNaming, "DuplicateTable", "table %q already exists", name)
}

func TableDoesNotExist(name string) *Error {
	return newErr(KindNaming, "TableDoesNotExist", "table %q does not exist", name)
}

func DatabaseDoesNotExist(name string) *Error {
	return newErr(KindNaming, "DatabaseDoesNotExist", "database %q does not exist", name)
}

func NoDatabaseSelected() *Error {
	return newErr(KindNaming, "NoDatabaseSelected", "no database selected")
}

// Typing family.

func IncompatibleTypes(got, want any) *Error {
	return newErr(KindTyping, "IncompatibleTypes", "got %v, want %v", got, want)
}

func ImpossibleComparison(l, r any) *Error {
	return newErr(KindTyping, "ImpossibleComparison", "cannot compare %v with %v", l, r)
}

func ImpossibleConversion(expr any, target string) *Error {
	return newErr(KindTyping, "ImpossibleConversion", "cannot convert %v into %s", expr, target)
}

func InvalidParameter() *Error {
	return newErr(KindTyping, "InvalidParameter", "invalid parameter")
}

// Codec family.

func NotATypeDiscriminator(b byte) *Error {
	return newErr(KindCodec, "NotATypeDiscriminator", "byte %d is not a valid type discriminator", b)
}

func NotABoolean(b byte) *Error {
	return newErr(KindCodec, "NotABoolean", "byte %d is not a valid boolean", b)
}

func NotAValidString(cause error) *Error {
	return &Error{Kind: KindCodec, Code: "NotAValidString", Message: "invalid utf-8 string", Cause: cause}
}

func IncompatibleVersion(v byte) *Error {
	return newErr(KindCodec, "IncompatibleVersion", "unsupported serializer version %d", v)
}

// Protocol family.

func InvalidHeader(reason string) *Error {
	return newErr(KindProtocol, "InvalidHeader", "invalid header: %s", reason)
}

func InvalidMessageType(v byte) *Error {
	return newErr(KindProtocol, "InvalidMessageType", "invalid message type %d", v)
}

func InvalidMessage(n int) *Error {
	return newErr(KindProtocol, "InvalidMessage", "invalid message (%d bytes)", n)
}

func InvalidCommand(text string) *Error {
	return newErr(KindProtocol, "InvalidCommand", "invalid command %q", text)
}

// IO family.

func FSError(cause error) *Error {
	return &Error{Kind: KindIO, Code: "FSError", Message: "filesystem error", Cause: cause}
}

func CouldNotReadFromConnection(cause error) *Error {
	return &Error{Kind: KindIO, Code: "CouldNotReadFromConnection", Message: "could not read from connection", Cause: cause}
}

func CouldNotWriteToConnection(cause error) *Error {
	return &Error{Kind: KindIO, Code: "CouldNotWriteToConnection", Message: "could not write to connection", Cause: cause}
}

func CouldNotStoreDatabase(name string, cause error) *Error {
	return &Error{Kind: KindIO, Code: "CouldNotStoreDatabase", Message: fmt.Sprintf("could not store database %q", name), Cause: cause}
}

func CouldNotStoreTable(name string, cause error) *Error {
	return &Error{Kind: KindIO, Code: "CouldNotStoreTable", Message: fmt.Sprintf("could not store table %q", name), Cause: cause}
}

func CouldNotRemoveDatabase(name string, cause error) *Error {
	return &Error{Kind: KindIO, Code: "CouldNotRemoveDatabase", Message: fmt.Sprintf("could not remove database %q", name), Cause: cause}
}

func CouldNotRemoveTable(name string, cause error) *Error {
	return &Error{Kind: KindIO, Code: "CouldNotRemoveTable", Message: fmt.Sprintf("could not remove table %q", name), Cause: cause}
}

// SQL family.

func ParseError(reason string) *Error {
	return newErr(KindSQL, "ParseError", "%s", reason)
}
