package protocol

import (
	"io"

	"github.com/chahine-tech/reldb/internal/errs"
)

// NegotiateServer advertises supported (ascending) and reads back the
// client's chosen version. It closes the session with
// IncompatibleVersion if the client picks a value the server didn't
// advertise.
func NegotiateServer(rw io.ReadWriter, supported []byte) (byte, error) {
	if _, err := rw.Write([]byte{byte(len(supported))}); err != nil {
		return 0, errs.CouldNotWriteToConnection(err)
	}
	if _, err := rw.Write(supported); err != nil {
		return 0, errs.CouldNotWriteToConnection(err)
	}

	var chosenBuf [1]byte
	if _, err := io.ReadFull(rw, chosenBuf[:]); err != nil {
		return 0, errs.CouldNotReadFromConnection(err)
	}
	chosen := chosenBuf[0]
	for _, v := range supported {
		if v == chosen {
			return chosen, nil
		}
	}
	return 0, errs.IncompatibleVersion(chosen)
}

// NegotiateClient reads the server's advertised versions and writes back
// the highest one the client also supports.
func NegotiateClient(rw io.ReadWriter, clientSupported []byte) (byte, error) {
	var countBuf [1]byte
	if _, err := io.ReadFull(rw, countBuf[:]); err != nil {
		return 0, errs.CouldNotReadFromConnection(err)
	}
	advertised := make([]byte, countBuf[0])
	if _, err := io.ReadFull(rw, advertised); err != nil {
		return 0, errs.CouldNotReadFromConnection(err)
	}

	supported := make(map[byte]bool, len(clientSupported))
	for _, v := range clientSupported {
		supported[v] = true
	}

	var best byte
	found := false
	for _, v := range advertised {
		if supported[v] && (!found || v > best) {
			best = v
			found = true
		}
	}
	if !found {
		return 0, errs.IncompatibleVersion(0)
	}
	if _, err := rw.Write([]byte{best}); err != nil {
		return 0, errs.CouldNotWriteToConnection(err)
	}
	return best, nil
}
