package image

import "fmt"

// AddressError reports an access outside a section's address range or an
// insert that would overlap an existing section. Accesses never truncate
// or wrap silently.
type AddressError struct {
	Op      string // operation that failed, e.g. "read", "insert"
	Address uint32 // requested address
	Reason  string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s 0x%08X: %s", e.Op, e.Address, e.Reason)
}

func errOutOfBounds(op string, addr uint32) *AddressError {
	return &AddressError{Op: op, Address: addr, Reason: "access out of bounds"}
}
