package nmos

import "fmt"

// ConnectionDetails holds the transport parameters requested for one
// connection.  A nil field was not supplied by the operator.
type ConnectionDetails struct {
	SenderSourceIP        *string
	SenderSourcePort      *int
	SenderDestinationIP   *string
	SenderDestinationPort *int
	ReceiverInterfaceIP   *string
}

// String returns a pointer to s, for building ConnectionDetails.
func String(s string) *string { return &s }

// Int returns a pointer to i, for building ConnectionDetails.
func Int(i int) *int { return &i }

// OverwritePolicy decides what happens to a transport parameter the
// operator did not supply.
type OverwritePolicy string

const (
	// OverwriteAlways writes JSON null for every unsupplied field.
	OverwriteAlways OverwritePolicy = "always"
	// OverwriteIfSet keeps the template's value for unsupplied fields.
	// A field missing from the template is still written as null.
	OverwriteIfSet OverwritePolicy = "if-set"
)

// ParseOverwritePolicy accepts "always" or "if-set"; empty means always.
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	switch OverwritePolicy(s) {
	case "", OverwriteAlways:
		return OverwriteAlways, nil
	case OverwriteIfSet:
		return OverwriteIfSet, nil
	}
	return "", fmt.Errorf("unknown overwrite policy %q (want always or if-set)", s)
}
