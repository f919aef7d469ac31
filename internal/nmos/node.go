// Package nmos talks to the IS-05 Connection API of NMOS nodes: it
// resolves sender and receiver identities, fetches a sender's SDP
// transport file, builds staged-parameter documents and PATCHes them.
package nmos

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nmosconn/util"
)

// DefaultAPIVersion is the Connection API version used when none is set.
const DefaultAPIVersion = "v1.1"

// Role names one side of a connection.
type Role string

const (
	RoleSender   Role = "sender"
	RoleReceiver Role = "receiver"
)

// collection returns the Connection API path segment for r.
func (r Role) collection() string { return string(r) + "s" }

// ResourceID is the opaque identifier of a sender or receiver.
type ResourceID string

// IsUUID reports whether id has the UUID form IS-04 mandates.  Nodes
// that deviate are still addressed; callers only warn.
func (id ResourceID) IsUUID() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

func (id ResourceID) String() string { return string(id) }

// Node addresses the Connection API of one NMOS node.
type Node struct {
	Host       string
	Port       int
	APIVersion string
}

// BaseURL returns http://host:port/x-nmos/connection/{version}/single.
func (n Node) BaseURL() string {
	v := n.APIVersion
	if v == "" {
		v = DefaultAPIVersion
	}
	return fmt.Sprintf("http://%s/x-nmos/connection/%s/single",
		util.FormatAddr(n.Host, n.Port), strings.Trim(v, "/"))
}

// ListURL returns the resource list endpoint for role, with the
// trailing slash the Connection API expects.
func (n Node) ListURL(role Role) string {
	return n.BaseURL() + "/" + role.collection() + "/"
}

// StagedURL returns the staged-parameters endpoint of one resource.
func (n Node) StagedURL(role Role, id ResourceID) string {
	return n.BaseURL() + "/" + role.collection() + "/" + string(id) + "/staged"
}

// TransportFileURL returns the transport file endpoint of a sender.
func (n Node) TransportFileURL(id ResourceID) string {
	return n.BaseURL() + "/" + RoleSender.collection() + "/" + string(id) + "/transportfile"
}

func (n Node) String() string { return util.FormatAddr(n.Host, n.Port) }
