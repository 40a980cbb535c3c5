// Package chat implements one two-party chat session over a framed
// connection, plus the operator send loop that feeds it.
package chat

// Role is the part an endpoint plays on the connection.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

// String returns the string representation of Role
func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// PeerLabel is the name shown in front of messages from the other side.
func (r Role) PeerLabel() string {
	if r == RoleServer {
		return "Client"
	}
	return "Server"
}

// ClosureNotice is printed once a session has been torn down.
func (r Role) ClosureNotice() string {
	if r == RoleServer {
		return "Connection closed"
	}
	return "Connection terminated"
}
