package player

import (
	"errors"
	"fmt"
	"strconv"
)

// Role identifies a node in the installation. The LONG player is the
// leader: it owns the daily schedule and fans out commands to the two
// followers. Roles are fixed at boot and never change at runtime.
type Role int

const (
	RoleLong     Role = Role(iota) // leader
	RoleSmall    Role = Role(iota)
	RoleSeashell Role = Role(iota)
)

var roleNames = map[Role]string{
	RoleLong:     "long",
	RoleSmall:    "small",
	RoleSeashell: "seashell",
}

var roleFiles = map[Role]string{
	RoleLong:     "LONG.WAV",
	RoleSmall:    "SMALL.WAV",
	RoleSeashell: "SEASHELL.WAV",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// FileName returns the audio file assigned to this role.
func (r Role) FileName() string {
	return roleFiles[r]
}

// Leader reports whether this role drives the schedule and relays
// commands to the other nodes.
func (r Role) Leader() bool {
	return r == RoleLong
}

func (r Role) valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ---- marshallers, so Role reads as a name in config & json payloads

func (r Role) MarshalJSON() ([]byte, error) {
	b, err := r.MarshalText()
	if err == nil {
		b = []byte(fmt.Sprintf("\"%s\"", string(b)))
	}
	return b, err
}

func (r *Role) UnmarshalJSON(data []byte) error {
	dataLength := len(data)
	if dataLength < 2 || data[0] != '"' || data[dataLength-1] != '"' {
		return errors.New("Role.UnmarshalJSON: Invalid JSON provided")
	}
	return r.UnmarshalText(data[1 : dataLength-1])
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	str := string(b)
	for v, name := range roleNames {
		if name == str {
			*r = v
			return nil
		}
	}
	i, err := strconv.Atoi(str)
	if err == nil && Role(i).valid() {
		*r = Role(i)
		return nil
	}
	return fmt.Errorf("Cannot unmarshall \"%s\" to Role. Is it mispelled?", str)
}
