package domain

import (
	"strconv"

	"go.trai.ch/zerr"
)

// SuperuserName is the name of the superuser identity.
const SuperuserName = "root"

// Identity is the non-privileged account the runtime process executes as.
type Identity struct {
	Name string
	UID  int
	GID  int
	// Home is the working directory owned by the identity.
	Home string
}

// Validate rejects identities without a name or with the superuser ids.
func (id Identity) Validate() error {
	if id.Name == "" || id.Name == SuperuserName {
		return Tag(ErrInvalidIdentity, "name", id.Name)
	}
	if id.UID <= 0 || id.GID <= 0 {
		return zerr.With(Tag(ErrInvalidIdentity, "uid", id.UID), "gid", id.GID)
	}
	if id.Home == "" {
		return Tag(ErrInvalidIdentity, "home", id.Home)
	}
	return nil
}

// Owner returns the ownership tuple of the identity.
func (id Identity) Owner() Owner {
	return Owner{UID: id.UID, GID: id.GID}
}

// UserSpec renders the identity as "uid:gid".
func (id Identity) UserSpec() string {
	return strconv.Itoa(id.UID) + ":" + strconv.Itoa(id.GID)
}

// Owner is a numeric (uid, gid) pair.
type Owner struct {
	UID int `json:"uid"`
	GID int `json:"gid"`
}

// IsSuperuser reports whether the owner is the superuser.
func (o Owner) IsSuperuser() bool {
	return o.UID == 0
}

// PrivilegeState is the privilege the build is executing under.
type PrivilegeState int

const (
	// PrivilegeSuperuser is the initial state: no identity exists yet.
	PrivilegeSuperuser PrivilegeState = iota
	// PrivilegeProvisioned means the identity exists but commands still run as superuser.
	PrivilegeProvisioned
	// PrivilegeScoped means privileges were dropped to the identity.
	PrivilegeScoped
)

func (s PrivilegeState) String() string {
	switch s {
	case PrivilegeSuperuser:
		return "superuser"
	case PrivilegeProvisioned:
		return "provisioned"
	case PrivilegeScoped:
		return "scoped"
	default:
		return "unknown"
	}
}

// Privilege tracks the transitions between the superuser and the scoped identity.
// Transitions only move forward.
type Privilege struct {
	identity Identity
	state    PrivilegeState
}

// NewPrivilege starts in the superuser state for the given identity.
func NewPrivilege(id Identity) *Privilege {
	return &Privilege{identity: id}
}

// RestorePrivilege recreates a tracker at a recorded state, used when replaying cached stages.
func RestorePrivilege(id Identity, state PrivilegeState) *Privilege {
	return &Privilege{identity: id, state: state}
}

// State returns the current state.
func (p *Privilege) State() PrivilegeState {
	return p.state
}

// Identity returns the tracked identity.
func (p *Privilege) Identity() Identity {
	return p.identity
}

// Provision records that the identity now exists.
func (p *Privilege) Provision() {
	if p.state < PrivilegeProvisioned {
		p.state = PrivilegeProvisioned
	}
}

// Drop switches execution to the identity. The name must match the identity.
func (p *Privilege) Drop(name string) error {
	if p.state < PrivilegeProvisioned {
		return Tag(ErrIdentityNotProvisioned, "user", name)
	}
	if name != p.identity.Name && name != strconv.Itoa(p.identity.UID) {
		return zerr.With(Tag(ErrPrivilegeViolation, "user", name), "identity", p.identity.Name)
	}
	p.state = PrivilegeScoped
	return nil
}

// RequireSuperuser asserts that the current state still executes as superuser.
func (p *Privilege) RequireSuperuser(action ActionKind) error {
	if p.state == PrivilegeScoped {
		return zerr.With(Tag(ErrRequiresSuperuser, "action", string(action)), "state", p.state.String())
	}
	return nil
}

// ResolveOwner maps a declared owner to a numeric owner.
//
// Before the identity is provisioned any declared owner other than root is an error.
// Afterwards an empty owner defaults to the identity and root is rejected, so no
// runtime-facing path ends up owned by the superuser.
func (p *Privilege) ResolveOwner(declared string) (Owner, error) {
	if p.state == PrivilegeSuperuser {
		switch declared {
		case "", SuperuserName, "0":
			return Owner{}, nil
		default:
			return Owner{}, Tag(ErrIdentityNotProvisioned, "owner", declared)
		}
	}

	switch declared {
	case "", p.identity.Name, strconv.Itoa(p.identity.UID), p.identity.UserSpec():
		return p.identity.Owner(), nil
	case SuperuserName, "0", "0:0":
		return Owner{}, Tag(ErrSuperuserOwnership, "owner", declared)
	default:
		return Owner{}, zerr.With(Tag(ErrPrivilegeViolation, "owner", declared), "identity", p.identity.Name)
	}
}

// RuntimeUser returns the user the final process runs as.
// Unless allowRoot is set the build must have dropped privileges to the identity.
func (p *Privilege) RuntimeUser(allowRoot bool) (string, error) {
	if p.state == PrivilegeScoped {
		return p.identity.UserSpec(), nil
	}
	if allowRoot {
		return SuperuserName, nil
	}
	return "", Tag(ErrRunsAsSuperuser, "state", p.state.String())
}
