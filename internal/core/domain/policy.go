package domain

// PrivilegePlan is the privilege state after each stage and the final runtime user.
type PrivilegePlan struct {
	States      []PrivilegeState
	RuntimeUser string
}

// CheckPrivileges replays the privilege transitions of every stage without executing
// anything, so policy violations abort a build before any work is done.
func CheckPrivileges(spec *ImageSpec) (PrivilegePlan, error) {
	p := NewPrivilege(spec.Identity)
	plan := PrivilegePlan{States: make([]PrivilegeState, 0, len(spec.Stages))}

	for _, st := range spec.Stages {
		for _, a := range st.Actions {
			if err := ApplyPrivilege(p, a); err != nil {
				return PrivilegePlan{}, Tag(err, "stage", st.Name)
			}
		}
		plan.States = append(plan.States, p.State())
	}

	user, err := p.RuntimeUser(spec.AllowRoot)
	if err != nil {
		return PrivilegePlan{}, err
	}
	plan.RuntimeUser = user
	return plan, nil
}

// ApplyPrivilege advances the tracker by one action, enforcing its privilege rules.
func ApplyPrivilege(p *Privilege, a Action) error {
	kind, err := a.Kind()
	if err != nil {
		return err
	}
	switch kind {
	case ActionPackages:
		return p.RequireSuperuser(kind)
	case ActionIdentity:
		if err := p.RequireSuperuser(kind); err != nil {
			return err
		}
		p.Provision()
	case ActionCopy:
		_, err = p.ResolveOwner(a.Copy.Owner)
	case ActionMkdir:
		_, err = p.ResolveOwner(a.Mkdir.Owner)
	case ActionUser:
		err = p.Drop(a.User)
	case ActionPrune, ActionManifest, ActionRun:
	}
	return err
}
