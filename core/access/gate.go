package access

// Gate is the navigation state machine of the dashboard shell. It is a pure
// convenience layer: it only decides what the shell renders, the middleware
// remains the security boundary.
//
// States are Unauthenticated and Authenticated(role, activeSection). All
// transitions are synchronous and never error; a disallowed navigation is
// simply rejected and the state left unchanged.
type Gate struct {
	policy *Policy

	authenticated bool
	role          Role
	active        Section
}

func NewGate(policy *Policy) *Gate {
	return &Gate{policy: policy}
}

func (g *Gate) Authenticated() bool { return g.authenticated }
func (g *Gate) Role() Role          { return g.role }

// ActiveSection returns the current section, or the default section when
// unauthenticated (the shell redirects to login in that case anyway).
func (g *Gate) ActiveSection() Section {
	if !g.authenticated {
		return g.policy.DefaultSection()
	}
	return g.active
}

// Login moves the gate to Authenticated(role, default section).
func (g *Gate) Login(role Role) {
	g.authenticated = true
	g.role = role
	g.active = g.policy.DefaultSection()
}

// Logout moves the gate back to Unauthenticated.
func (g *Gate) Logout() {
	*g = Gate{policy: g.policy}
}

// Navigate requests a section change. It reports whether the transition was
// taken; a disallowed target leaves the active section unchanged rather than
// parking the gate on an invalid section.
func (g *Gate) Navigate(target Section) bool {
	if !g.authenticated || !g.policy.Allows(g.role, target) {
		return false
	}
	g.active = target
	return true
}

// Restore validates a section restored from URL query state (deep link,
// back/forward) before honoring it, falling back to the default section.
func (g *Gate) Restore(requested Section) {
	if !g.authenticated {
		return
	}
	g.active = g.policy.Resolve(g.role, requested)
}

// SetRole applies a role change to a signed-in account. If the active section
// is no longer allowed, the gate falls back to the default section before the
// next render.
func (g *Gate) SetRole(role Role) {
	if !g.authenticated {
		return
	}
	g.role = role
	g.active = g.policy.Resolve(role, g.active)
}

// NavSections returns the navigation entries to render: exactly the allowed
// sections for the current role, nothing when unauthenticated. Disallowed
// sections are absent, not disabled.
func (g *Gate) NavSections() []Section {
	if !g.authenticated {
		return nil
	}
	return g.policy.Sections(g.role)
}
