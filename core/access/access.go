// Package access holds the authorization configuration shared by the two
// enforcement points of the dashboard: the server-side request middleware and
// the section gate driving page navigation. Both consume the same immutable
// Policy so a role barred from a path can never be offered the matching
// navigation entry, and a section hidden from navigation is still rejected
// when its path is requested directly.
package access

import "strings"

// Role is one of the closed set of authorization labels assigned to a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// Section is a named navigable area of the dashboard.
type Section string

const (
	SectionDashboard  Section = "dashboard"
	SectionStudents   Section = "students"
	SectionTeachers   Section = "teachers"
	SectionCourses    Section = "courses"
	SectionGrades     Section = "grades"
	SectionAttendance Section = "attendance"
	SectionReports    Section = "reports"
	SectionNotices    Section = "notices"
	SectionContact    Section = "contact"
	SectionSettings   Section = "settings"
)

// Class is the classification of an inbound request path. Every path belongs
// to exactly one class.
type Class int

const (
	// ClassPublic paths are reachable without authentication.
	ClassPublic Class = iota
	// ClassAdminRestricted paths additionally require the admin role.
	ClassAdminRestricted
	// ClassProtected paths require authentication only.
	ClassProtected
)

func (c Class) String() string {
	switch c {
	case ClassPublic:
		return "public"
	case ClassAdminRestricted:
		return "admin-restricted"
	default:
		return "protected"
	}
}

type (
	// Policy maps each role to its ordered set of allowed sections and owns
	// the route classification lists. It is built once at startup and safe
	// for concurrent reads.
	Policy struct {
		sections       map[Role][]Section
		defaultSection Section
		classifier     Classifier
	}

	// Classifier decides the Class of a request path from two prefix lists,
	// public checked first.
	Classifier struct {
		publicPrefixes []string
		adminPrefixes  []string
	}
)

// NewPolicy builds an immutable Policy. The role→sections map is copied so
// callers cannot mutate it afterwards.
func NewPolicy(sections map[Role][]Section, defaultSection Section, classifier Classifier) *Policy {
	cp := make(map[Role][]Section, len(sections))
	for role, secs := range sections {
		cp[role] = append([]Section(nil), secs...)
	}
	return &Policy{
		sections:       cp,
		defaultSection: defaultSection,
		classifier:     classifier,
	}
}

// DefaultPolicy returns the policy shipped with the application: admins see
// every section, teachers the day-to-day subset; route lists match the
// original site map.
func DefaultPolicy() *Policy {
	return NewPolicy(
		map[Role][]Section{
			RoleAdmin: {
				SectionDashboard, SectionStudents, SectionTeachers, SectionCourses,
				SectionGrades, SectionAttendance, SectionReports, SectionNotices,
				SectionContact, SectionSettings,
			},
			RoleTeacher: {
				SectionDashboard, SectionStudents, SectionGrades, SectionAttendance,
				SectionNotices, SectionContact,
			},
		},
		SectionDashboard,
		NewClassifier(
			[]string{
				"/",
				"/login",
				"/register",
				"/reset-password",
				"/notices",
				"/api/auth/login",
				"/api/auth/register",
				"/api/auth/reset-password",
				"/api/contact",
			},
			[]string{
				"/admin/settings",
				"/api/users",
			},
		),
	)
}

// Allows reports whether role may view section. Unknown roles and unknown
// sections are denied.
func (p *Policy) Allows(role Role, section Section) bool {
	for _, s := range p.sections[role] {
		if s == section {
			return true
		}
	}
	return false
}

// Sections returns the ordered allowed sections for role. The returned slice
// is a copy.
func (p *Policy) Sections(role Role) []Section {
	return append([]Section(nil), p.sections[role]...)
}

// Resolve returns requested if role may view it, else the default section.
// Restoring navigation state from a URL parameter must go through here so a
// stale bookmark or a crafted link never lands on a disallowed section.
func (p *Policy) Resolve(role Role, requested Section) Section {
	if p.Allows(role, requested) {
		return requested
	}
	return p.defaultSection
}

func (p *Policy) DefaultSection() Section {
	return p.defaultSection
}

func (p *Policy) Classify(path string) Class {
	return p.classifier.Classify(path)
}

func NewClassifier(publicPrefixes, adminPrefixes []string) Classifier {
	return Classifier{
		publicPrefixes: append([]string(nil), publicPrefixes...),
		adminPrefixes:  append([]string(nil), adminPrefixes...),
	}
}

// Classify assigns path to exactly one Class. Public prefixes win over admin
// ones; anything else is authenticated-only.
func (c Classifier) Classify(path string) Class {
	if matchAny(path, c.publicPrefixes) {
		return ClassPublic
	}
	if matchAny(path, c.adminPrefixes) {
		return ClassAdminRestricted
	}
	return ClassProtected
}

func matchAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if matchPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// matchPrefix matches on path-segment boundaries: "/login" covers "/login"
// and "/login/confirm" but not "/loginx". The bare root entry only matches
// "/" itself, otherwise it would swallow every path.
func matchPrefix(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
