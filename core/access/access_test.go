package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Allows(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name    string
		role    Role
		section Section
		want    bool
	}{
		{name: "admin dashboard", role: RoleAdmin, section: SectionDashboard, want: true},
		{name: "admin settings", role: RoleAdmin, section: SectionSettings, want: true},
		{name: "admin reports", role: RoleAdmin, section: SectionReports, want: true},
		{name: "teacher dashboard", role: RoleTeacher, section: SectionDashboard, want: true},
		{name: "teacher students", role: RoleTeacher, section: SectionStudents, want: true},
		{name: "teacher grades", role: RoleTeacher, section: SectionGrades, want: true},
		{name: "teacher settings", role: RoleTeacher, section: SectionSettings, want: false},
		{name: "teacher teachers", role: RoleTeacher, section: SectionTeachers, want: false},
		{name: "teacher courses", role: RoleTeacher, section: SectionCourses, want: false},
		{name: "teacher reports", role: RoleTeacher, section: SectionReports, want: false},
		{name: "unknown section", role: RoleAdmin, section: Section("payroll"), want: false},
		{name: "empty section", role: RoleTeacher, section: Section(""), want: false},
		{name: "unknown role", role: Role("student"), section: SectionDashboard, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Allows(tt.role, tt.section); got != tt.want {
				t.Errorf("Allows(%q, %q) = %v; want %v", tt.role, tt.section, got, tt.want)
			}
		})
	}
}

func TestPolicy_Sections(t *testing.T) {
	policy := DefaultPolicy()

	// navigation must be exactly the allowed set: no extra, no missing
	for _, role := range []Role{RoleAdmin, RoleTeacher} {
		secs := policy.Sections(role)
		for _, s := range secs {
			assert.True(t, policy.Allows(role, s), "rendered section %q not allowed for %q", s, role)
		}
	}
	assert.Len(t, policy.Sections(RoleAdmin), 10)
	assert.Equal(t,
		[]Section{SectionDashboard, SectionStudents, SectionGrades, SectionAttendance, SectionNotices, SectionContact},
		policy.Sections(RoleTeacher),
	)
	assert.Empty(t, policy.Sections(Role("student")))

	// returned slice is a copy
	secs := policy.Sections(RoleTeacher)
	secs[0] = SectionSettings
	assert.Equal(t, SectionDashboard, policy.Sections(RoleTeacher)[0])
}

func TestPolicy_Resolve(t *testing.T) {
	policy := DefaultPolicy()

	if got := policy.Resolve(RoleTeacher, SectionSettings); got != SectionDashboard {
		t.Errorf("Resolve(teacher, settings) = %q; want %q", got, SectionDashboard)
	}
	if got := policy.Resolve(RoleAdmin, SectionSettings); got != SectionSettings {
		t.Errorf("Resolve(admin, settings) = %q; want %q", got, SectionSettings)
	}
	if got := policy.Resolve(RoleTeacher, Section("nope")); got != SectionDashboard {
		t.Errorf("Resolve(teacher, nope) = %q; want %q", got, SectionDashboard)
	}
}

func TestClassifier_Classify(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		path string
		want Class
	}{
		{path: "/", want: ClassPublic},
		{path: "/login", want: ClassPublic},
		{path: "/login/confirm", want: ClassPublic},
		{path: "/register", want: ClassPublic},
		{path: "/reset-password", want: ClassPublic},
		{path: "/api/auth/login", want: ClassPublic},
		{path: "/api/auth/register", want: ClassPublic},
		{path: "/api/auth/reset-password", want: ClassPublic},
		{path: "/api/contact", want: ClassPublic},

		{path: "/admin/settings", want: ClassAdminRestricted},
		{path: "/admin/settings/security", want: ClassAdminRestricted},
		{path: "/api/users", want: ClassAdminRestricted},
		{path: "/api/users/42", want: ClassAdminRestricted},

		{path: "/dashboard", want: ClassProtected},
		{path: "/api/students", want: ClassProtected},
		{path: "/api/grades", want: ClassProtected},
		{path: "/api/auth/update-password", want: ClassProtected},

		// root is exact-match only; a bare prefix test would make it swallow everything
		{path: "/anything", want: ClassProtected},
		// segment boundary: no misclassification from shared prefixes
		{path: "/loginx", want: ClassProtected},
		{path: "/api/usersx", want: ClassProtected},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := policy.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v; want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassifier_publicWinsOverAdmin(t *testing.T) {
	// ties between overlapping lists break toward public
	c := NewClassifier([]string{"/shared"}, []string{"/shared/deep"})
	if got := c.Classify("/shared/deep/path"); got != ClassPublic {
		t.Errorf("Classify() = %v; want %v", got, ClassPublic)
	}
}
