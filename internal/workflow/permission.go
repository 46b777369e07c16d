package workflow

import (
	"sort"

	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
)

// SubjectKind is the kind of object a permission is granted on
type SubjectKind string

const (
	SubjectTemplate   SubjectKind = "template"
	SubjectField      SubjectKind = "field"
	SubjectTransition SubjectKind = "transition"
)

// Permission is a template permission, a field permission or PermissionTransit
type Permission string

// PermissionTransit is the only permission of a transition subject
const PermissionTransit Permission = "transit"

// Template and field permissions used by the executor
const (
	PermissionCreateIssues = Permission(domain.TemplatePermissionCreateIssues)
	PermissionEditIssues   = Permission(domain.TemplatePermissionEditIssues)
	PermissionRead         = Permission(domain.FieldPermissionRead)
	PermissionWrite        = Permission(domain.FieldPermissionWrite)
)

// Subject identifies what a grant applies to. To is set only for transitions,
// where ID is the source state.
type Subject struct {
	Kind SubjectKind
	ID   uuid.UUID
	To   uuid.UUID
}

// TemplateSubject returns the subject for a template
func TemplateSubject(id uuid.UUID) Subject {
	return Subject{Kind: SubjectTemplate, ID: id}
}

// FieldSubject returns the subject for a field
func FieldSubject(id uuid.UUID) Subject {
	return Subject{Kind: SubjectField, ID: id}
}

// TransitionSubject returns the subject for the edge from -> to
func TransitionSubject(from, to uuid.UUID) Subject {
	return Subject{Kind: SubjectTransition, ID: from, To: to}
}

type grantKey struct {
	subject    Subject
	permission Permission
}

type grantSet struct {
	roles  map[domain.Role]struct{}
	groups map[uuid.UUID]struct{}
}

func (g *grantSet) empty() bool {
	return g == nil || (len(g.roles) == 0 && len(g.groups) == 0)
}

// Matrix holds the role and group grants of one template
type Matrix struct {
	grants map[grantKey]*grantSet
}

// NewMatrix returns an empty matrix
func NewMatrix() *Matrix {
	return &Matrix{grants: make(map[grantKey]*grantSet)}
}

func (m *Matrix) set(subject Subject, perm Permission) *grantSet {
	key := grantKey{subject, perm}
	gs, ok := m.grants[key]
	if !ok {
		gs = &grantSet{roles: map[domain.Role]struct{}{}, groups: map[uuid.UUID]struct{}{}}
		m.grants[key] = gs
	}
	return gs
}

// GrantRoles replaces the roles granted perm on subject
func (m *Matrix) GrantRoles(subject Subject, perm Permission, roles []domain.Role) {
	gs := m.set(subject, perm)
	gs.roles = make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		gs.roles[r] = struct{}{}
	}
}

// GrantGroups replaces the groups granted perm on subject
func (m *Matrix) GrantGroups(subject Subject, perm Permission, groups []uuid.UUID) {
	gs := m.set(subject, perm)
	gs.groups = make(map[uuid.UUID]struct{}, len(groups))
	for _, g := range groups {
		gs.groups[g] = struct{}{}
	}
}

func (m *Matrix) addRole(subject Subject, perm Permission, role domain.Role) {
	m.set(subject, perm).roles[role] = struct{}{}
}

func (m *Matrix) addGroup(subject Subject, perm Permission, group uuid.UUID) {
	m.set(subject, perm).groups[group] = struct{}{}
}

// Roles returns the roles granted perm on subject, sorted
func (m *Matrix) Roles(subject Subject, perm Permission) []domain.Role {
	gs := m.grants[grantKey{subject, perm}]
	if gs == nil {
		return nil
	}
	roles := make([]domain.Role, 0, len(gs.roles))
	for r := range gs.roles {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Groups returns the groups granted perm on subject, sorted
func (m *Matrix) Groups(subject Subject, perm Permission) []uuid.UUID {
	gs := m.grants[grantKey{subject, perm}]
	if gs == nil {
		return nil
	}
	groups := make([]uuid.UUID, 0, len(gs.groups))
	for g := range gs.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].String() < groups[j].String() })
	return groups
}

// Declared reports whether any role or group holds perm on subject
func (m *Matrix) Declared(subject Subject, perm Permission) bool {
	return !m.grants[grantKey{subject, perm}].empty()
}

// IsGranted reports whether p holds perm on subject through one of its roles
// or groups. Write on a field implies read.
func (m *Matrix) IsGranted(p Principal, perm Permission, subject Subject) bool {
	if m.granted(p, perm, subject) {
		return true
	}
	if subject.Kind == SubjectField && perm == PermissionRead {
		return m.granted(p, PermissionWrite, subject)
	}
	return false
}

func (m *Matrix) granted(p Principal, perm Permission, subject Subject) bool {
	gs := m.grants[grantKey{subject, perm}]
	if gs.empty() {
		return false
	}
	for r := range gs.roles {
		if p.hasRole(r) {
			return true
		}
	}
	for g := range gs.groups {
		if p.inGroup(g) {
			return true
		}
	}
	return false
}
