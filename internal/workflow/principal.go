package workflow

import (
	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
)

// Principal is an authenticated user with the roles and group memberships
// resolved for the current request
type Principal struct {
	UserID uuid.UUID
	Roles  []domain.Role
	Groups []uuid.UUID
}

// ForIssue returns the principal with the system roles it holds on issue.
// Everybody is "anyone"; the author and the responsible person get their
// roles too. A nil issue means the principal is about to create one and
// so acts as its author.
func (p Principal) ForIssue(issue *domain.Issue) Principal {
	roles := make([]domain.Role, 0, len(p.Roles)+3)
	roles = append(roles, p.Roles...)
	roles = append(roles, domain.RoleAnyone)

	if issue == nil {
		roles = append(roles, domain.RoleAuthor)
	} else {
		if issue.AuthorID == p.UserID {
			roles = append(roles, domain.RoleAuthor)
		}
		if issue.ResponsibleID != nil && *issue.ResponsibleID == p.UserID {
			roles = append(roles, domain.RoleResponsible)
		}
	}

	return Principal{UserID: p.UserID, Roles: roles, Groups: p.Groups}
}

func (p Principal) hasRole(role domain.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) inGroup(group uuid.UUID) bool {
	for _, g := range p.Groups {
		if g == group {
			return true
		}
	}
	return false
}
