// Package authz holds the board role rules. Every resource resolves to a
// board, and access is decided by the caller's role on that board.
package authz

import "github.com/arnold/goalboards-api/internal/models"

type Resource string

const (
	Board    Resource = "board"
	Category Resource = "category"
	Goal     Resource = "goal"
	Comment  Resource = "comment"
)

type Action string

const (
	Read   Action = "read"
	Update Action = "update"
	Delete Action = "delete"
	// CreateChild creates a resource under the given one: a category on a
	// board, a goal in a category, a comment on a goal.
	CreateChild Action = "create_child"
	// ManageParticipants replaces the board's participant list.
	ManageParticipants Action = "manage_participants"
)

// Rule is the set of roles allowed to perform one action.
type Rule struct {
	Roles   []models.Role
	Subject string
}

func (r Rule) Permits(role models.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var (
	anyMember = Rule{
		Roles:   []models.Role{models.RoleOwner, models.RoleEditor, models.RoleViewer},
		Subject: "must be a board participant",
	}
	writers = Rule{
		Roles:   []models.Role{models.RoleOwner, models.RoleEditor},
		Subject: "must be owner or editor",
	}
	ownerOnly = Rule{
		Roles:   []models.Role{models.RoleOwner},
		Subject: "must be owner",
	}
)

type key struct {
	resource Resource
	action   Action
}

var rules = map[key]Rule{
	{Board, Read}:               anyMember,
	{Board, Update}:             writers,
	{Board, Delete}:             writers,
	{Board, CreateChild}:        writers,
	{Board, ManageParticipants}: ownerOnly,

	{Category, Read}:        anyMember,
	{Category, Update}:      writers,
	{Category, Delete}:      writers,
	{Category, CreateChild}: writers,

	{Goal, Read}:        anyMember,
	{Goal, Update}:      writers,
	{Goal, Delete}:      writers,
	{Goal, CreateChild}: writers,

	{Comment, Read}:   anyMember,
	{Comment, Update}: writers,
	{Comment, Delete}: writers,
}

// RuleFor returns the rule for an action on a resource. ok is false for
// combinations nobody may perform.
func RuleFor(resource Resource, action Action) (Rule, bool) {
	r, ok := rules[key{resource, action}]
	return r, ok
}

// Can reports whether a participant holding role may perform action on
// resource. A nil role means the caller is not a participant.
func Can(role *models.Role, action Action, resource Resource) bool {
	if role == nil || !role.Valid() {
		return false
	}
	r, ok := RuleFor(resource, action)
	if !ok {
		return false
	}
	return r.Permits(*role)
}
