package rolegraph

import "time"

// Conditions restricts a permission rule to subject instances whose
// attributes match every entry exactly.
type Conditions map[string]interface{}

// Permission is an action-subject rule. A rule may be narrowed to a set
// of subject fields, conditioned on subject attributes, or inverted into
// a forbid that overrides matching allows.
type Permission struct {
	Name       string
	Action     string
	Subject    string
	Fields     []string
	Conditions Conditions
	Inverted   bool
	Reason     string
}

// Role is a named bundle of permissions assignable to users.
type Role struct {
	Name string
}

// Assignment records that a user holds a role. CreatedAt is set when the
// assignment is stored and never changes.
type Assignment struct {
	UserID    string
	RoleName  string
	CreatedAt time.Time
}
