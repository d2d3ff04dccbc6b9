// Package rbac implements the access guard placed in front of role-gated
// endpoints.
package rbac
