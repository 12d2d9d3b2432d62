// Package roles defines the closed role set and the pure permission
// hierarchy used for authorization decisions across the application.
//
// Roles order strictly by privilege (staff < manager < admin). A role
// satisfies a requirement when its permission level is at least the
// required level; the check is a pure total function with no side
// effects or failure modes.
//
// Role and subscription tier are independent axes. Nothing in this
// package reads or implies a subscription tier.
package roles
