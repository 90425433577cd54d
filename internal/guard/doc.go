// Package guard produces routing decisions from session state.
//
// Guards are pure functions: given a session (and for role-gated routes a
// required role) they return an allow/redirect Decision and nothing else. A
// denial is a deterministic redirect, never an error. Chain composes the two
// guards in their fixed order, short-circuiting on the first denial.
package guard
