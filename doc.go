// Package alchemy layers a service abstraction over the generic repository:
// loose input normalization (entities or maps), pagination helpers, and
// delegation to a session-bound repository for persistence.
package alchemy
