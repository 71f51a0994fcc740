// Package database provides engine construction and disposal, unit-of-work
// sessions and session factories, configuration types, store-error
// classification, logging, and health checks built on top of Bun.
package database
