// Package service contains the application services that orchestrate domain
// logic and persistence. Services receive their store dependencies at
// construction time; nothing in this package reaches for global state.
package service
