// Package backend selects and constructs the data source the services
// run against: the live REST API or the static fixture store.
package backend

import (
	"context"

	"bankdg/internal/fetch"
)

// Backend bundles every port the services need.
type Backend interface {
	fetch.AccountReader
	fetch.CardReader
	fetch.MovementLister
	fetch.TransferSender
	fetch.Authenticator
	fetch.CardSecretsReader
}

type CleanupFunc func() error

// Result carries the constructed backend and an optional cleanup hook.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

type Type string

const (
	RestBackend    Type = "rest"
	FixtureBackend Type = "fixture"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case RestBackend, FixtureBackend:
		return true
	default:
		return false
	}
}
