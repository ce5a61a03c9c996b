package index

import (
	"context"

	"git.home.luguber.info/inful/javadocref/internal/foundation/errors"
	"git.home.luguber.info/inful/javadocref/internal/source"
)

// ErrUnavailable reports that a source's index could not be obtained.
var ErrUnavailable = errors.NetworkError("documentation index unavailable").Build()

// Provider obtains the index of one source. Implementations own timeouts and
// cancellation for whatever I/O they do.
type Provider interface {
	Load(ctx context.Context, src source.Source) (*Index, error)
}

// MemberProvider is implemented by providers that can fill in members for a
// single class when the index was built without them.
type MemberProvider interface {
	LoadMembers(ctx context.Context, src source.Source, c Class) ([]Member, error)
}

// Static serves prebuilt indexes, keyed by source location or alias.
type Static map[string]*Index

// Load implements Provider.
func (s Static) Load(_ context.Context, src source.Source) (*Index, error) {
	if ix, ok := s[src.Location]; ok && ix != nil {
		return ix, nil
	}
	if ix, ok := s[src.Alias]; ok && ix != nil {
		return ix, nil
	}
	return nil, ErrUnavailable.WithContext("source", src.Alias)
}
