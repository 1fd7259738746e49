package handler

import (
	"context"
	"strconv"
	"strings"

	"airport-query-engine/internal/knowledge"
)

// Match strategies reported by LookupIdentifier.
const (
	MatchCode = "code"
	MatchID   = "id"
	MatchName = "name"
)

// Lookup describes how to resolve an identifier of ambiguous class. Any of the
// functions may be nil, which skips that strategy.
type Lookup[T any] struct {
	// CodeLengths lists the lengths at which an identifier is tried as a code.
	CodeLengths []int
	ByCode      func(ctx context.Context, code string) (*T, error)
	ByID        func(ctx context.Context, id int64) (*T, error)
	ByName      func(ctx context.Context, name string) ([]T, error)
}

// LookupIdentifier tries code, then numeric id, then fuzzy name, in that fixed
// order, and returns the first hit together with the strategy that found it.
// Any identifier of a code length is tried as a code first, digits included
// ("388" is an IATA aircraft code). A numeric identifier that misses as a code
// resolves by id before any name search.
// knowledge.ErrNotFound is returned when every strategy misses; any other
// error stops the search.
func LookupIdentifier[T any](ctx context.Context, ident string, l Lookup[T]) (*T, string, error) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return nil, "", knowledge.ErrNotFound
	}

	if l.ByCode != nil && lengthIn(len(ident), l.CodeLengths) {
		v, err := l.ByCode(ctx, strings.ToUpper(ident))
		if stop, err := settle(v, err); stop {
			return v, MatchCode, err
		}
	}

	if l.ByID != nil {
		if id, err := strconv.ParseInt(ident, 10, 64); err == nil {
			v, err := l.ByID(ctx, id)
			if stop, err := settle(v, err); stop {
				return v, MatchID, err
			}
		}
	}

	if l.ByName != nil {
		list, err := l.ByName(ctx, ident)
		if err != nil && !knowledge.IsNotFound(err) {
			return nil, "", err
		}
		if len(list) > 0 {
			v := list[0]
			return &v, MatchName, nil
		}
	}

	return nil, "", knowledge.ErrNotFound
}

// settle reports whether a strategy result ends the search.
func settle[T any](v *T, err error) (bool, error) {
	if err != nil {
		if knowledge.IsNotFound(err) {
			return false, nil
		}
		return true, err
	}
	return v != nil, nil
}

func lengthIn(n int, lengths []int) bool {
	for _, l := range lengths {
		if l == n {
			return true
		}
	}
	return false
}
