package goauthadapter

import (
	"context"

	"github.com/goliatone/go-auth"

	"github.com/goliatone/go-filteredclass/filter"
	"github.com/goliatone/go-filteredclass/resolver"
)

// ActorExtractor extracts an auth.ActorContext from context.
type ActorExtractor func(context.Context) (*auth.ActorContext, bool)

// Option customizes the actor resolver behavior.
type Option func(*ActorResolver)

// ActorResolver derives the installing actor from go-auth actor context.
type ActorResolver struct {
	extractor ActorExtractor
}

// NewActorResolver builds a resolver using go-auth's actor context extractor.
func NewActorResolver(opts ...Option) *ActorResolver {
	r := &ActorResolver{
		extractor: auth.ActorFromContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.extractor == nil {
		r.extractor = auth.ActorFromContext
	}
	return r
}

// WithActorExtractor overrides the actor context extractor.
func WithActorExtractor(extractor ActorExtractor) Option {
	return func(r *ActorResolver) {
		if r == nil {
			return
		}
		r.extractor = extractor
	}
}

// Resolve returns the actor carried by ctx, or a zero ActorRef.
func (r *ActorResolver) Resolve(ctx context.Context) filter.ActorRef {
	if r == nil || r.extractor == nil || ctx == nil {
		return filter.ActorRef{}
	}
	actor, ok := r.extractor(ctx)
	if !ok || actor == nil {
		return filter.ActorRef{}
	}
	return ActorRefFromActor(actor)
}

// Option returns a loader option that records actors through r.
func (r *ActorResolver) Option() resolver.Option {
	return resolver.WithActorResolver(r.Resolve)
}

// ActorRefFromActor builds an ActorRef from an auth.ActorContext.
func ActorRefFromActor(actor *auth.ActorContext) filter.ActorRef {
	if actor == nil {
		return filter.ActorRef{}
	}
	id := actor.ActorID
	if id == "" {
		id = actor.Subject
	}
	return filter.ActorRef{
		ID:   id,
		Type: actor.Role,
		Name: actor.Subject,
	}
}

// ActorRefFromContext extracts an ActorRef from context.
func ActorRefFromContext(ctx context.Context) (filter.ActorRef, bool) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok || actor == nil {
		return filter.ActorRef{}, false
	}
	return ActorRefFromActor(actor), true
}
