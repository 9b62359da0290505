package goauthadapter

import (
	"context"
	"testing"

	"github.com/goliatone/go-auth"

	"github.com/goliatone/go-filteredclass/filter"
	"github.com/goliatone/go-filteredclass/hooks"
	"github.com/goliatone/go-filteredclass/resolver"
	"github.com/goliatone/go-filteredclass/typemap"
)

func TestActorRefFromActorFallsBackToSubject(t *testing.T) {
	ref := ActorRefFromActor(&auth.ActorContext{Subject: "alice", Role: "admin"})
	if ref.ID != "alice" || ref.Type != "admin" || ref.Name != "alice" {
		t.Fatalf("unexpected actor ref: %+v", ref)
	}
	if !ActorRefFromActor(nil).IsZero() {
		t.Fatalf("nil actor must map to zero ref")
	}
}

func TestActorResolverFeedsInstallTrace(t *testing.T) {
	actors := NewActorResolver(WithActorExtractor(func(context.Context) (*auth.ActorContext, bool) {
		return &auth.ActorContext{ActorID: "user-1", Subject: "alice", Role: "admin"}, true
	}))

	types := typemap.New()
	if err := types.Define("ArrayStore", func() any { return struct{}{} }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loader := resolver.New(resolver.WithHooks(hooks.New()), resolver.WithTypes(types), actors.Option())

	ok, trace, err := loader.InstallWithTrace(context.Background(), "pick_store", "ArrayStore", "MyStore", "BaseStore")
	if err != nil || !ok {
		t.Fatalf("expected install to succeed, got %v (%v)", ok, err)
	}
	want := filter.ActorRef{ID: "user-1", Type: "admin", Name: "alice"}
	if trace.Actor != want {
		t.Fatalf("Actor = %+v, want %+v", trace.Actor, want)
	}
}

func TestActorResolverWithoutActor(t *testing.T) {
	actors := NewActorResolver(WithActorExtractor(func(context.Context) (*auth.ActorContext, bool) {
		return nil, false
	}))
	if ref := actors.Resolve(context.Background()); !ref.IsZero() {
		t.Fatalf("expected zero actor, got %+v", ref)
	}
	var nilResolver *ActorResolver
	if ref := nilResolver.Resolve(context.Background()); !ref.IsZero() {
		t.Fatalf("expected zero actor from nil resolver, got %+v", ref)
	}
}
