package repofactory

import (
	"context"
	"fmt"

	contractdomain "github.com/celebreapp/celebre/internal/contract/domain"
	giftdomain "github.com/celebreapp/celebre/internal/gift/domain"
	guestdomain "github.com/celebreapp/celebre/internal/guest/domain"
	photodomain "github.com/celebreapp/celebre/internal/photo/domain"
)

// Typed accessors over Get. They exist so handlers and services don't
// repeat the same type assertion everywhere.

func (f *Factory) Guests(ctx context.Context) (guestdomain.Repository, error) {
	return lookup[guestdomain.Repository](f, ctx, EntityGuest)
}

func (f *Factory) Contracts(ctx context.Context) (contractdomain.Repository, error) {
	return lookup[contractdomain.Repository](f, ctx, EntityContract)
}

func (f *Factory) Photos(ctx context.Context) (photodomain.Repository, error) {
	return lookup[photodomain.Repository](f, ctx, EntityPhoto)
}

func (f *Factory) Gifts(ctx context.Context) (giftdomain.Repository, error) {
	return lookup[giftdomain.Repository](f, ctx, EntityGift)
}

func lookup[T any](f *Factory, ctx context.Context, entity Entity) (T, error) {
	var zero T
	v, err := f.Get(ctx, entity)
	if err != nil {
		return zero, err
	}
	repo, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("repository for entity %q has unexpected type %T", entity, v)
	}
	return repo, nil
}
