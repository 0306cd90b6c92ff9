package store

import (
	"context"
	"fmt"
	"reflect"

	"github.com/mwantia/fabric/pkg/container"
)

var indexStoreType = reflect.TypeOf((*IndexStore)(nil)).Elem()

// Resolve looks up the IndexStore registered in sc
func Resolve(ctx context.Context, sc *container.ServiceContainer) (IndexStore, error) {
	ok, resolved := sc.ResolveByType(ctx, indexStoreType)
	if !ok {
		return nil, fmt.Errorf("failed to resolve IndexStore: no index store registered")
	}

	s, ok := resolved.(IndexStore)
	if !ok {
		return nil, fmt.Errorf("resolved service is not an IndexStore")
	}
	return s, nil
}
