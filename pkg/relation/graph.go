package relation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/db/store"
	"github.com/mwantia/goindex/pkg/log"
)

var (
	ErrInvalidKind         = errors.New("invalid entity kind")
	ErrDestinationNotFound = errors.New("destination not found")
	ErrSelfRelation        = errors.New("an entity cannot be related to itself")
	ErrDuplicateRelation   = errors.New("relation already exists")
	ErrEmptyDescription    = errors.New("relation description is empty")
)

// Store is the store surface the graph works on
type Store interface {
	CreateRelation(ctx context.Context, note *models.RelationNote) error
	FindRelationBetween(ctx context.Context, a, b models.EntityRef) (*models.RelationNote, error)
	ListRelations(ctx context.Context, ref models.EntityRef) ([]models.RelationNote, error)
	ListAllRelations(ctx context.Context) ([]models.RelationNote, error)
	DeleteRelation(ctx context.Context, id uint) error
}

// Resolver returns the display name of one entity. It returns
// store.ErrNotFound when the entity does not exist.
type Resolver func(ctx context.Context, id uint) (string, error)

// EntityStore is the lookup surface StoreResolvers needs
type EntityStore interface {
	GetResource(ctx context.Context, id uint) (*models.Resource, error)
	GetApp(ctx context.Context, id uint) (*models.App, error)
	GetWebAccount(ctx context.Context, id uint) (*models.WebAccount, error)
}

// StoreResolvers names resources by filename, apps by name and web accounts by site
func StoreResolvers(s EntityStore) map[models.EntityKind]Resolver {
	return map[models.EntityKind]Resolver{
		models.KindResource: func(ctx context.Context, id uint) (string, error) {
			r, err := s.GetResource(ctx, id)
			if err != nil {
				return "", err
			}
			return r.Filename, nil
		},
		models.KindApp: func(ctx context.Context, id uint) (string, error) {
			a, err := s.GetApp(ctx, id)
			if err != nil {
				return "", err
			}
			return a.Name, nil
		},
		models.KindWebAccount: func(ctx context.Context, id uint) (string, error) {
			w, err := s.GetWebAccount(ctx, id)
			if err != nil {
				return "", err
			}
			return w.Site, nil
		},
	}
}

// Edge is one relation seen from a given entity
type Edge struct {
	ID           uint
	Other        models.EntityRef
	OtherName    string
	Dangling     bool
	Description  string
	RegisteredAt time.Time
}

// Graph manages undirected, annotated edges between entities
type Graph struct {
	store     Store
	resolvers map[models.EntityKind]Resolver
	log       log.LoggerService
	now       func() time.Time
}

type Option func(*Graph)

func WithClock(now func() time.Time) Option {
	return func(g *Graph) {
		g.now = now
	}
}

func NewGraph(s Store, resolvers map[models.EntityKind]Resolver, logger log.LoggerService, opts ...Option) *Graph {
	g := &Graph{
		store:     s,
		resolvers: resolvers,
		log:       logger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func danglingName(id uint) string {
	return fmt.Sprintf("(ID %d not found)", id)
}

// List returns every edge touching ref in either direction, newest first.
// Edges whose other endpoint no longer exists are flagged as dangling.
func (g *Graph) List(ctx context.Context, ref models.EntityRef) ([]Edge, error) {
	if !ref.Kind.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidKind, ref.Kind)
	}

	notes, err := g.store.ListRelations(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list relations of %s: %w", ref, err)
	}

	edges := make([]Edge, 0, len(notes))
	for i := range notes {
		note := &notes[i]
		other := note.Other(ref)

		name, exists, err := g.resolve(ctx, other)
		if err != nil {
			return nil, err
		}

		edges = append(edges, Edge{
			ID:           note.ID,
			Other:        other,
			OtherName:    name,
			Dangling:     !exists,
			Description:  note.Description,
			RegisteredAt: note.Time(),
		})
	}

	return edges, nil
}

// Add records an edge between origin and destination. Nothing is written
// unless every check passes.
func (g *Graph) Add(ctx context.Context, origin, destination models.EntityRef, text string) (*models.RelationNote, error) {
	if !origin.Kind.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidKind, origin.Kind)
	}
	if !destination.Kind.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidKind, destination.Kind)
	}

	_, exists, err := g.resolve(ctx, destination)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrDestinationNotFound, destination)
	}

	if origin == destination {
		return nil, fmt.Errorf("%w: %s", ErrSelfRelation, origin)
	}

	existing, err := g.store.FindRelationBetween(ctx, origin, destination)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s and %s (relation %d)", ErrDuplicateRelation, origin, destination, existing.ID)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing relations: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDescription
	}

	note := &models.RelationNote{
		OriginKind:      origin.Kind,
		OriginID:        origin.ID,
		DestinationKind: destination.Kind,
		DestinationID:   destination.ID,
		Description:     text,
		RegisteredAt:    g.now().Format(models.RegisteredAtLayout),
	}
	if err := g.store.CreateRelation(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create relation: %w", err)
	}

	g.log.Info("Related %s with %s (relation %d)", origin, destination, note.ID)
	return note, nil
}

// Remove deletes a relation by id
func (g *Graph) Remove(ctx context.Context, id uint) error {
	if err := g.store.DeleteRelation(ctx, id); err != nil {
		return fmt.Errorf("failed to remove relation %d: %w", id, err)
	}

	g.log.Info("Removed relation %d", id)
	return nil
}

// PruneDangling deletes every edge with at least one missing endpoint and
// returns how many were removed. Edges are never pruned implicitly.
func (g *Graph) PruneDangling(ctx context.Context) (int, error) {
	notes, err := g.store.ListAllRelations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list relations: %w", err)
	}

	pruned := 0
	for i := range notes {
		note := &notes[i]

		dangling := false
		for _, ref := range []models.EntityRef{note.Origin(), note.Destination()} {
			_, exists, err := g.resolve(ctx, ref)
			if err != nil {
				return pruned, err
			}
			if !exists {
				dangling = true
				break
			}
		}
		if !dangling {
			continue
		}

		if err := g.store.DeleteRelation(ctx, note.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return pruned, fmt.Errorf("failed to prune relation %d: %w", note.ID, err)
		}
		g.log.Debug("Pruned dangling relation %d between %s and %s", note.ID, note.Origin(), note.Destination())
		pruned++
	}

	if pruned > 0 {
		g.log.Info("Pruned %d dangling relation(s)", pruned)
	}
	return pruned, nil
}

// resolve looks up the display name of ref. A missing entity is not an error;
// it yields the placeholder name and exists=false.
func (g *Graph) resolve(ctx context.Context, ref models.EntityRef) (string, bool, error) {
	resolver, ok := g.resolvers[ref.Kind]
	if !ok {
		return danglingName(ref.ID), false, nil
	}

	name, err := resolver(ctx, ref.ID)
	switch {
	case err == nil:
		return name, true, nil
	case errors.Is(err, store.ErrNotFound):
		return danglingName(ref.ID), false, nil
	}
	return "", false, fmt.Errorf("failed to resolve %s: %w", ref, err)
}
