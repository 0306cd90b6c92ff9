package models

import (
	"fmt"
	"time"
)

// EntityKind names the table an entity lives in
type EntityKind string

const (
	KindResource   EntityKind = "files"
	KindApp        EntityKind = "apps"
	KindWebAccount EntityKind = "cuentas_web"
)

// EntityKinds lists every kind a relation may reference
var EntityKinds = []EntityKind{KindResource, KindApp, KindWebAccount}

// Valid reports whether k is one of the known entity kinds
func (k EntityKind) Valid() bool {
	for _, known := range EntityKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Label returns a human label for the kind
func (k EntityKind) Label() string {
	switch k {
	case KindResource:
		return "Resource"
	case KindApp:
		return "App"
	case KindWebAccount:
		return "Web account"
	}
	return string(k)
}

// ParseEntityKind accepts table names as well as the short aliases used on the command line
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "files", "file", "resource", "resources":
		return KindResource, nil
	case "apps", "app":
		return KindApp, nil
	case "cuentas_web", "account", "accounts", "web-account":
		return KindWebAccount, nil
	}
	return "", fmt.Errorf("unknown entity kind '%s'", s)
}

// EntityRef identifies one row in one of the entity tables
type EntityRef struct {
	Kind EntityKind
	ID   uint
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// RegisteredAtLayout is the text layout of every fecha_reg column
const RegisteredAtLayout = "2006-01-02 15:04:05"

// RelationNote represents a directed, annotated edge between two entities
type RelationNote struct {
	ID              uint       `gorm:"primaryKey"`
	OriginKind      EntityKind `gorm:"column:origen_tabla;type:text;not null;index:idx_relation_origin"`
	OriginID        uint       `gorm:"column:origen_id;not null;index:idx_relation_origin"`
	Description     string     `gorm:"column:descripcion;type:text;not null"`
	DestinationKind EntityKind `gorm:"column:destino_tabla;type:text;not null;index:idx_relation_destination"`
	DestinationID   uint       `gorm:"column:destino_id;not null;index:idx_relation_destination"`
	RegisteredAt    string     `gorm:"column:fecha_reg;type:text"`
}

func (RelationNote) TableName() string {
	return "notas_relacion"
}

func (n *RelationNote) Origin() EntityRef {
	return EntityRef{Kind: n.OriginKind, ID: n.OriginID}
}

func (n *RelationNote) Destination() EntityRef {
	return EntityRef{Kind: n.DestinationKind, ID: n.DestinationID}
}

// Other returns the endpoint that is not ref
func (n *RelationNote) Other(ref EntityRef) EntityRef {
	if n.Origin() == ref {
		return n.Destination()
	}
	return n.Origin()
}

// Time parses RegisteredAt, returning the zero time for legacy or empty values
func (n *RelationNote) Time() time.Time {
	t, err := time.ParseInLocation(RegisteredAtLayout, n.RegisteredAt, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
