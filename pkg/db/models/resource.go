package models

import (
	"time"
)

// ResourceKind distinguishes local files from web links
type ResourceKind string

const (
	ResourceLocal ResourceKind = "local"
	ResourceWeb   ResourceKind = "web"
)

// WebExtension is the extension stored for every web resource
const WebExtension = ".link"

// Resource represents an indexed local file or web link
type Resource struct {
	ID        uint   `gorm:"primaryKey"`
	Path      string `gorm:"type:text;not null;uniqueIndex:idx_files_path_kind"`
	Filename  string `gorm:"type:text;not null;index:idx_files_filename"`
	Extension string `gorm:"type:text;index:idx_files_extension"`

	// File metadata
	Size int64
	Hash string `gorm:"type:text"`

	// Timestamps
	CreatedAt  time.Time
	ModifiedAt time.Time `gorm:"index:idx_files_modified"`

	Kind ResourceKind `gorm:"column:resource_type;type:text;default:local;uniqueIndex:idx_files_path_kind"`

	// Relationships
	Metadata     []Metadata    `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE"`
	Descriptions []Description `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE"`
}

func (Resource) TableName() string {
	return "files"
}

// ResourceStat holds the columns a rescan is allowed to refresh
type ResourceStat struct {
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// IsWeb reports whether the resource is a web link
func (r *Resource) IsWeb() bool {
	return r.Kind == ResourceWeb
}
