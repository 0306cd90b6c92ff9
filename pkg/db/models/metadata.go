package models

// TagKey is the metadata key used for tags
const TagKey = "tag"

// Metadata represents a key-value entry attached to a resource
type Metadata struct {
	ID         uint   `gorm:"primaryKey"`
	ResourceID uint   `gorm:"column:file_id;not null;index:idx_metadata_file;uniqueIndex:idx_metadata_unique"`
	Key        string `gorm:"type:text;not null;uniqueIndex:idx_metadata_unique"`
	Value      string `gorm:"type:text;uniqueIndex:idx_metadata_unique"`
}

func (Metadata) TableName() string {
	return "metadata"
}

// Description sources written by the core and its collaborators
const (
	SourceManual = "Manual"
	SourceAI     = "AI"
	SourceCloud  = "Nube"
)

// NoModel is stored in model_used when no model produced the text
const NoModel = "None"

// Description represents a provenance-tagged free-text annotation
type Description struct {
	ID         uint   `gorm:"primaryKey"`
	ResourceID uint   `gorm:"column:file_id;not null;index:idx_descriptions_file"`
	Text       string `gorm:"column:description;type:text"`
	Source     string `gorm:"type:text"`
	ModelUsed  string `gorm:"type:text"`
}

func (Description) TableName() string {
	return "descriptions"
}
