package models

// IndexStats summarizes the content of the index
type IndexStats struct {
	Resources          int64
	LocalResources     int64
	WebResources       int64
	DistinctTags       int64
	WithoutDescription int64
	WithoutTags        int64
	Apps               int64
	WebAccounts        int64
	Pages              int64
	Relations          int64
}
