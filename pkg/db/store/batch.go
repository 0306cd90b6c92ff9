package store

// sqliteBatch reuses the store operations on top of an open transaction
type sqliteBatch struct {
	*SQLiteStore
}

func (b *sqliteBatch) Commit() error {
	return b.db.Commit().Error
}

func (b *sqliteBatch) Rollback() error {
	return b.db.Rollback().Error
}
