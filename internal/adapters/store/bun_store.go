package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"bookfinder/internal/core/domain/ports"
)

// Ensure BunStore implements SnapshotStore
var _ ports.SnapshotStore = (*BunStore)(nil)

// Snapshot is one durable key/value row.
type Snapshot struct {
	bun.BaseModel `bun:"table:snapshots,alias:s"`

	Key       string    `bun:",pk"`
	Value     []byte    `bun:",notnull"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// BunStore persists snapshots in a SQLite database.
type BunStore struct {
	db *bun.DB
}

// NewBunStore opens (or creates) the SQLite database at the given path.
func NewBunStore(path string) (*BunStore, error) {
	sqlDB, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	db := bun.NewDB(sqlDB, sqlitedialect.New())

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*Snapshot)(nil)).IfNotExists().Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return &BunStore{db: db}, nil
}

func (s *BunStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	snap := new(Snapshot)
	err := s.db.NewSelect().Model(snap).Where("key = ?", key).Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return snap.Value, true, nil
}

func (s *BunStore) Put(ctx context.Context, key string, value []byte) error {
	snap := &Snapshot{Key: key, Value: value, UpdatedAt: time.Now()}
	_, err := s.db.NewInsert().
		Model(snap).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *BunStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().Model((*Snapshot)(nil)).Where("key = ?", key).Exec(ctx)
	return err
}

func (s *BunStore) Close() error {
	return s.db.Close()
}
