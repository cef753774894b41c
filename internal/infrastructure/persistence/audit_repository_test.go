package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSqliteAuditRepository(t *testing.T) *GormAuditTrailRepository {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&workflow.AuditEntry{}))
	return NewGormAuditTrailRepository(db)
}

func TestGormAuditTrailRepository_AppendAndList(t *testing.T) {
	repo := newSqliteAuditRepository(t)
	documentID := uuid.New()
	actorID := uuid.New()

	first := workflow.NewAuditEntry(documentID, "Submitted for approval", actorID, "", workflow.AuditNeutral)
	second := workflow.NewAuditEntry(documentID, "Approved", actorID, "", workflow.AuditSuccess)
	second.Timestamp = first.Timestamp.Add(time.Minute)
	other := workflow.NewAuditEntry(uuid.New(), "Created", actorID, "", workflow.AuditNeutral)

	require.NoError(t, repo.Append(context.Background(), second))
	require.NoError(t, repo.Append(context.Background(), first))
	require.NoError(t, repo.Append(context.Background(), other))

	entries, err := repo.ListByDocument(context.Background(), documentID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Chronological order regardless of insert order
	assert.Equal(t, "Submitted for approval", entries[0].Label)
	assert.Equal(t, "Approved", entries[1].Label)
	assert.Equal(t, workflow.AuditSuccess, entries[1].Variant)
}

func TestGormAuditTrailRepository_EmptyTrail(t *testing.T) {
	repo := newSqliteAuditRepository(t)
	entries, err := repo.ListByDocument(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
