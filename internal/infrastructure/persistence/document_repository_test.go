package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newMockDocumentRepository creates a GormDocumentRepository with a mocked
// SQL connection for SQL-contract tests
func newMockDocumentRepository(t *testing.T) (*GormDocumentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDocumentRepository(gormDB), mock, mockDB
}

// newSqliteDocumentRepository creates a repository over an in-memory
// database for behavioral round-trip tests
func newSqliteDocumentRepository(t *testing.T) *GormDocumentRepository {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&workflow.Document{}, &workflow.LineItem{}))
	return NewGormDocumentRepository(db)
}

func seedDocument(t *testing.T, repo *GormDocumentRepository) *workflow.Document {
	doc, err := workflow.NewPurchaseOrder("PO-2026-00001", uuid.New(), "Acme Components", uuid.New())
	require.NoError(t, err)
	_, err = doc.AddLine(uuid.New(), "M8 bolts", decimal.NewFromInt(100), decimal.NewFromFloat(0.12))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), doc))
	return doc
}

func TestGormDocumentRepository_FindByID_NotFound(t *testing.T) {
	repo, mock, mockDB := newMockDocumentRepository(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(id, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	doc, err := repo.FindByID(context.Background(), id)
	assert.Error(t, err)
	assert.Nil(t, doc)
	assert.Equal(t, shared.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDocumentRepository_RoundTrip(t *testing.T) {
	repo := newSqliteDocumentRepository(t)
	doc := seedDocument(t, repo)

	loaded, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.KindPurchaseOrder, loaded.Kind)
	assert.Equal(t, "PO-2026-00001", loaded.Number)
	assert.Equal(t, workflow.StatusDraft, loaded.Status)
	assert.Equal(t, doc.Version, loaded.Version)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, "M8 bolts", loaded.Lines[0].ProductName)

	byNumber, err := repo.FindByNumber(context.Background(), "PO-2026-00001")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, byNumber.ID)
}

func TestGormDocumentRepository_SaveWithLock(t *testing.T) {
	repo := newSqliteDocumentRepository(t)
	doc := seedDocument(t, repo)
	registry := workflow.DefaultRegistry()
	actor := workflow.NewActor(uuid.New(), workflow.RolePurchaser)

	loaded, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)

	_, err = registry.Apply(loaded, workflow.ActionSubmit, workflow.TransitionPayload{}, actor)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(context.Background(), loaded))

	stored, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPendingApproval, stored.Status)
	assert.Equal(t, doc.Version+1, stored.Version)
	assert.NotNil(t, stored.SubmittedAt)
}

func TestGormDocumentRepository_SaveWithLock_LoserConflicts(t *testing.T) {
	repo := newSqliteDocumentRepository(t)
	doc := seedDocument(t, repo)
	registry := workflow.DefaultRegistry()
	actor := workflow.NewActor(uuid.New(), workflow.RolePurchaser)

	// Two clients load the same snapshot
	first, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)

	// The first write wins
	_, err = registry.Apply(first, workflow.ActionSubmit, workflow.TransitionPayload{}, actor)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(context.Background(), first))

	// The second write loses and leaves the stored document untouched
	_, err = registry.Apply(second, workflow.ActionSend, workflow.TransitionPayload{}, actor)
	require.NoError(t, err)
	err = repo.SaveWithLock(context.Background(), second)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeVersionConflict))

	stored, err := repo.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPendingApproval, stored.Status)
	assert.Equal(t, doc.Version+1, stored.Version)
}

func TestGormDocumentRepository_SaveWithLock_MissingDocument(t *testing.T) {
	repo := newSqliteDocumentRepository(t)

	doc, err := workflow.NewPurchaseOrder("PO-2026-00099", uuid.New(), "Acme Components", uuid.New())
	require.NoError(t, err)
	doc.Version = 2

	err = repo.SaveWithLock(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeNotFound))
}

func TestGormDocumentRepository_GenerateNumber(t *testing.T) {
	repo := newSqliteDocumentRepository(t)

	first, err := repo.GenerateNumber(context.Background(), workflow.KindPurchaseOrder)
	require.NoError(t, err)
	assert.Regexp(t, `^PO-\d{4}-00001$`, first)

	doc, err := workflow.NewPurchaseOrder(first, uuid.New(), "Acme Components", uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), doc))

	second, err := repo.GenerateNumber(context.Background(), workflow.KindPurchaseOrder)
	require.NoError(t, err)
	assert.Regexp(t, `^PO-\d{4}-00002$`, second)

	// Sequences are independent per kind
	jobCard, err := repo.GenerateNumber(context.Background(), workflow.KindJobCard)
	require.NoError(t, err)
	assert.Regexp(t, `^JC-\d{4}-00001$`, jobCard)
}

func TestGormDocumentRepository_FindByKindAndCount(t *testing.T) {
	repo := newSqliteDocumentRepository(t)
	seedDocument(t, repo)

	jc, err := workflow.NewJobCard("JC-2026-00001", uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), jc))

	pos, err := repo.FindByKind(context.Background(), workflow.KindPurchaseOrder, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, pos, 1)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = workflow.StatusDraft
	drafts, err := repo.FindByKind(context.Background(), workflow.KindPurchaseOrder, filter)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	count, err := repo.CountByStatus(context.Background(), workflow.KindJobCard, workflow.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
