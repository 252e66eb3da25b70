package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  github_id INTEGER NOT NULL,
  login TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL,
  avatar_url TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  model_number TEXT,
  purchase_date DATETIME,
  category TEXT,
  manufacturer TEXT,
  warranty_months INTEGER,
  expected_lifespan_years INTEGER,
  expected_usage_hours INTEGER,
  purchase_price NUMERIC,
  notes TEXT,
  image_url TEXT,
  manual_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS usage_logs (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  date DATETIME NOT NULL,
  duration_minutes INTEGER,
  notes TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS incident_reports (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  date DATETIME NOT NULL,
  description TEXT NOT NULL,
  severity TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func mustCreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		GitHubID: time.Now().UnixNano(),
		Login:    "repo-tester",
		Email:    uuid.NewString() + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCreateProduct(t *testing.T, repo *Repository, userID uuid.UUID, name string, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := mustCreateTestUser(t, db)

	months := 24
	product := &models.Product{
		UserID:         user.ID,
		Name:           "Washing Machine",
		WarrantyMonths: &months,
	}
	require.NoError(t, repo.Create(ctx, product))
	assert.NotEqual(t, uuid.Nil, product.ID)

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Washing Machine", found.Name)
	require.NotNil(t, found.WarrantyMonths)
	assert.Equal(t, 24, *found.WarrantyMonths)
}

func TestRepositoryListOrdersNewestFirst(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := mustCreateTestUser(t, db)
	other := mustCreateTestUser(t, db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := mustCreateProduct(t, repo, user.ID, "oldest", base)
	second := mustCreateProduct(t, repo, user.ID, "middle", base.Add(time.Hour))
	third := mustCreateProduct(t, repo, user.ID, "newest", base.Add(2*time.Hour))
	mustCreateProduct(t, repo, other.ID, "foreign", base.Add(3*time.Hour))

	rows, next, err := repo.ListByUser(ctx, user.ID, pagination.Params{})
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, rows, 3)
	assert.Equal(t, third.ID, rows[0].ID)
	assert.Equal(t, second.ID, rows[1].ID)
	assert.Equal(t, first.ID, rows[2].ID)
}

func TestRepositoryListPaginatesWithCursor(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := mustCreateTestUser(t, db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateProduct(t, repo, user.ID, "item", base.Add(time.Duration(i)*time.Hour))
	}

	firstPage, next, err := repo.ListByUser(ctx, user.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Len(t, firstPage, 2)

	secondPage, _, err := repo.ListByUser(ctx, user.ID, pagination.Params{Limit: 10, Cursor: *next})
	require.NoError(t, err)
	require.Len(t, secondPage, 3)
	assert.True(t, secondPage[0].CreatedAt.Before(firstPage[1].CreatedAt))
}

func TestRepositoryUpdateFieldsScopedToOwner(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := mustCreateTestUser(t, db)
	intruder := mustCreateTestUser(t, db)

	product := mustCreateProduct(t, repo, user.ID, "Drill", time.Now().UTC())

	updated, err := repo.UpdateFields(ctx, user.ID, product.ID, map[string]any{"name": "Hammer Drill"})
	require.NoError(t, err)
	assert.Equal(t, "Hammer Drill", updated.Name)

	_, err = repo.UpdateFields(ctx, intruder.ID, product.ID, map[string]any{"name": "stolen"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	unchanged, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer Drill", unchanged.Name)
}

func TestRepositoryDeleteCascades(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := mustCreateTestUser(t, db)

	product := mustCreateProduct(t, repo, user.ID, "Mixer", time.Now().UTC())
	survivor := mustCreateProduct(t, repo, user.ID, "Kettle", time.Now().UTC())

	minutes := 30
	require.NoError(t, db.Create(&models.UsageLog{
		ID:              uuid.New(),
		ProductID:       product.ID,
		Date:            time.Now().UTC(),
		DurationMinutes: &minutes,
	}).Error)
	require.NoError(t, db.Create(&models.IncidentReport{
		ID:          uuid.New(),
		ProductID:   product.ID,
		Date:        time.Now().UTC(),
		Description: "making noise",
	}).Error)
	require.NoError(t, db.Create(&models.UsageLog{
		ID:        uuid.New(),
		ProductID: survivor.ID,
		Date:      time.Now().UTC(),
	}).Error)

	require.NoError(t, repo.Delete(ctx, user.ID, product.ID))

	_, err := repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orphanLogs int64
	require.NoError(t, db.Model(&models.UsageLog{}).Where("product_id = ?", product.ID).Count(&orphanLogs).Error)
	assert.Zero(t, orphanLogs)

	var orphanIncidents int64
	require.NoError(t, db.Model(&models.IncidentReport{}).Where("product_id = ?", product.ID).Count(&orphanIncidents).Error)
	assert.Zero(t, orphanIncidents)

	var survivorLogs int64
	require.NoError(t, db.Model(&models.UsageLog{}).Where("product_id = ?", survivor.ID).Count(&survivorLogs).Error)
	assert.EqualValues(t, 1, survivorLogs)
}

func TestRepositoryDeleteScopedToOwner(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := mustCreateTestUser(t, db)
	intruder := mustCreateTestUser(t, db)

	product := mustCreateProduct(t, repo, user.ID, "Mixer", time.Now().UTC())

	err := repo.Delete(ctx, intruder.ID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByID(ctx, product.ID)
	assert.NoError(t, err)
}
