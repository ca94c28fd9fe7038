package repository

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"promotion-backend/database"
	"promotion-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRepo(t *testing.T) (*GormPromotionRepository, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	repo := NewGormPromotionRepository(db).WithLogger(zerolog.Nop())
	return repo, db
}

func newPromotion(t *testing.T, name string) *models.Promotion {
	p := &models.Promotion{}
	require.NoError(t, p.Deserialize(map[string]any{
		"promotion_name":        name,
		"promotion_description": "test promotion",
		"promotion_type":        "ABSOLUTE",
		"promotion_scope":       "PRODUCT_CATEGORY",
		"start_date":            "2024-01-01T00:00:00Z",
		"end_date":              "2024-12-31T00:00:00Z",
		"promotion_value":       5.0,
		"created_by":            uuid.NewString(),
		"created_when":          "2023-12-15T09:00:00Z",
	}))
	return p
}

func TestCreateAssignsID(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "New Year")
	require.False(t, p.IsPersisted())
	require.NoError(t, repo.Create(ctx, p))
	assert.NotZero(t, p.PromotionID)

	found, err := repo.Find(ctx, p.PromotionID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "New Year", found.PromotionName)
	assert.Equal(t, models.PromotionTypeAbsolute, found.PromotionType)
	assert.Equal(t, models.PromotionScopeProductCategory, found.PromotionScope)
	assert.Equal(t, p.CreatedBy, found.CreatedBy)
	assert.True(t, found.StartDate.Equal(p.StartDate), "start_date %v != %v", found.StartDate, p.StartDate)
	assert.Nil(t, found.PromotionCode)
	assert.Nil(t, found.ModifiedBy)
	assert.Nil(t, found.ModifiedWhen)
}

func TestCreateDiscardsExistingID(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	first := newPromotion(t, "First")
	require.NoError(t, repo.Create(ctx, first))

	second := newPromotion(t, "Second")
	second.PromotionID = first.PromotionID
	require.NoError(t, repo.Create(ctx, second))
	assert.NotEqual(t, first.PromotionID, second.PromotionID)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateFailureRollsBackAndReturnsValidationError(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&models.Promotion{}))

	p := newPromotion(t, "Doomed")
	err := repo.Create(ctx, p)
	require.Error(t, err)

	var dve *models.DataValidationError
	assert.True(t, errors.As(err, &dve), "expected *DataValidationError, got %T", err)
	assert.True(t, errors.Is(err, models.ErrDataValidation))
	assert.Contains(t, err.Error(), "error creating promotion")
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "Valid")
	p.PromotionName = strings.Repeat("n", 64)
	err := repo.Create(ctx, p)
	require.Error(t, err)

	var dve *models.DataValidationError
	require.True(t, errors.As(err, &dve))
	assert.Contains(t, dve.Fields, "promotion_name")

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateRejectsIncompleteRecord(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	err := repo.Create(ctx, &models.Promotion{PromotionName: "only a name"})
	require.Error(t, err)

	var dve *models.DataValidationError
	require.True(t, errors.As(err, &dve))
	assert.Contains(t, dve.Fields, "promotion_type")
	assert.Contains(t, dve.Fields, "promotion_scope")
	assert.Contains(t, dve.Fields, "start_date")
	assert.Contains(t, dve.Fields, "created_by")

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateRejectsNonFiniteValue(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "Finite")
	require.NoError(t, repo.Create(ctx, p))

	p.PromotionValue = math.Inf(1)
	err := repo.Update(ctx, p)
	assert.True(t, errors.Is(err, models.ErrDataValidation))

	found, err := repo.Find(ctx, p.PromotionID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 5.0, found.PromotionValue)
}

func TestUpdatePersistsChanges(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "Spring")
	require.NoError(t, repo.Create(ctx, p))
	id := p.PromotionID

	modifier := uuid.NewString()
	require.NoError(t, p.Deserialize(map[string]any{
		"promotion_value": 12.75,
		"promotion_code":  "SPRING",
		"modified_by":     modifier,
		"modified_when":   "2024-03-01T12:00:00Z",
	}))
	require.NoError(t, repo.Update(ctx, p))
	assert.Equal(t, id, p.PromotionID)

	found, err := repo.Find(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 12.75, found.PromotionValue)
	require.NotNil(t, found.PromotionCode)
	assert.Equal(t, "SPRING", *found.PromotionCode)
	require.NotNil(t, found.ModifiedBy)
	assert.Equal(t, modifier, found.ModifiedBy.String())
	require.NotNil(t, found.ModifiedWhen)
	assert.True(t, found.ModifiedWhen.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestUpdateCanClearOptionalFields(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "Coded")
	code := "CODE"
	p.PromotionCode = &code
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, p.Deserialize(map[string]any{"promotion_code": nil}))
	require.NoError(t, repo.Update(ctx, p))

	found, err := repo.Find(ctx, p.PromotionID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.PromotionCode)
}

func TestUpdateWithoutIDFails(t *testing.T) {
	repo, _ := setupTestRepo(t)

	err := repo.Update(context.Background(), newPromotion(t, "Transient"))
	assert.True(t, errors.Is(err, models.ErrDataValidation))
}

func TestUpdateMissingRowFails(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "Gone")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Delete(ctx, p))

	err := repo.Update(ctx, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataValidation))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	found, err := repo.Find(ctx, p.PromotionID)
	require.NoError(t, err)
	assert.Nil(t, found, "update must not resurrect a deleted row")
}

func TestDeleteThenFindReturnsNothing(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "Short Lived")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Delete(ctx, p))

	found, err := repo.Find(ctx, p.PromotionID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDeleteWithoutIDFails(t *testing.T) {
	repo, _ := setupTestRepo(t)

	err := repo.Delete(context.Background(), &models.Promotion{PromotionName: "Never saved"})
	assert.True(t, errors.Is(err, models.ErrDataValidation))
}

func TestDeleteFailureReturnsValidationError(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "Orphan")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, db.Migrator().DropTable(&models.Promotion{}))

	err := repo.Delete(ctx, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataValidation))
	assert.Contains(t, err.Error(), "error deleting promotion")
}

func TestFindMissingReturnsNil(t *testing.T) {
	repo, _ := setupTestRepo(t)

	found, err := repo.Find(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestAllReturnsInIDOrder(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, newPromotion(t, name)))
	}

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].PromotionName)
	assert.Equal(t, "C", all[2].PromotionName)
	assert.Less(t, all[0].PromotionID, all[1].PromotionID)
}

func TestFindByName(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newPromotion(t, "Black Friday")))
	require.NoError(t, repo.Create(ctx, newPromotion(t, "Cyber Monday")))
	require.NoError(t, repo.Create(ctx, newPromotion(t, "Black Friday")))

	matches, err := repo.FindByName(ctx, "Black Friday")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, "Black Friday", m.PromotionName)
	}

	none, err := repo.FindByName(ctx, "black friday")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSerializeAfterCreateIncludesID(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	p := newPromotion(t, "Serialized")
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.Find(ctx, p.PromotionID)
	require.NoError(t, err)
	require.NotNil(t, found)

	out := found.Serialize()
	assert.Equal(t, p.PromotionID, out["promotion_id"])
	assert.Equal(t, "ABSOLUTE", out["promotion_type"])
	assert.Equal(t, "PRODUCT_CATEGORY", out["promotion_scope"])
}
