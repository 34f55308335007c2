package service

import (
	"context"
	"testing"

	"github.com/chuboware/chubo/internal/catalog/entity"
	"github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/testutil"
	"gorm.io/gorm"
)

func floatPtr(v float64) *float64 { return &v }

func newProductService(db *gorm.DB) *ProductService {
	repos := repository.NewRepositories(db)
	return NewProductService(repos.Product, repos.Material)
}

func seedProductFixture(t *testing.T, db *gorm.DB) (companyID string, materialIDs []string) {
	t.Helper()
	company, _ := testutil.SeedCompany(t, db, "テスト商事", "test")

	egg := testutil.SeedMaterial(t, db, &entity.Material{
		CompanyID:         company.ID,
		Name:              "卵",
		MeasurementMode:   entity.MeasurementWeight,
		DefaultUnitWeight: 15,
		OrderUnitWeight:   floatPtr(200),
		OrderUnitName:     "パック",
		DisplayOrder:      1,
	})
	salt := testutil.SeedMaterial(t, db, &entity.Material{
		CompanyID:         company.ID,
		Name:              "塩",
		MeasurementMode:   entity.MeasurementWeight,
		DefaultUnitWeight: 1,
	})
	return company.ID, []string{egg.ID, salt.ID}
}

func TestProductSaveDropsDuplicateMaterialLinesKeepingLast(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, materialIDs := seedProductFixture(t, db)
	svc := newProductService(db)

	p, err := svc.Create(context.Background(), companyID, "test-user-001", &ProductInput{
		Name:  "玉子焼き",
		Price: 300,
		Lines: []ProductLineInput{
			{MaterialID: materialIDs[0], Quantity: 1, UnitWeight: 15},
			{MaterialID: materialIDs[1], Quantity: 0.5, UnitWeight: 1},
			{MaterialID: materialIDs[0], Quantity: 2, UnitWeight: 15}, // 後勝ち
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(p.Lines) != 2 {
		t.Fatalf("expected 2 lines after dedup, got %d", len(p.Lines))
	}
	for _, l := range p.Lines {
		if l.MaterialID == materialIDs[0] && l.Quantity != 2 {
			t.Errorf("duplicate line quantity = %v, want last-write 2", l.Quantity)
		}
	}
}

func TestProductLineCapturesUnitWeightFromMaster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, materialIDs := seedProductFixture(t, db)
	svc := newProductService(db)
	ctx := context.Background()

	p, err := svc.Create(ctx, companyID, "test-user-001", &ProductInput{
		Name:  "ゆで卵",
		Price: 100,
		Lines: []ProductLineInput{
			{MaterialID: materialIDs[0], Quantity: 1}, // UnitWeight未指定
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Lines[0].UnitWeight != 15 {
		t.Fatalf("unit weight = %v, want master default 15", p.Lines[0].UnitWeight)
	}

	// 主データ側を後から変えても既存行の快照は動かない
	if err := db.Model(&entity.Material{}).
		Where("id = ?", materialIDs[0]).
		Update("default_unit_weight", 20).Error; err != nil {
		t.Fatalf("update material: %v", err)
	}
	reloaded, err := svc.Get(ctx, companyID, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if reloaded.Lines[0].UnitWeight != 15 {
		t.Errorf("line snapshot moved with master edit: %v, want 15", reloaded.Lines[0].UnitWeight)
	}
}

func TestProductCreateRejectsNonPositiveQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, materialIDs := seedProductFixture(t, db)
	svc := newProductService(db)

	_, err := svc.Create(context.Background(), companyID, "test-user-001", &ProductInput{
		Name:  "不正商品",
		Lines: []ProductLineInput{{MaterialID: materialIDs[0], Quantity: 0}},
	})
	if err == nil {
		t.Fatal("expected error for quantity 0")
	}
}

func TestMaterialPreviewRoundsTwoDecimals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, materialIDs := seedProductFixture(t, db)
	svc := newProductService(db)
	ctx := context.Background()

	p, err := svc.Create(ctx, companyID, "test-user-001", &ProductInput{
		Name:  "玉子焼き",
		Price: 300,
		Lines: []ProductLineInput{
			{MaterialID: materialIDs[0], Quantity: 2, UnitWeight: 15},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 卵 2個×25 = 50個、750g、750/200 = 3.75パック（プレビューは切り上げない）
	reqs, err := svc.MaterialPreview(ctx, companyID, p.ID, 25)
	if err != nil {
		t.Fatalf("MaterialPreview: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("expected 1 requirement, got %d", len(reqs))
	}
	if reqs[0].RequiredOrderQuantity.String() != "3.75" {
		t.Errorf("required order quantity = %s, want 3.75", reqs[0].RequiredOrderQuantity)
	}

	if _, err := svc.MaterialPreview(ctx, companyID, p.ID, 0); err == nil {
		t.Error("expected error for production count 0")
	}
}
