package service

import (
	"context"
	"testing"

	"github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/testutil"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func newMaterialService(db *gorm.DB) *MaterialService {
	repos := repository.NewRepositories(db)
	return NewMaterialService(repos.Material, repos.OrderGroup, nil)
}

// PUT は全量替換：送った内容がそのまま新しい状態になる
func TestMaterialUpdateReplacesAllFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	company, _ := testutil.SeedCompany(t, db, "テスト商事", "test")
	svc := newMaterialService(db)
	ctx := context.Background()

	m, err := svc.Create(ctx, company.ID, &MaterialInput{
		Name:              "卵",
		MeasurementMode:   "weight",
		DefaultUnitWeight: 15,
		OrderUnitWeight:   floatPtr(200),
		OrderUnitName:     "パック",
		DisplayOrder:      intPtr(1),
	}, "test-user-001")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 名前だけ変えるつもりでも全項目を送り直す。換算設定はそのまま残る
	updated, err := svc.Update(ctx, company.ID, m.ID, &MaterialInput{
		Name:              "鶏卵",
		MeasurementMode:   "weight",
		DefaultUnitWeight: 15,
		OrderUnitWeight:   floatPtr(200),
		OrderUnitName:     "パック",
		DisplayOrder:      intPtr(1),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "鶏卵" {
		t.Errorf("name = %s, want 鶏卵", updated.Name)
	}
	if updated.OrderUnitWeight == nil || *updated.OrderUnitWeight != 200 {
		t.Errorf("order unit weight = %v, want 200", updated.OrderUnitWeight)
	}
	if updated.DefaultUnitWeight != 15 {
		t.Errorf("default unit weight = %v, want 15", updated.DefaultUnitWeight)
	}
	if updated.OrderUnitName != "パック" {
		t.Errorf("order unit name = %s, want パック", updated.OrderUnitName)
	}
	if updated.DisplayOrder != 1 {
		t.Errorf("display order = %d, want 1", updated.DisplayOrder)
	}
}

// 換算設定を外した全量替換は明示的なリセットとして扱う
func TestMaterialUpdateClearsOmittedConversion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	company, _ := testutil.SeedCompany(t, db, "テスト商事", "test")
	svc := newMaterialService(db)
	ctx := context.Background()

	m, err := svc.Create(ctx, company.ID, &MaterialInput{
		Name:               "海苔",
		MeasurementMode:    "count",
		PiecesPerOrderUnit: intPtr(100),
		OrderUnitName:      "束",
	}, "test-user-001")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, company.ID, m.ID, &MaterialInput{
		Name:            "海苔",
		MeasurementMode: "count",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PiecesPerOrderUnit != nil {
		t.Errorf("pieces per order unit = %v, want nil", *updated.PiecesPerOrderUnit)
	}
	if updated.OrderUnitName != "" {
		t.Errorf("order unit name = %q, want empty", updated.OrderUnitName)
	}
}
