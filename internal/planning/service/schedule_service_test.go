package service

import (
	"context"
	"testing"
	"time"

	catalogentity "github.com/chuboware/chubo/internal/catalog/entity"
	catalogrepo "github.com/chuboware/chubo/internal/catalog/repository"
	planningentity "github.com/chuboware/chubo/internal/planning/entity"
	"github.com/chuboware/chubo/internal/planning/repository"
	"github.com/chuboware/chubo/internal/testutil"
	"gorm.io/gorm"
)

func floatPtr(v float64) *float64 { return &v }

// 基础数据：玉子焼き（卵2個/15g、1パック200g入り）を50個作る計画
func seedScheduleFixture(t *testing.T, db *gorm.DB) (companyID, storeID, planID string) {
	t.Helper()
	company, store := testutil.SeedCompany(t, db, "テスト商事", "test")

	egg := testutil.SeedMaterial(t, db, &catalogentity.Material{
		CompanyID:         company.ID,
		Name:              "卵",
		MeasurementMode:   catalogentity.MeasurementWeight,
		DefaultUnitWeight: 15,
		OrderUnitWeight:   floatPtr(200),
		OrderUnitName:     "パック",
		DisplayOrder:      1,
	})

	product := testutil.SeedProduct(t, db, &catalogentity.Product{
		CompanyID: company.ID,
		Name:      "玉子焼き",
		Price:     300,
	}, []catalogentity.ProductMaterialLine{
		{MaterialID: egg.ID, Quantity: 2, UnitWeight: 15},
	})

	plan := testutil.SeedPlan(t, db, &planningentity.Plan{
		CompanyID: company.ID,
		StoreID:   store.ID,
		Name:      "週末仕込み",
	}, []planningentity.PlanProductLine{
		{ProductID: product.ID, ProductionCount: 50},
	})

	return company.ID, store.ID, plan.ID
}

func newScheduleService(db *gorm.DB) *ScheduleService {
	planningRepos := repository.NewRepositories(db)
	catalogRepos := catalogrepo.NewRepositories(db)
	return NewScheduleService(planningRepos.Schedule, planningRepos.Plan, catalogRepos.Product)
}

func TestScheduleCreateTakesSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, storeID, planID := seedScheduleFixture(t, db)
	svc := newScheduleService(db)
	ctx := context.Background()

	schedule, err := svc.Create(ctx, companyID, "test-user-001", &ScheduleInput{
		PlanID:      planID,
		StoreID:     storeID,
		ScheduledOn: "2026-09-05",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if schedule.SnapshotJSON == nil {
		t.Fatal("expected snapshot to be taken at schedule time")
	}
	if schedule.SnapshotAt == nil {
		t.Error("expected snapshot_at to be set")
	}

	snap, err := unmarshalSnapshot(schedule.SnapshotJSON)
	if err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if len(snap.Products) != 1 {
		t.Fatalf("expected 1 snapshot product, got %d", len(snap.Products))
	}
	if snap.Products[0].ProductionCount != 50 {
		t.Errorf("snapshot production count = %d, want 50", snap.Products[0].ProductionCount)
	}
	// 300円 × 50個
	if snap.TotalCost != 15000 {
		t.Errorf("snapshot total cost = %v, want 15000", snap.TotalCost)
	}
	if len(snap.Materials) != 1 {
		t.Fatalf("expected 1 snapshot material, got %d", len(snap.Materials))
	}
	// 卵 2個×50 = 100個、1500g、ceil(1500/200) = 8パック
	if snap.Materials[0].TotalQuantity.IntPart() != 100 {
		t.Errorf("total quantity = %s, want 100", snap.Materials[0].TotalQuantity)
	}
	if snap.Materials[0].RequiredOrderQuantity.IntPart() != 8 {
		t.Errorf("required order quantity = %s, want 8", snap.Materials[0].RequiredOrderQuantity)
	}
}

func TestScheduleSnapshotFrozenAgainstPlanEdits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, storeID, planID := seedScheduleFixture(t, db)
	svc := newScheduleService(db)
	ctx := context.Background()

	schedule, err := svc.Create(ctx, companyID, "test-user-001", &ScheduleInput{
		PlanID:      planID,
		StoreID:     storeID,
		ScheduledOn: "2026-09-05",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 計画の生産数を変更
	if err := db.Model(&planningentity.PlanProductLine{}).
		Where("plan_id = ?", planID).
		Update("production_count", 80).Error; err != nil {
		t.Fatalf("update plan line: %v", err)
	}

	detail, err := svc.Get(ctx, companyID, schedule.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Snapshot.Products[0].ProductionCount != 50 {
		t.Errorf("snapshot moved with plan edit: count = %d, want 50",
			detail.Snapshot.Products[0].ProductionCount)
	}

	// 明示的な更新でだけ新しい構成が入る
	refreshed, err := svc.RefreshSnapshot(ctx, companyID, schedule.ID)
	if err != nil {
		t.Fatalf("RefreshSnapshot: %v", err)
	}
	if refreshed.Snapshot.Products[0].ProductionCount != 80 {
		t.Errorf("refreshed snapshot count = %d, want 80",
			refreshed.Snapshot.Products[0].ProductionCount)
	}
}

func TestRecordActualRevenueFreezesPlannedOnFirstWrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, storeID, planID := seedScheduleFixture(t, db)
	svc := newScheduleService(db)
	ctx := context.Background()

	schedule, err := svc.Create(ctx, companyID, "test-user-001", &ScheduleInput{
		PlanID:      planID,
		StoreID:     storeID,
		ScheduledOn: "2026-09-05",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.RecordActualRevenue(ctx, companyID, schedule.ID, 12000)
	if err != nil {
		t.Fatalf("RecordActualRevenue: %v", err)
	}
	if updated.PlannedRevenue == nil || *updated.PlannedRevenue != 15000 {
		t.Fatalf("planned revenue not frozen from live expected revenue: %v", updated.PlannedRevenue)
	}
	if updated.ActualRevenue == nil || *updated.ActualRevenue != 12000 {
		t.Fatalf("actual revenue = %v, want 12000", updated.ActualRevenue)
	}

	// 計画を編集しても凍結済みの予定営収は動かない
	if err := db.Model(&planningentity.PlanProductLine{}).
		Where("plan_id = ?", planID).
		Update("production_count", 200).Error; err != nil {
		t.Fatalf("update plan line: %v", err)
	}
	again, err := svc.RecordActualRevenue(ctx, companyID, schedule.ID, 13000)
	if err != nil {
		t.Fatalf("RecordActualRevenue(2nd): %v", err)
	}
	if *again.PlannedRevenue != 15000 {
		t.Errorf("planned revenue moved after freeze: %v, want 15000", *again.PlannedRevenue)
	}
	if *again.ActualRevenue != 13000 {
		t.Errorf("actual revenue = %v, want 13000", *again.ActualRevenue)
	}
}

func TestCancelledScheduleExcludedFromDailyRequirements(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, storeID, planID := seedScheduleFixture(t, db)
	svc := newScheduleService(db)
	ctx := context.Background()

	first, err := svc.Create(ctx, companyID, "test-user-001", &ScheduleInput{
		PlanID: planID, StoreID: storeID, ScheduledOn: "2026-09-05",
	})
	if err != nil {
		t.Fatalf("Create(1): %v", err)
	}
	if _, err := svc.Create(ctx, companyID, "test-user-001", &ScheduleInput{
		PlanID: planID, StoreID: storeID, ScheduledOn: "2026-09-05",
	}); err != nil {
		t.Fatalf("Create(2): %v", err)
	}

	date := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	reqs, err := svc.DailyRequirements(ctx, companyID, storeID, date)
	if err != nil {
		t.Fatalf("DailyRequirements: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("expected 1 merged requirement, got %d", len(reqs))
	}
	// 両方の排程分が合算される: 100個 × 2
	if reqs[0].TotalQuantity.IntPart() != 200 {
		t.Errorf("total quantity = %s, want 200", reqs[0].TotalQuantity)
	}

	cancelled, err := svc.Cancel(ctx, companyID, first.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != planningentity.ScheduleStatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Error("expected cancelled_at to be set")
	}

	reqs, err = svc.DailyRequirements(ctx, companyID, storeID, date)
	if err != nil {
		t.Fatalf("DailyRequirements after cancel: %v", err)
	}
	if len(reqs) != 1 || reqs[0].TotalQuantity.IntPart() != 100 {
		t.Errorf("cancelled schedule still contributes: %+v", reqs)
	}
}

func TestDailyRequirementsListsSourcePlans(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, storeID, planID := seedScheduleFixture(t, db)
	svc := newScheduleService(db)
	ctx := context.Background()

	// 同じ卵を使う別の計画
	var egg catalogentity.Material
	if err := db.First(&egg, "company_id = ? AND name = ?", companyID, "卵").Error; err != nil {
		t.Fatalf("find egg: %v", err)
	}
	product2 := testutil.SeedProduct(t, db, &catalogentity.Product{
		CompanyID: companyID,
		Name:      "だし巻き",
		Price:     400,
	}, []catalogentity.ProductMaterialLine{
		{MaterialID: egg.ID, Quantity: 3, UnitWeight: 15},
	})
	plan2 := testutil.SeedPlan(t, db, &planningentity.Plan{
		CompanyID: companyID,
		StoreID:   storeID,
		Name:      "平日仕込み",
	}, []planningentity.PlanProductLine{
		{ProductID: product2.ID, ProductionCount: 10},
	})

	for _, pid := range []string{planID, plan2.ID} {
		if _, err := svc.Create(ctx, companyID, "test-user-001", &ScheduleInput{
			PlanID: pid, StoreID: storeID, ScheduledOn: "2026-09-06",
		}); err != nil {
			t.Fatalf("Create(%s): %v", pid, err)
		}
	}

	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	reqs, err := svc.DailyRequirements(ctx, companyID, storeID, date)
	if err != nil {
		t.Fatalf("DailyRequirements: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("expected 1 merged requirement, got %d", len(reqs))
	}
	// 100 + 30
	if reqs[0].TotalQuantity.IntPart() != 130 {
		t.Errorf("total quantity = %s, want 130", reqs[0].TotalQuantity)
	}
	if len(reqs[0].PlanNames) != 2 {
		t.Fatalf("expected 2 source plans, got %v", reqs[0].PlanNames)
	}
}

// 快照経由の日次集計：削除済み商品の行だけ読み飛ばし、DB障害は黙殺せずエラーを返す
func TestDailyRequirementsSnapshotProductLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, storeID, planID := seedScheduleFixture(t, db)
	svc := newScheduleService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, companyID, "test-user-001", &ScheduleInput{
		PlanID: planID, StoreID: storeID, ScheduledOn: "2026-09-07",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	// 商品を物理削除 → 快照の行は存在するが集計からは消える（エラーなし）
	if err := db.Where("company_id = ?", companyID).Delete(&catalogentity.Product{}).Error; err != nil {
		t.Fatalf("delete products: %v", err)
	}
	if err := db.Exec("DELETE FROM product_material_lines").Error; err != nil {
		t.Fatalf("delete product lines: %v", err)
	}
	reqs, err := svc.DailyRequirements(ctx, companyID, storeID, date)
	if err != nil {
		t.Fatalf("DailyRequirements with deleted product: %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("deleted product must be skipped, got %+v", reqs)
	}
}

func TestDailyRequirementsPropagatesProductLookupFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	companyID, storeID, planID := seedScheduleFixture(t, db)
	ctx := context.Background()

	planningRepos := repository.NewRepositories(db)

	// 商品テーブルを失った別スキーマの接続。FindByID は not found ではなく
	// SQLエラーを返すので、集計は行を落とさずエラーを伝播すること
	brokenDB := testutil.SetupTestDB(t)
	if err := brokenDB.Exec("DROP TABLE products").Error; err != nil {
		t.Fatalf("drop products: %v", err)
	}
	svc := NewScheduleService(planningRepos.Schedule, planningRepos.Plan,
		catalogrepo.NewRepositories(brokenDB).Product)

	if _, err := newScheduleService(db).Create(ctx, companyID, "test-user-001", &ScheduleInput{
		PlanID: planID, StoreID: storeID, ScheduledOn: "2026-09-08",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	date := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	if _, err := svc.DailyRequirements(ctx, companyID, storeID, date); err == nil {
		t.Fatal("expected lookup failure to propagate, got nil error")
	}
}
