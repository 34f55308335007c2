package handler

import (
	"fmt"
	"net/http"
	"testing"

	catalogentity "github.com/chuboware/chubo/internal/catalog/entity"
	catalogrepo "github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/planning/repository"
	"github.com/chuboware/chubo/internal/planning/service"
	"github.com/chuboware/chubo/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupPlanTest(t *testing.T) (*gin.Engine, string, string, []string) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	company, store := testutil.SeedCompany(t, db, "テスト商事", "test")
	nori := testutil.SeedMaterial(t, db, &catalogentity.Material{
		CompanyID:          company.ID,
		Name:               "海苔",
		MeasurementMode:    catalogentity.MeasurementCount,
		PiecesPerOrderUnit: intPtr(100),
		OrderUnitName:      "束",
	})
	product := testutil.SeedProduct(t, db, &catalogentity.Product{
		CompanyID: company.ID, Name: "おにぎり", Price: 150,
	}, []catalogentity.ProductMaterialLine{
		{MaterialID: nori.ID, Quantity: 1, UnitWeight: 3},
	})

	planningRepos := repository.NewRepositories(db)
	catalogRepos := catalogrepo.NewRepositories(db)
	services := service.NewServices(planningRepos, catalogRepos)
	handlers := NewHandlers(services)

	r := testutil.SetupRouter()
	v1 := testutil.AuthGroup(r, "/api/v1")
	plans := v1.Group("/plans")
	{
		plans.GET("", handlers.Plan.List)
		plans.POST("", handlers.Plan.Create)
		plans.GET("/:id", handlers.Plan.Get)
		plans.PUT("/:id", handlers.Plan.Update)
		plans.DELETE("/:id", handlers.Plan.Delete)
		plans.GET("/:id/requirements", handlers.Plan.Requirements)
		plans.POST("/:id/duplicate", handlers.Plan.Duplicate)
	}

	return r, company.ID, store.ID, []string{product.ID}
}

func intPtr(v int) *int { return &v }

func TestPlanCRUDRoundTrip(t *testing.T) {
	r, companyID, storeID, productIDs := setupPlanTest(t)
	token := testutil.AdminToken(companyID, storeID)

	// Create
	w := testutil.DoRequest(r, "POST", "/api/v1/plans", map[string]interface{}{
		"store_id": storeID,
		"name":     "週末仕込み",
		"lines": []map[string]interface{}{
			{"product_id": productIDs[0], "production_count": 40},
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	created := testutil.ParseResponse(w)
	data := created["data"].(map[string]interface{})
	planID := data["id"].(string)

	// Get
	w = testutil.DoRequest(r, "GET", "/api/v1/plans/"+planID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := testutil.ParseResponse(w)["data"].(map[string]interface{})
	// 150円 × 40個
	if rev := got["expected_revenue"].(float64); rev != 6000 {
		t.Errorf("expected_revenue = %v, want 6000", rev)
	}

	// Requirements
	w = testutil.DoRequest(r, "GET", fmt.Sprintf("/api/v1/plans/%s/requirements", planID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("requirements status = %d", w.Code)
	}
	reqData := testutil.ParseResponse(w)["data"].(map[string]interface{})
	materials := reqData["materials"].([]interface{})
	if len(materials) != 1 {
		t.Fatalf("expected 1 material, got %d", len(materials))
	}

	// Delete
	w = testutil.DoRequest(r, "DELETE", "/api/v1/plans/"+planID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = testutil.DoRequest(r, "GET", "/api/v1/plans/"+planID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestPlanEndpointsRequireAuth(t *testing.T) {
	r, _, _, _ := setupPlanTest(t)

	w := testutil.DoRequest(r, "GET", "/api/v1/plans", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestPlanTenantIsolation(t *testing.T) {
	r, _, storeID, productIDs := setupPlanTest(t)
	token := testutil.AdminToken("other-company", storeID)

	// 他社トークンでは商品が見えないので計画も作れない
	w := testutil.DoRequest(r, "POST", "/api/v1/plans", map[string]interface{}{
		"store_id": storeID,
		"name":     "他社計画",
		"lines": []map[string]interface{}{
			{"product_id": productIDs[0], "production_count": 10},
		},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("cross-tenant create status = %d, want 400", w.Code)
	}
}
