package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	accountentity "github.com/chuboware/chubo/internal/account/entity"
	catalogentity "github.com/chuboware/chubo/internal/catalog/entity"
	"github.com/chuboware/chubo/internal/middleware"
	planningentity "github.com/chuboware/chubo/internal/planning/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_chubo"
	JWTSecret  = "chubo-jwt-secret-key-2026"
)

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// loadEnv loads .env from the project root
func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "chubo")
	password := getEnv("DB_PASSWORD", "chubo123")
	dbname := getEnv("DB_NAME", "chubo")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// Create a unique test schema for isolation
	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	// First: create schema using a temporary connection
	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// Second: open connection with search_path in DSN so ALL pooled connections use test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Migrate test tables
	err = db.AutoMigrate(
		&accountentity.Company{},
		&accountentity.Store{},
		&accountentity.User{},
		&catalogentity.OrderGroup{},
		&catalogentity.Material{},
		&catalogentity.Product{},
		&catalogentity.ProductMaterialLine{},
		&planningentity.Plan{},
		&planningentity.PlanProductLine{},
		&planningentity.PlanSchedule{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	// Cleanup on test completion
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		// Reconnect to drop the schema
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, email, companyID, storeID, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"cid":   companyID,
		"sid":   storeID,
		"role":  role,
		"iss":   "chubo",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// AdminToken returns a token for an admin user in the given company
func AdminToken(companyID, storeID string) string {
	return GenerateTestToken("test-user-001", "Test Admin", "admin@test.com", companyID, storeID, "admin")
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedCompany creates a test company with one store
func SeedCompany(t *testing.T, db *gorm.DB, name, subdomain string) (*accountentity.Company, *accountentity.Store) {
	t.Helper()
	company := &accountentity.Company{
		ID:        uuid.New().String()[:32],
		Name:      name,
		Subdomain: subdomain,
		Status:    "active",
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("Failed to seed company: %v", err)
	}
	store := &accountentity.Store{
		ID:        uuid.New().String()[:32],
		CompanyID: company.ID,
		Name:      name + " 本店",
		Status:    "active",
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
	return company, store
}

// SeedMaterial creates a test material
func SeedMaterial(t *testing.T, db *gorm.DB, m *catalogentity.Material) *catalogentity.Material {
	t.Helper()
	if m.ID == "" {
		m.ID = uuid.New().String()[:32]
	}
	if m.MeasurementMode == "" {
		m.MeasurementMode = catalogentity.MeasurementWeight
	}
	if m.DisplayOrder == 0 {
		m.DisplayOrder = catalogentity.DefaultDisplayOrder
	}
	if m.CreatedBy == "" {
		m.CreatedBy = "test-user-001"
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to seed material: %v", err)
	}
	return m
}

// SeedProduct creates a test product with composition lines
func SeedProduct(t *testing.T, db *gorm.DB, p *catalogentity.Product, lines []catalogentity.ProductMaterialLine) *catalogentity.Product {
	t.Helper()
	if p.ID == "" {
		p.ID = uuid.New().String()[:32]
	}
	if p.CreatedBy == "" {
		p.CreatedBy = "test-user-001"
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	for i := range lines {
		lines[i].ID = uuid.New().String()[:32]
		lines[i].ProductID = p.ID
	}
	if len(lines) > 0 {
		if err := db.Create(&lines).Error; err != nil {
			t.Fatalf("Failed to seed product lines: %v", err)
		}
	}
	return p
}

// SeedPlan creates a test plan with product lines
func SeedPlan(t *testing.T, db *gorm.DB, p *planningentity.Plan, lines []planningentity.PlanProductLine) *planningentity.Plan {
	t.Helper()
	if p.ID == "" {
		p.ID = uuid.New().String()[:32]
	}
	if p.CreatedBy == "" {
		p.CreatedBy = "test-user-001"
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to seed plan: %v", err)
	}
	for i := range lines {
		lines[i].ID = uuid.New().String()[:32]
		lines[i].PlanID = p.ID
	}
	if len(lines) > 0 {
		if err := db.Create(&lines).Error; err != nil {
			t.Fatalf("Failed to seed plan lines: %v", err)
		}
	}
	return p
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
