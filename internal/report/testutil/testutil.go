package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/middleware"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
)

const JWTSecret = "tbs-report-test-secret"

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens an isolated in-memory database and migrates every
// table. Each test gets its own database; cleanup closes it.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A temp-file database rather than shared-cache memory: shared cache
	// takes table-level locks, so a read on a second pooled connection
	// while a write transaction is open fails with "table is locked".
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.Office{},
		&entity.Department{},
		&entity.Position{},
		&entity.JobPosition{},
		&entity.User{},
		&entity.Report{},
		&entity.ReportTask{},
		&entity.TaskEvaluation{},
		&entity.TaskEvidence{},
	); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
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
func GenerateTestToken(userID, employeeCode, role, officeID string) string {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:       userID,
		EmployeeCode: employeeCode,
		Role:         role,
		OfficeID:     officeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "tbs-report-system",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			ID:        fmt.Sprintf("test-jti-%d", now.UnixNano()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// AdminTestToken returns a token for a default admin test user
func AdminTestToken(userID string) string {
	return GenerateTestToken(userID, "ADM001", entity.RoleAdmin, "office-1")
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

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// OrgFixture is a ready-made office/department/position graph for tests.
type OrgFixture struct {
	Office     *entity.Office
	Department *entity.Department
	Positions  map[int]*entity.Position // keyed by level
}

// SeedOrg creates one office with one department and positions at the
// given levels. Levels below 7 get IsManagement set; level 7 gets
// CanViewHierarchy so staff-to-staff visibility is testable.
func SeedOrg(t *testing.T, db *gorm.DB, levels ...int) *OrgFixture {
	t.Helper()

	office := &entity.Office{
		ID: "office-1", Name: "Head Office", Type: entity.OfficeTypeHead,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.Create(office).Error; err != nil {
		t.Fatalf("Failed to seed office: %v", err)
	}

	dept := &entity.Department{
		ID: "dept-1", Name: "Production", OfficeID: office.ID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.Create(dept).Error; err != nil {
		t.Fatalf("Failed to seed department: %v", err)
	}

	fixture := &OrgFixture{Office: office, Department: dept, Positions: map[int]*entity.Position{}}
	for _, level := range levels {
		pos := &entity.Position{
			ID:           fmt.Sprintf("pos-l%d", level),
			Name:         fmt.Sprintf("Level %d", level),
			Level:        level,
			IsManagement: level < 7,
			IsReportable: true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if level == 7 {
			pos.CanViewHierarchy = true
		}
		if err := db.Create(pos).Error; err != nil {
			t.Fatalf("Failed to seed position: %v", err)
		}
		fixture.Positions[level] = pos
	}
	return fixture
}

// SeedUserAt creates a user holding a job position at the given level in
// the fixture's department.
func SeedUserAt(t *testing.T, db *gorm.DB, f *OrgFixture, id, code string, level int) *entity.User {
	t.Helper()

	pos, ok := f.Positions[level]
	if !ok {
		t.Fatalf("Fixture has no position at level %d", level)
	}

	jp := &entity.JobPosition{
		ID:           "jp-" + id,
		JobName:      "Job " + id,
		Code:         "JOB-" + id,
		PositionID:   pos.ID,
		DepartmentID: f.Department.ID,
		OfficeID:     f.Office.ID,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(jp).Error; err != nil {
		t.Fatalf("Failed to seed job position: %v", err)
	}

	user := &entity.User{
		ID:            id,
		EmployeeCode:  code,
		Password:      "x",
		FirstName:     "User",
		LastName:      "Test " + id,
		Role:          entity.RoleUser,
		JobPositionID: jp.ID,
		OfficeID:      f.Office.ID,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

// SeedReport creates a report with tasks, completed per the flags.
func SeedReport(t *testing.T, db *gorm.DB, userID string, week, year int, taskDone ...bool) *entity.Report {
	t.Helper()

	report := &entity.Report{
		ID:         fmt.Sprintf("rep-%s-%d-%d", userID, week, year),
		WeekNumber: week,
		Year:       year,
		UserID:     userID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	for i, done := range taskDone {
		report.Tasks = append(report.Tasks, entity.ReportTask{
			ID:          fmt.Sprintf("%s-task-%d", report.ID, i),
			ReportID:    report.ID,
			TaskName:    fmt.Sprintf("Task %d", i+1),
			IsCompleted: done,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		})
	}
	if err := db.Create(report).Error; err != nil {
		t.Fatalf("Failed to seed report: %v", err)
	}
	return report
}
