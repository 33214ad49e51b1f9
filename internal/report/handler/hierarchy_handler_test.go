package handler

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/config"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/testutil"
)

func setupHierarchyTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	classifier := service.NewPositionClassifier(config.HierarchyConfig{
		ManagementKeywords: []string{"trưởng", "giám đốc"},
		AssistantKeywords:  []string{"trợ lý"},
	})
	subSvc := service.NewSubordinateService(repos.User, classifier, nil, zap.NewNop())
	access := service.NewAccessService(repos.User, subSvc, classifier)
	statsSvc := service.NewStatsService(repos.User, access, subSvc, classifier)
	scheduler := service.NewLockScheduler(repos.Report, time.Hour, zap.NewNop())
	h := NewHierarchyHandler(statsSvc, scheduler)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/hierarchy/stats", h.ScopedStats)
	api.GET("/hierarchy/manager-reports", h.ManagerReports)
	api.GET("/hierarchy/view", h.HierarchyView)
	api.POST("/hierarchy/lock-reports", h.TriggerLock)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestManagerReports(t *testing.T) {
	env := setupHierarchyTest(t)

	f := testutil.SeedOrg(t, env.DB, 3, 7)
	testutil.SeedUserAt(t, env.DB, f, "mgr", "M001", 3)
	testutil.SeedUserAt(t, env.DB, f, "s1", "S001", 7)
	testutil.SeedUserAt(t, env.DB, f, "s2", "S002", 7)
	testutil.SeedReport(t, env.DB, "s1", 10, 2024, true, true) // 2/2 tasks

	token := testutil.GenerateTestToken("mgr", "M001", entity.RoleUser, f.Office.ID)
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/hierarchy/manager-reports?week=10&year=2024", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["total_subordinates"].(float64) != 2 {
		t.Errorf("Expected 2 subordinates, got %v", data["total_subordinates"])
	}

	summary := data["summary"].(map[string]interface{})
	if summary["users_with_reports"].(float64) != 1 {
		t.Errorf("Expected 1 submitted report, got %v", summary["users_with_reports"])
	}
	if summary["submission_rate"].(float64) != 50 {
		t.Errorf("Expected 50%% submission rate, got %v", summary["submission_rate"])
	}
}

func TestManagerReportsDeniedForStaff(t *testing.T) {
	env := setupHierarchyTest(t)

	f := testutil.SeedOrg(t, env.DB, 7)
	testutil.SeedUserAt(t, env.DB, f, "s1", "S001", 7)

	token := testutil.GenerateTestToken("s1", "S001", entity.RoleUser, f.Office.ID)
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/hierarchy/manager-reports?week=10&year=2024", nil, token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for bottom-tier viewer, got %d: %s", w.Code, w.Body.String())
	}
}

func TestScopedStatsSelfOnly(t *testing.T) {
	env := setupHierarchyTest(t)

	f := testutil.SeedOrg(t, env.DB, 8)
	testutil.SeedUserAt(t, env.DB, f, "u1", "U001", 8)
	testutil.SeedUserAt(t, env.DB, f, "u2", "U002", 8)
	testutil.SeedReport(t, env.DB, "u1", 10, 2024, true, false) // 1/2 tasks

	token := testutil.GenerateTestToken("u1", "U001", entity.RoleUser, f.Office.ID)
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/hierarchy/stats?week=10&year=2024&include_users=true", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	if summary["total_users"].(float64) != 1 {
		t.Errorf("Self-only scope must cover exactly the viewer, got %v users", summary["total_users"])
	}
	if summary["average_completion_rate"].(float64) != 50 {
		t.Errorf("Expected 50%% completion, got %v", summary["average_completion_rate"])
	}
}

func TestHierarchyViewPartition(t *testing.T) {
	env := setupHierarchyTest(t)

	f := testutil.SeedOrg(t, env.DB, 3, 7)
	testutil.SeedUserAt(t, env.DB, f, "mgr", "M001", 3)
	testutil.SeedUserAt(t, env.DB, f, "s1", "S001", 7)
	testutil.SeedReport(t, env.DB, "mgr", 10, 2024, true)
	testutil.SeedReport(t, env.DB, "s1", 10, 2024, true)

	token := testutil.GenerateTestToken("admin", "A001", entity.RoleSuperAdmin, f.Office.ID)
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/hierarchy/view?week=10&year=2024", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	partition := data["partition"].(map[string]interface{})
	if partition["management"] == nil || partition["staff"] == nil {
		t.Fatalf("Expected both partitions, got %v", partition)
	}
	if partition["mixed"] == nil {
		t.Errorf("Expected mixed block when both partitions are non-empty")
	}
}

func TestTriggerLock(t *testing.T) {
	env := setupHierarchyTest(t)

	f := testutil.SeedOrg(t, env.DB, 7)
	testutil.SeedUserAt(t, env.DB, f, "u1", "U001", 7)

	token := testutil.GenerateTestToken("admin", "A001", entity.RoleAdmin, f.Office.ID)
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/hierarchy/lock-reports", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if _, ok := data["locked"]; !ok {
		t.Errorf("Expected locked count in response, got %v", data)
	}
}
