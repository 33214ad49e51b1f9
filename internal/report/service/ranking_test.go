package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/config"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
)

func TestStrictRanking(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{100, RankingExcellent},
		{120, RankingExcellent},
		{99.9, RankingGood},
		{95.0, RankingGood},
		{94.9, RankingAverage},
		{90.0, RankingAverage},
		{89.9, RankingPoor},
		{85.0, RankingPoor},
		{84.999, RankingFail},
		{0, RankingFail},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StrictRanking(tt.rate), "rate %v", tt.rate)
	}
}

func TestLooseRanking(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{90.1, RankingExcellent},
		{90.0, RankingGood}, // 90 is not strictly above the cut
		{80.0, RankingGood},
		{79.9, RankingAverage},
		{70.0, RankingAverage},
		{69.9, RankingPoor},
		{0, RankingPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LooseRanking(tt.rate), "rate %v", tt.rate)
	}
}

func TestRankingLabel(t *testing.T) {
	assert.Equal(t, "Xuất sắc", RankingLabel(RankingExcellent))
	assert.Equal(t, "Tốt", RankingLabel(RankingGood))
	assert.Equal(t, "Trung bình", RankingLabel(RankingAverage))
	assert.Equal(t, "Yếu", RankingLabel(RankingPoor))
	assert.Equal(t, "Kém", RankingLabel(RankingFail))
	assert.Equal(t, "UNKNOWN", RankingLabel("UNKNOWN"))
}

func testClassifier() *PositionClassifier {
	return NewPositionClassifier(config.HierarchyConfig{
		ManagementKeywords: []string{"giám đốc", "trưởng", "phó", "manager"},
		AssistantKeywords:  []string{"trợ lý", "tro ly", "assistant"},
		ExcludedTitles:     []string{"tổng giám đốc", "ceo"},
	})
}

func TestClassifierIsManagement(t *testing.T) {
	c := testClassifier()

	assert.True(t, c.IsManagement(&entity.Position{Name: "Nhân viên", IsManagement: true}),
		"explicit flag wins regardless of title")
	assert.True(t, c.IsManagement(&entity.Position{Name: "Trưởng Phòng Sản Xuất"}),
		"keyword match is case-insensitive")
	assert.True(t, c.IsManagement(&entity.Position{Name: "Production Manager"}))
	assert.False(t, c.IsManagement(&entity.Position{Name: "Nhân viên may"}))
	assert.False(t, c.IsManagement(nil))
}

func TestClassifierIsStaff(t *testing.T) {
	c := testClassifier()

	assert.True(t, c.IsStaff(&entity.Position{Name: "Nhân viên may"}))
	assert.False(t, c.IsStaff(&entity.Position{Name: "Trưởng chuyền"}), "management keyword excludes")
	assert.False(t, c.IsStaff(&entity.Position{Name: "Nhân viên", IsManagement: true}))
	assert.False(t, c.IsStaff(nil))
}

func TestClassifierIsAssistant(t *testing.T) {
	c := testClassifier()

	assert.True(t, c.IsAssistant("Trợ Lý Giám Đốc"))
	assert.True(t, c.IsAssistant("Executive Assistant"))
	assert.False(t, c.IsAssistant("Trưởng phòng"))
}
