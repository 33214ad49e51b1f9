package service

import (
	"strings"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/config"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
)

// Ranking buckets
const (
	RankingExcellent = "EXCELLENT"
	RankingGood      = "GOOD"
	RankingAverage   = "AVERAGE"
	RankingPoor      = "POOR"
	RankingFail      = "FAIL"
)

// rankingLabels fixed Vietnamese display labels
var rankingLabels = map[string]string{
	RankingExcellent: "Xuất sắc",
	RankingGood:      "Tốt",
	RankingAverage:   "Trung bình",
	RankingPoor:      "Yếu",
	RankingFail:      "Kém",
}

// RankingLabel returns the display label for a bucket.
func RankingLabel(ranking string) string {
	if label, ok := rankingLabels[ranking]; ok {
		return label
	}
	return ranking
}

// StrictRanking classifies a completion-rate percentage with the
// {100, 95, 90, 85} cut points. This is the policy used by every
// hierarchy statistics endpoint.
func StrictRanking(rate float64) string {
	switch {
	case rate >= 100:
		return RankingExcellent
	case rate >= 95:
		return RankingGood
	case rate >= 90:
		return RankingAverage
	case rate >= 85:
		return RankingPoor
	default:
		return RankingFail
	}
}

// LooseRanking classifies with the {90, 80, 70} cut points and no FAIL
// bucket. Kept as a separate named policy; the two threshold sets exist
// in production reports and must not be merged.
func LooseRanking(rate float64) string {
	switch {
	case rate > 90:
		return RankingExcellent
	case rate >= 80:
		return RankingGood
	case rate >= 70:
		return RankingAverage
	default:
		return RankingPoor
	}
}

// PositionClassifier decides whether a position counts as management or
// staff. The decision mixes an explicit flag with case-insensitive
// substring matching on locale-specific title keywords, so the lists
// come from configuration rather than code.
type PositionClassifier struct {
	managementKeywords []string
	assistantKeywords  []string
	excludedTitles     []string
}

func NewPositionClassifier(cfg config.HierarchyConfig) *PositionClassifier {
	return &PositionClassifier{
		managementKeywords: lowerAll(cfg.ManagementKeywords),
		assistantKeywords:  lowerAll(cfg.AssistantKeywords),
		excludedTitles:     lowerAll(cfg.ExcludedTitles),
	}
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}

func matchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsManagement reports whether the position belongs to the management
// partition: explicit flag or title keyword.
func (c *PositionClassifier) IsManagement(pos *entity.Position) bool {
	if pos == nil {
		return false
	}
	return pos.IsManagement || matchesAny(pos.Name, c.managementKeywords)
}

// IsStaff reports whether the position belongs to the staff partition:
// explicitly non-management, no management keyword, and not an excluded
// top title.
func (c *PositionClassifier) IsStaff(pos *entity.Position) bool {
	if pos == nil {
		return false
	}
	if pos.IsManagement || matchesAny(pos.Name, c.managementKeywords) {
		return false
	}
	return !matchesAny(pos.Name, c.excludedTitles)
}

// IsAssistant matches the assistant title pattern used by the level-5
// lookup denial.
func (c *PositionClassifier) IsAssistant(positionName string) bool {
	return matchesAny(positionName, c.assistantKeywords)
}
