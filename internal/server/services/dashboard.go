package services

import (
	"fmt"

	"github.com/dmitrijs2005/datalyn/internal/server/models"
)

// DashboardService serves the analytics overview. The figures are fixed
// sample data.
type DashboardService struct{}

func NewDashboardService() *DashboardService {
	return &DashboardService{}
}

func (s *DashboardService) Metrics() models.DashboardMetrics {
	revenue := []float64{12500, 13200, 13800, 14100, 13900, 15200, 15800, 16200,
		15900, 16800, 17200, 17800, 18100, 18900, 19500, 20100}

	chart := make([]models.ChartPoint, 0, len(revenue))
	for i, r := range revenue {
		chart = append(chart, models.ChartPoint{Date: chartDate(1 + 2*i), Revenue: r})
	}

	return models.DashboardMetrics{
		MRR:               20100,
		MRRChange:         8.2,
		ActiveUsers:       1847,
		ActiveUsersChange: 3.4,
		Conversions:       89,
		ConversionsChange: -12.0,
		ChurnRate:         3.2,
		ChurnRateChange:   0.8,
		ChartData:         chart,
		Anomalies: []models.Anomaly{
			{
				ID:          "1",
				Type:        "warning",
				Title:       "Conversion rate dip detected",
				Description: "Your trial-to-paid conversion dropped 12% this week. This correlates with a spike in failed payment attempts.",
				Timestamp:   "2 hours ago",
			},
			{
				ID:          "2",
				Type:        "positive",
				Title:       "MRR growth accelerating",
				Description: "Monthly recurring revenue grew 8.2% vs last month, your highest growth rate in Q1 2026.",
				Timestamp:   "5 hours ago",
			},
			{
				ID:          "3",
				Type:        "critical",
				Title:       "Churn spike in Enterprise tier",
				Description: "3 enterprise accounts churned this week (14% of segment). Exit surveys cite missing integrations.",
				Timestamp:   "1 day ago",
			},
		},
	}
}

func chartDate(day int) string {
	return fmt.Sprintf("Jan %d", day)
}
