package models

type ChartPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type Anomaly struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

type DashboardMetrics struct {
	MRR               float64      `json:"mrr"`
	MRRChange         float64      `json:"mrr_change"`
	ActiveUsers       int          `json:"active_users"`
	ActiveUsersChange float64      `json:"active_users_change"`
	Conversions       int          `json:"conversions"`
	ConversionsChange float64      `json:"conversions_change"`
	ChurnRate         float64      `json:"churn_rate"`
	ChurnRateChange   float64      `json:"churn_rate_change"`
	ChartData         []ChartPoint `json:"chart_data"`
	Anomalies         []Anomaly    `json:"anomalies"`
}

type Integration struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Connected   bool   `json:"connected"`
}
