package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDashboardMetrics(t *testing.T) {
	m := NewDashboardService().Metrics()

	assert.Equal(t, 20100.0, m.MRR)
	assert.Len(t, m.ChartData, 16)
	assert.Equal(t, "Jan 1", m.ChartData[0].Date)
	assert.Equal(t, "Jan 31", m.ChartData[15].Date)
	assert.Equal(t, m.MRR, m.ChartData[15].Revenue)
	assert.Len(t, m.Anomalies, 3)
}

func TestIntegrations(t *testing.T) {
	s := NewIntegrationService()
	list := s.List()

	assert.Len(t, list, 6)
	connected := 0
	for _, i := range list {
		if i.Connected {
			connected++
		}
	}
	assert.Equal(t, 2, connected)
	assert.True(t, s.Toggle("notion"))
}
