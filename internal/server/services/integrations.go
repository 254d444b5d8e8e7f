package services

import (
	"github.com/dmitrijs2005/datalyn/internal/server/models"
)

// IntegrationService lists the third-party connectors shown in the UI.
// Connection state is not persisted.
type IntegrationService struct{}

func NewIntegrationService() *IntegrationService {
	return &IntegrationService{}
}

func (s *IntegrationService) List() []models.Integration {
	return []models.Integration{
		{ID: "sheets", Name: "Google Sheets", Description: "Sync data to and from Google Sheets", Icon: "Sheet"},
		{ID: "quickbooks", Name: "QuickBooks", Description: "Connect your accounting data", Icon: "FileText"},
		{ID: "notion", Name: "Notion", Description: "Push reports to your Notion workspace", Icon: "FileText"},
		{ID: "slack", Name: "Slack", Description: "Get alerts in your Slack channels", Icon: "MessageSquare", Connected: true},
		{ID: "hubspot", Name: "HubSpot", Description: "Analyze your CRM and sales data", Icon: "Users"},
		{ID: "stripe", Name: "Stripe", Description: "Connect payment and revenue data", Icon: "CreditCard", Connected: true},
	}
}

// Toggle reports the integration as connected.
func (s *IntegrationService) Toggle(id string) bool {
	return true
}
