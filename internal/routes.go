package internal

import (
	"kickoff/internal/controllers"
	"kickoff/internal/providers"
	"net/http"
)

func InitRoutes(healthController *controllers.HealthController, stateController *controllers.StateController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/health", http.HandlerFunc(healthController.Health))
	routers.Get("/state/preferences", http.HandlerFunc(stateController.GetPreferences))
	routers.Get("/state/notifications", http.HandlerFunc(stateController.GetNotifications))
	routers.Get("/state/insights", http.HandlerFunc(stateController.GetInsights))
	return routers
}
