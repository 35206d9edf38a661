package api

import (
	"github.com/ateliermistral/site-backend/database"
	"github.com/ateliermistral/site-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, projectService services.ProjectService, sessions SessionManager, notifier *services.ContactNotifier) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(database.ProjectRepo(), projectService),
		contactHandler: newContactHandler(database.ContactRepo(), notifier),
		authHandler:    newAuthHandler(sessions),
	}
}
