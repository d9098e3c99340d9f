package endpoints

import (
	"github.com/jackzampolin/fraglab/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// SwaggerInstance selects the registered OpenAPI doc.
	SwaggerInstance string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Source endpoints
		&LoadSourceEndpoint{},
		&UploadSourceEndpoint{},
		&ClearSourceEndpoint{},

		// Structure endpoints
		&GetStructureEndpoint{},
		&MoveEndpoint{},
		&DropEndpoint{},
		&ResetStructureEndpoint{},

		// Filler endpoints
		&InsertFillerEndpoint{},
		&RemoveFillerEndpoint{},
		&ClearFillersEndpoint{},

		// Analysis endpoints
		&SubmitEndpoint{},
		&AnalyzeEndpoint{},
		&ReanalyzeEndpoint{},
		&JPEGInfoEndpoint{},

		// Run endpoints
		&ListRunsEndpoint{},
		&GetRunEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{InstanceName: cfg.SwaggerInstance},
		&SwaggerUIEndpoint{},
	}
}
