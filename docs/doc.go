// Package docs provides generated OpenAPI documentation.
//
// fraglab API
//
//	@title			fraglab API
//	@version		1.0
//	@description	Compose fragmented-file structures, submit them to the Analysis Service and reconcile detected boundaries against ground truth.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/fraglab
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8090
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g ../cmd/fraglab/serve.go -o ./swagger --parseDependency --parseInternal
