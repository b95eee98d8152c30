package server

//go:generate swag init -g swagger.go -o docs --parseDependency --parseInternal

// @title seolens API
// @version 1.0
// @description Page audits, audit history, comparisons and PDF reports.
// @contact.name seolens maintainers
// @contact.url https://github.com/raysh454/seolens
// @BasePath /v1/api
// @securityDefinitions.apikey OwnerID
// @in header
// @name X-Owner-ID
