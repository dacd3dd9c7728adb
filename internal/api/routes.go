package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/api/middleware"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/descriptions").
			To(handler.GenerateDescriptions).
			Doc("Generate tiered descriptions with retries").
			Metadata(restfulspec.KeyOpenAPITags, []string{"descriptions"}).
			Param(ws.QueryParameter("strict", "Promote validation warnings to errors (default: false)").DataType("boolean").Required(false)).
			Reads(models.GenerationRequest{}).
			Writes(DescriptionsResponse{}).
			Returns(200, "OK", DescriptionsResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(502, "No Usable Result", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/validate").
			To(handler.ValidateDescriptions).
			Doc("Validate supplied descriptions without generating").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Param(ws.QueryParameter("strict", "Promote validation warnings to errors (default: false)").DataType("boolean").Required(false)).
			Reads(ValidationRequest{}).
			Writes(ValidationResponse{}).
			Returns(200, "OK", ValidationResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/outcomes").
			To(handler.RecentOutcomes).
			Doc("List recently persisted generation runs").
			Metadata(restfulspec.KeyOpenAPITags, []string{"outcomes"}).
			Param(ws.QueryParameter("limit", "Maximum rows to return (default: 20, max: 100)").DataType("integer").Required(false)).
			Writes(OutcomesResponse{}).
			Returns(200, "OK", OutcomesResponse{}).
			Returns(503, "Store Not Configured", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/tiers").
			To(handler.Tiers).
			Doc("List tier length contracts").
			Metadata(restfulspec.KeyOpenAPITags, []string{"tiers"}).
			Writes(TiersResponse{}).
			Returns(200, "OK", TiersResponse{}))

	container.Add(ws)
}
