package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/sonar-sweep/internal/api/middleware"
	"github.com/povarna/sonar-sweep/internal/models"
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
		Route(ws.POST("/sweeps").
			To(handler.Sweep).
			Doc("Classify depth measurements against their predecessors").
			Metadata(restfulspec.KeyOpenAPITags, []string{"sweeps"}).
			Reads(models.SweepRequest{}).
			Writes(models.Report{}).
			Returns(200, "OK", models.Report{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(413, "Too Many Measurements", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/sweeps/{id}").
			To(handler.GetSweep).
			Doc("Fetch a stored sweep summary").
			Metadata(restfulspec.KeyOpenAPITags, []string{"sweeps"}).
			Param(ws.PathParameter("id", "Report id").DataType("string")).
			Writes(models.Report{}).
			Returns(200, "OK", models.Report{}).
			Returns(404, "Report Not Found", middleware.ErrorResponse{}).
			Returns(503, "Store Unavailable", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/course").
			To(handler.Course).
			Doc("Plot a course from dive instructions").
			Metadata(restfulspec.KeyOpenAPITags, []string{"course"}).
			Reads(models.CourseRequest{}).
			Writes(models.CourseResult{}).
			Returns(200, "OK", models.CourseResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	container.Add(ws)
}
