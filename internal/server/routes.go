package server

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	sessionID := ws.PathParameter("session_id", "Session identifier").DataType("string")

	// Health endpoint
	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/sessions").
			To(handler.CreateSession).
			Doc("Start a conversation").
			Metadata(restfulspec.KeyOpenAPITags, []string{"sessions"}).
			Writes(SessionResponse{}).
			Returns(201, "Created", SessionResponse{}))

	ws.
		Route(ws.GET("/sessions/{session_id}/messages").
			To(handler.History).
			Doc("Conversation history").
			Metadata(restfulspec.KeyOpenAPITags, []string{"sessions"}).
			Param(sessionID).
			Writes(HistoryResponse{}).
			Returns(200, "OK", HistoryResponse{}).
			Returns(404, "Session Not Found", ErrorResponse{}))

	ws.
		Route(ws.POST("/sessions/{session_id}/messages").
			To(handler.SendMessage).
			Doc("Send a message and receive the reply").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Param(sessionID).
			Reads(MessageRequest{}).
			Writes(MessageResponse{}).
			Returns(200, "OK", MessageResponse{}).
			Returns(400, "Bad Request", ErrorResponse{}).
			Returns(404, "Session Not Found", ErrorResponse{}).
			Returns(502, "Model Unavailable", ErrorResponse{}).
			Returns(504, "Model Timeout", ErrorResponse{}))

	ws.
		Route(ws.DELETE("/sessions/{session_id}").
			To(handler.DeleteSession).
			Doc("End a conversation").
			Metadata(restfulspec.KeyOpenAPITags, []string{"sessions"}).
			Param(sessionID).
			Returns(204, "No Content", nil).
			Returns(404, "Session Not Found", ErrorResponse{}))

	container.Add(ws)
}
