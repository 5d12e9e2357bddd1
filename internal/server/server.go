// Package server exposes the assistant over a JSON API and serves the
// browser chat page.
package server

import (
	_ "embed"
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/longkey1/healthbot/internal/version"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

//go:embed web/index.html
var indexHTML []byte

const APIDocsPath = "/apidocs.json"

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Healthbot API",
			Description: "General health information assistant with a safety keyword filter",
			Version:     version.Short(),
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "sessions", Description: "Conversation lifecycle"}},
		{TagProps: spec.TagProps{Name: "chat", Description: "Conversation turns"}},
	}
}

// NewContainer registers the API, its OpenAPI document and the chat page.
func NewContainer(handler *Handler, logger *zerolog.Logger) *restful.Container {
	container := restful.NewContainer()

	container.Filter(Logger(logger))
	container.Filter(RecoverPanic(logger))

	RegisterRoutes(container, handler)

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       APIDocsPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}))

	container.Handle("/", http.HandlerFunc(serveIndex))

	return container
}

// NewHTTPHandler wraps container with CORS for the given origins.
func NewHTTPHandler(container *restful.Container, allowedOrigins []string) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return corsHandler.Handler(container)
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
