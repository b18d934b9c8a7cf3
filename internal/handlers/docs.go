// docs.go serves the OpenAPI specification and a Swagger UI page.
//
// The OpenAPI 3.0 document is a hand-written YAML file embedded in the
// binary; Swagger UI itself is loaded from a CDN, so nothing is generated
// at build time.
package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

// openAPISpec is the OpenAPI 3.0 YAML specification embedded at compile time.
// Go Pattern: The `//go:embed` directive tells the compiler to include
// the file contents in the binary, so the file must exist at build time.
//
//go:embed openapi.yaml
var openAPISpec []byte

// ServeOpenAPISpec returns the raw OpenAPI YAML specification.
// GET /api/docs/openapi.yaml
func (h *Handler) ServeOpenAPISpec(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPISpec)
}

// swaggerPage loads Swagger UI and points it at the embedded spec.
const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Document Compare API - Documentation</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>
    body { margin: 0; background: #fafafa; }
    .swagger-ui .topbar { display: none; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/api/docs/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      deepLinking: true,
      defaultModelsExpandDepth: 2,
    });
  </script>
</body>
</html>`

// ServeSwaggerUI returns the documentation page.
// GET /api/docs
func (h *Handler) ServeSwaggerUI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
}
