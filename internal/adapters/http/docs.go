package http

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
)

// DefaultOpenAPIPath is where the contract lives relative to the repository root.
const DefaultOpenAPIPath = "api/openapi.yaml"

// The explorer sends the session cookie with try-it-out calls and keeps a pasted
// bearer token across reloads, so both auth schemes in the contract work from the page.
const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Trailhead API · Explorer</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>body{margin:0;background:#f6f8f4}.swagger-ui .topbar{display:none}</style>
</head>
<body>
  <div id="explorer"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#explorer',
      deepLinking: true,
      docExpansion: 'list',
      tagsSorter: 'alpha',
      operationsSorter: 'method',
      filter: true,
      persistAuthorization: true,
      withCredentials: true,
      displayRequestDuration: true,
      presets: [SwaggerUIBundle.presets.apis],
    });
  </script>
</body>
</html>`

// SetupDocs registers the API explorer at /docs and the OpenAPI contract at
// /docs/openapi.yaml, read from specPath on every request.
func SetupDocs(app *fiber.App, specPath string) {
	if specPath == "" {
		specPath = DefaultOpenAPIPath
	}

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(swaggerUIHTML)
	})

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		data, err := os.ReadFile(specPath)
		if errors.Is(err, fs.ErrNotExist) {
			return errNotFound(c, "API contract is not bundled with this build")
		}
		if err != nil {
			slog.ErrorContext(c.UserContext(), "read openapi contract", "path", specPath, "error", err)
			return errInternal(c, "could not read API contract")
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		return c.Send(data)
	})
}
