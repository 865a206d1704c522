package httpserver

import "github.com/labstack/echo/v4"

// Response classes for edge/browser caching. Each preset mirrors how long
// the payload stays useful: catalog lists rarely move, search results churn,
// anything keyed to a user never leaves the browser.
const (
	cacheClassStatic  = "static"
	cacheClassDynamic = "dynamic"
	cacheClassAPI     = "api"
	cacheClassUser    = "user"
)

// applyCacheHeaders sets the Cache-Control preset for the given response
// class on the outgoing response.
func applyCacheHeaders(c echo.Context, class string) {
	h := c.Response().Header()
	switch class {
	case cacheClassStatic:
		h.Set("Cache-Control", "public, max-age=3600, s-maxage=7200")
		h.Set("CDN-Cache-Control", "public, max-age=7200")
		h.Set("Vary", "Accept-Encoding")
	case cacheClassDynamic:
		h.Set("Cache-Control", "public, max-age=300, s-maxage=900")
		h.Set("CDN-Cache-Control", "public, max-age=900")
		h.Set("Vary", "Accept-Encoding, User-Agent")
	case cacheClassAPI:
		h.Set("Cache-Control", "public, max-age=60, s-maxage=300")
		h.Set("CDN-Cache-Control", "public, max-age=300")
		h.Set("Vary", "Accept, Authorization")
	case cacheClassUser:
		h.Set("Cache-Control", "private, max-age=300")
		h.Set("Vary", "Authorization")
	}
}

// noCacheHeaders disables caching entirely; used by the tracking pixel so
// every render reaches the server.
func noCacheHeaders(c echo.Context) {
	h := c.Response().Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
