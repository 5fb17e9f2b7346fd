package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// handle registers path and its trailing-slash twin on the same handler, so
// "/users/" is served directly instead of redirected. The router must run
// with RedirectTrailingSlash disabled.
func handle(rg gin.IRoutes, method, path string, h gin.HandlerFunc) {
	rg.Handle(method, path, h)
	if path != "/" && !strings.HasSuffix(path, "/") {
		rg.Handle(method, path+"/", h)
	}
}
