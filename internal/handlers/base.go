package handlers

import (
	"encoding/gob"

	"bantu/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash is a one-shot notice carried through the session across a redirect,
// rendered once by the next page.
type Flash struct {
	Category string // success, info, danger
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Date formats used by the JSON endpoints.
const (
	commentTimeLayout = "Jan 02, 2006"
	feedTimeLayout    = "Jan 02, 2006 03:04 PM"
)

// Render injects common variables (current user, pending flashes) before
// rendering an HTML view.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}

	session := sessions.Default(c)
	if flashes := session.Flashes(); len(flashes) > 0 {
		session.Save()
		obj["Flashes"] = flashes
	}

	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// AddFlash queues a notice for the page rendered after the next redirect.
func AddFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(Flash{Category: category, Message: message})
	session.Save()
}
