package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type UserHandler struct {
	app *pocketbase.PocketBase
}

func NewUserHandler(app *pocketbase.PocketBase) *UserHandler {
	return &UserHandler{app: app}
}

// Me - Return the authenticated user's profile. Registration and password
// auth are handled by the built-in users auth collection.
func (h *UserHandler) Me(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"id":       e.Auth.Id,
		"email":    e.Auth.GetString("email"),
		"username": e.Auth.GetString("username"),
	})
}
