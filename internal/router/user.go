package router

import (
	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gin-gonic/gin"
)

func registerUserRoutes(api *gin.RouterGroup, h Handlers) {
	admin := []constants.Role{constants.RoleAdmin}
	staff := []constants.Role{constants.RoleAdmin, constants.RoleStoreKeeper, constants.RoleCompta}

	users := api.Group("/users", h.Guard.RequireAuth())
	{
		users.GET("", h.Guard.RequireRoles(staff...), h.User.List)
		users.GET("/:id", h.Guard.RequireRoles(staff...), h.User.Get)
		users.PUT("/:id", h.Guard.RequireRoles(admin...), h.User.Update)
		users.PUT("/:id/password", h.Guard.RequireRoles(admin...), h.User.UpdatePassword)
		users.DELETE("/:id", h.Guard.RequireRoles(admin...), h.User.Delete)
	}
}
