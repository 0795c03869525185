package router

import "github.com/gin-gonic/gin"

func registerAuthRoutes(api *gin.RouterGroup, h Handlers) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/verify-email/:token", h.Auth.VerifyEmail)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)

		// Session-guarded; each hit renews the session window.
		auth.GET("/me", h.Guard.RequireSession(), h.Auth.Me)
	}
}
