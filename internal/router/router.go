package router

import (
	"github.com/labstack/echo/v4"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/handlers"
)

const apiPrefix = "/api/v1"

// SetupUserRoutes mounts /api/v1/user. auth guards every route except signup and signin.
func SetupUserRoutes(e *echo.Echo, userHandler *handlers.UserHandler, auth ...echo.MiddlewareFunc) {
	user := e.Group(apiPrefix + "/user")

	user.POST("/signup", userHandler.Signup)
	user.POST("/signin", userHandler.Signin)

	// Per-route middleware keeps unknown /user paths a plain 404.
	user.GET("/me", userHandler.Me, auth...)
	user.PUT("/password", userHandler.ChangePassword, auth...)
	user.POST("/signout", userHandler.Signout, auth...)
	user.POST("/signout-all", userHandler.SignoutAll, auth...)
}

// SetupBlogRoutes mounts /api/v1/blog behind auth.
func SetupBlogRoutes(e *echo.Echo, blogHandler *handlers.BlogHandler, auth ...echo.MiddlewareFunc) {
	blog := e.Group(apiPrefix+"/blog", auth...)

	blog.POST("", blogHandler.CreatePost)
	blog.POST("/", blogHandler.CreatePost)
	blog.GET("/bulk", blogHandler.ListPosts)
	blog.GET("/:id", blogHandler.GetPost)
	blog.PUT("/:id", blogHandler.UpdatePost)
	blog.DELETE("/:id", blogHandler.DeletePost)
}
