package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/db"
	"github.com/Skotchmaster/med_clinic/internal/middleware/auth"
	"github.com/Skotchmaster/med_clinic/internal/middleware/csrf"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/revalidate"
)

type Deps struct {
	DB    *gorm.DB
	Auth  *auth.Middleware
	Cache *revalidate.Revalidator
	// CSRF is nil when the double-submit check is disabled.
	CSRF *csrf.Config

	AuthHTTP        *AuthHTTP
	AppointmentHTTP *AppointmentHTTP
	DoctorHTTP      *DoctorHTTP
	BlogHTTP        *BlogHTTP
	CommentHTTP     *CommentHTTP
	ForumHTTP       *ForumHTTP
	ShopHTTP        *ShopHTTP
	CourseHTTP      *CourseHTTP
	ContentHTTP     *ContentHTTP
	UploadHTTP      *UploadHTTP
	SearchHTTP      *SearchHTTP
	MailHTTP        *MailHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	if d.CSRF != nil {
		api.Use(csrf.Middleware(*d.CSRF))
	}

	m := d.Auth
	cache := d.Cache.Cache
	staff := m.RequireRole(models.RoleAdmin, models.RoleDoctor)

	a := api.Group("/auth")
	a.POST("/register", d.AuthHTTP.Register)
	a.POST("/login", d.AuthHTTP.Login)
	a.POST("/refresh", d.AuthHTTP.Refresh)
	a.POST("/logout", d.AuthHTTP.Logout)
	a.GET("/session", d.AuthHTTP.Session, m.RequireAuth)

	appts := api.Group("/appointments")
	appts.POST("", d.AppointmentHTTP.Create, m.Optional)
	appts.GET("", d.AppointmentHTTP.List, staff)
	appts.GET("/me", d.AppointmentHTTP.ListOwn, m.RequireAuth)
	appts.GET("/:id", d.AppointmentHTTP.Get, m.RequireAuth)
	appts.PATCH("/:id", d.AppointmentHTTP.Patch, staff)
	appts.DELETE("/:id", d.AppointmentHTTP.Delete, m.RequireAdmin)

	docs := api.Group("/doctors")
	docs.GET("", d.DoctorHTTP.List, cache(revalidate.TagDoctors))
	docs.POST("", d.DoctorHTTP.Onboard, m.RequireAuth)
	docs.PUT("/me", d.DoctorHTTP.UpdateOwn, staff)
	docs.GET("/:id", d.DoctorHTTP.Get, cache(revalidate.TagDoctors))

	scopes := api.Group("/scopes")
	scopes.GET("", d.DoctorHTTP.ListScopes, cache(revalidate.TagScopes))
	scopes.POST("", d.DoctorHTTP.CreateScope, m.RequireAuth)
	scopes.DELETE("/:id", d.DoctorHTTP.DeleteScope, m.RequireAuth)

	cats := api.Group("/categories")
	cats.GET("", d.BlogHTTP.ListCategories, cache(revalidate.TagCategories))
	cats.GET("/:id", d.BlogHTTP.GetCategory, cache(revalidate.TagCategories))
	cats.POST("", d.BlogHTTP.CreateCategory, m.RequireAdmin)
	cats.PUT("/:id", d.BlogHTTP.UpdateCategory, m.RequireAdmin)
	cats.DELETE("/:id", d.BlogHTTP.DeleteCategory, m.RequireAdmin)

	tags := api.Group("/tags")
	tags.GET("", d.BlogHTTP.ListTags, cache(revalidate.TagTags))
	tags.POST("", d.BlogHTTP.CreateTag, m.RequireAdmin)

	posts := api.Group("/posts")
	posts.GET("", d.BlogHTTP.ListPosts, m.Optional, cache(revalidate.TagPosts))
	posts.GET("/:slug", d.BlogHTTP.GetPost, m.Optional, cache(revalidate.TagPosts))
	posts.POST("", d.BlogHTTP.CreatePost, staff)
	posts.PUT("/:id", d.BlogHTTP.UpdatePost, m.RequireAuth)
	posts.DELETE("/:id", d.BlogHTTP.DeletePost, m.RequireAuth)

	comments := api.Group("/comments")
	comments.GET("", d.CommentHTTP.Tree, cache(revalidate.TagComments))
	comments.POST("", d.CommentHTTP.Create, m.RequireAuth)
	comments.DELETE("/:id", d.CommentHTTP.Delete, m.RequireAuth)

	forum := api.Group("/forum")
	forum.GET("/categories", d.ForumHTTP.ListCategories, cache(revalidate.TagForum))
	forum.GET("/categories/:slug", d.ForumHTTP.CategoryPage, m.Optional, cache(revalidate.TagForum, revalidate.TagForumTopics))
	forum.POST("/categories", d.ForumHTTP.CreateCategory, m.RequireAdmin)
	forum.GET("/topics", d.ForumHTTP.ListTopics, m.Optional, cache(revalidate.TagForumTopics))
	forum.POST("/topics", d.ForumHTTP.CreateTopic, m.RequireAuth)
	forum.GET("/topics/:slug", d.ForumHTTP.Thread, m.Optional)
	forum.PATCH("/topics/:slug", d.ForumHTTP.Moderate, m.RequireAdmin)
	forum.POST("/topics/:slug/posts", d.ForumHTTP.Reply, m.RequireAuth)
	forum.PATCH("/posts/:id/accept", d.ForumHTTP.Accept, m.RequireAuth)
	forum.POST("/vote", d.ForumHTTP.Vote, m.RequireAuth)

	books := api.Group("/books")
	books.GET("", d.ShopHTTP.ListBooks, cache(revalidate.TagBooks))
	books.GET("/:id", d.ShopHTTP.GetBook, cache(revalidate.TagBooks))
	books.POST("", d.ShopHTTP.CreateBook, m.RequireAdmin)
	books.PUT("/:id", d.ShopHTTP.UpdateBook, m.RequireAdmin)
	books.DELETE("/:id", d.ShopHTTP.DeleteBook, m.RequireAdmin)

	cart := api.Group("/cart", m.RequireAuth)
	cart.GET("", d.ShopHTTP.GetCart)
	cart.POST("", d.ShopHTTP.AddToCart)
	cart.DELETE("", d.ShopHTTP.ClearCart)
	cart.POST("/checkout", d.ShopHTTP.Checkout)
	cart.PUT("/:id", d.ShopHTTP.SetQuantity)
	cart.DELETE("/:id", d.ShopHTTP.RemoveItem)

	orders := api.Group("/orders")
	orders.GET("", d.ShopHTTP.ListOrders, m.RequireAuth)
	orders.PATCH("/:id", d.ShopHTTP.UpdateOrderStatus, m.RequireAdmin)

	courses := api.Group("/courses")
	courses.GET("", d.CourseHTTP.List, m.Optional, cache(revalidate.TagCourses))
	courses.GET("/:id", d.CourseHTTP.Get, m.Optional, cache(revalidate.TagCourses))
	courses.POST("", d.CourseHTTP.Create, m.RequireAdmin)
	courses.PUT("/:id", d.CourseHTTP.Update, m.RequireAdmin)
	courses.DELETE("/:id", d.CourseHTTP.Delete, m.RequireAdmin)
	courses.POST("/:id/orders", d.CourseHTTP.Order, m.RequireAuth)

	courseOrders := api.Group("/course-orders")
	courseOrders.GET("", d.CourseHTTP.ListOrders, m.RequireAuth)
	courseOrders.PATCH("/:id", d.CourseHTTP.UpdateOrderStatus, m.RequireAdmin)

	galleries := api.Group("/galleries")
	galleries.GET("", d.ContentHTTP.ListGalleries, m.Optional, cache(revalidate.TagGalleries))
	galleries.POST("", d.ContentHTTP.CreateGallery, m.RequireAdmin)
	galleries.DELETE("/:id", d.ContentHTTP.DeleteGallery, m.RequireAdmin)

	banners := api.Group("/banners")
	banners.GET("", d.ContentHTTP.ListBanners, m.Optional, cache(revalidate.TagBanners))
	banners.PUT("/reorder", d.ContentHTTP.ReorderBanners, m.RequireAdmin)
	banners.GET("/:id", d.ContentHTTP.GetBanner, cache(revalidate.TagBanners))
	banners.POST("", d.ContentHTTP.CreateBanner, m.RequireAdmin)
	banners.PUT("/:id", d.ContentHTTP.UpdateBanner, m.RequireAdmin)
	banners.DELETE("/:id", d.ContentHTTP.DeleteBanner, m.RequireAdmin)

	notices := api.Group("/notices")
	notices.GET("", d.ContentHTTP.ListNotices, m.Optional, cache(revalidate.TagNotices))
	notices.GET("/:id", d.ContentHTTP.GetNotice, m.Optional, cache(revalidate.TagNotices))
	notices.POST("", d.ContentHTTP.CreateNotice, m.RequireAdmin)
	notices.PATCH("/:id", d.ContentHTTP.UpdateNotice, m.RequireAdmin)
	notices.DELETE("/:id", d.ContentHTTP.DeleteNotice, m.RequireAdmin)

	students := api.Group("/students", m.RequireAdmin)
	students.GET("", d.ContentHTTP.ListStudents)
	students.GET("/:id", d.ContentHTTP.GetStudent)
	students.POST("", d.ContentHTTP.CreateStudent)
	students.PUT("/:id", d.ContentHTTP.UpdateStudent)
	students.DELETE("/:id", d.ContentHTTP.DeleteStudent)

	api.POST("/upload", d.UploadHTTP.Upload, m.RequireAuth)
	api.GET("/search", d.SearchHTTP.Search, cache(revalidate.TagSearch))
	api.POST("/mail/test", d.MailHTTP.SendTest, m.RequireAdmin)
}
