package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/library-server/internal/middleware"
	"github.com/library-server/internal/model"
)

// NewRouter creates a new HTTP router with all routes
func NewRouter(h *Handler, auth *middleware.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	staff := auth.RequireRoles(model.RoleAdmin, model.RoleLibrarian)
	admin := auth.RequireRoles(model.RoleAdmin)
	librarian := auth.RequireRoles(model.RoleLibrarian)

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Public routes
	mux.HandleFunc("POST /api/v1/users/login", h.Login)
	mux.HandleFunc("GET /api/v1/books", h.GetBooks)
	mux.HandleFunc("GET /api/v1/books/{id}", h.GetBook)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Patron management, staff only
	mux.Handle("POST /api/v1/users/patrons", auth.Authenticate(staff(http.HandlerFunc(h.CreatePatron))))
	mux.Handle("GET /api/v1/users/patrons", auth.Authenticate(staff(http.HandlerFunc(h.GetPatrons))))
	mux.Handle("GET /api/v1/users/patrons/{id}", auth.Authenticate(staff(http.HandlerFunc(h.GetPatron))))

	// Catalog mutations, admin only
	mux.Handle("POST /api/v1/books", auth.Authenticate(admin(http.HandlerFunc(h.CreateBook))))
	mux.Handle("DELETE /api/v1/books/{id}", auth.Authenticate(admin(http.HandlerFunc(h.DeleteBook))))

	// Lending, librarian only
	mux.Handle("POST /api/v1/issues", auth.Authenticate(librarian(http.HandlerFunc(h.CreateIssue))))
	mux.Handle("GET /api/v1/issues", auth.Authenticate(librarian(http.HandlerFunc(h.GetIssues))))
	mux.Handle("PUT /api/v1/issues/{id}", auth.Authenticate(librarian(http.HandlerFunc(h.DeactivateIssue))))

	// Apply global middleware
	handler := middleware.CORS(middleware.JSON(middleware.Logger(mux)))

	return handler
}
