package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/headta/internal/app/controllers"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/middleware"
)

// Controllers groups the HTTP handlers mounted under /api/v1
type Controllers struct {
	Auth       *controllers.AuthController
	Invitation *controllers.InvitationController
	User       *controllers.UserController
	Tree       *controllers.TreeController
	Directory  *controllers.DirectoryController
	Course     *controllers.CourseController
	Professor  *controllers.ProfessorController
	Offering   *controllers.OfferingController
	Admin      *controllers.AdminController
}

// SetupRouter configures all application routes.
// authLimiter may be nil to disable rate limiting on the auth endpoints.
func SetupRouter(
	router *gin.Engine,
	c *Controllers,
	authMiddleware *middleware.AuthMiddleware,
	authLimiter gin.HandlerFunc,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	if authLimiter != nil {
		auth.Use(authLimiter)
	}
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
		auth.GET("/invitations/:token", c.Auth.PreviewInvitation)
		auth.POST("/signup", c.Auth.Signup)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), authMiddleware.ActiveAccountRequired())

	users := authenticated.Group("/users")
	{
		users.GET("/me", c.Auth.GetProfile)
		users.GET("/me/claim-candidates", c.User.GetClaimCandidates)
		users.POST("/me/claim", c.User.ClaimProfile)
		users.GET("/:id", c.User.GetUser)
		users.GET("/:id/assignments", c.User.GetUserAssignments)
	}

	invitations := authenticated.Group("/invitations")
	{
		invitations.POST("", c.Invitation.CreateInvitation)
		invitations.GET("", c.Invitation.ListMyInvitations)
		invitations.DELETE("/:id", c.Invitation.RevokeInvitation)
	}

	authenticated.GET("/invitation-tree", c.Tree.GetInvitationTree)

	directory := authenticated.Group("/directory")
	{
		directory.GET("/users", c.Directory.ListUsers)
		directory.GET("/search", c.Directory.Search)
		directory.GET("/courses/:id/head-tas", c.Directory.HeadTAsForCourse)
	}

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	courses := authenticated.Group("/courses")
	{
		courses.GET("", c.Course.GetAllCourses)
		courses.GET("/:id", c.Course.GetCourse)
		courses.GET("/:id/offerings", c.Course.GetCourseOfferings)
		courses.GET("/:id/prediction", c.Course.PredictOffering)

		courses.POST("", adminOnly, c.Course.CreateCourse)
		courses.PUT("/:id", adminOnly, c.Course.UpdateCourse)
		courses.DELETE("/:id", adminOnly, c.Course.DeleteCourse)
	}

	professors := authenticated.Group("/professors")
	{
		professors.GET("", c.Professor.GetAllProfessors)
		professors.GET("/:id", c.Professor.GetProfessor)

		professors.POST("", adminOnly, c.Professor.CreateProfessor)
		professors.PUT("/:id", adminOnly, c.Professor.UpdateProfessor)
		professors.DELETE("/:id", adminOnly, c.Professor.DeleteProfessor)
	}

	offerings := authenticated.Group("/offerings")
	{
		offerings.GET("", c.Offering.GetAllOfferings)
		offerings.GET("/:id", c.Offering.GetOffering)
		offerings.GET("/:id/assignments", c.Offering.GetOfferingAssignments)

		offerings.POST("", adminOnly, c.Offering.CreateOffering)
		offerings.DELETE("/:id", adminOnly, c.Offering.DeleteOffering)
	}

	// Ownership checks for assignments live in the service
	assignments := authenticated.Group("/assignments")
	{
		assignments.POST("", c.Offering.CreateAssignment)
		assignments.DELETE("/:id", c.Offering.DeleteAssignment)
	}

	admin := authenticated.Group("/admin")
	admin.Use(adminOnly)
	{
		admin.GET("/stats", c.Admin.GetStats)
		admin.GET("/placeholders", c.Admin.ListPlaceholders)
		admin.POST("/placeholders", c.Admin.CreatePlaceholder)
		admin.POST("/claims", c.Admin.ClaimOnBehalf)
		admin.POST("/users/:id/activate", c.Admin.ActivateUser)
		admin.POST("/users/:id/deactivate", c.Admin.DeactivateUser)
	}
}
