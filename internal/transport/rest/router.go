package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/talentgrid/hiring-management/internal/auth"
	"github.com/talentgrid/hiring-management/internal/candidate"
	"github.com/talentgrid/hiring-management/internal/interview"
	"github.com/talentgrid/hiring-management/internal/jobrequest"
	"github.com/talentgrid/hiring-management/internal/notification"
	"github.com/talentgrid/hiring-management/internal/organization"
	"github.com/talentgrid/hiring-management/internal/sitestaff"
	"github.com/talentgrid/hiring-management/internal/ticket"
	"github.com/talentgrid/hiring-management/internal/transport/middleware"
	"github.com/talentgrid/hiring-management/internal/transport/swagger"
	"github.com/talentgrid/hiring-management/internal/user"
)

type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Organization *organization.Handler
	JobRequest   *jobrequest.Handler
	Candidate    *candidate.Handler
	Interview    *interview.Handler
	Ticket       *ticket.Handler
	SiteStaff    *sitestaff.Handler
	Notification *notification.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", handlers.Auth.Register)
			sr.Post("/login", handlers.Auth.Login)
			sr.Post("/refresh", handlers.Auth.RefreshToken)
		})

		// token redemption happens before the invitee has credentials
		r.Post("/invitations/accept", handlers.Organization.AcceptInvitation)

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			pr.Get("/users/me", handlers.User.Me)
			pr.Patch("/users/me", handlers.User.UpdateMe)

			pr.Route("/organizations", func(or chi.Router) {
				or.Get("/", handlers.Organization.ListAll)
				or.Route("/{orgID}", func(sr chi.Router) {
					sr.Get("/", handlers.Organization.Get)
					sr.Patch("/", handlers.Organization.Update)
					sr.Patch("/status", handlers.Organization.SetStatus)

					sr.Route("/departments", func(dr chi.Router) {
						dr.Post("/", handlers.Organization.CreateDepartment)
						dr.Get("/", handlers.Organization.ListDepartments)
						dr.Delete("/{departmentID}", handlers.Organization.DeleteDepartment)
					})

					sr.Get("/members", handlers.Organization.ListMembers)

					sr.Route("/invitations", func(ir chi.Router) {
						ir.Post("/", handlers.Organization.CreateInvitation)
						ir.Get("/", handlers.Organization.ListInvitations)
						ir.Patch("/{invitationID}", handlers.Organization.ReviewInvitation)
					})

					sr.Route("/job-requests", func(jr chi.Router) {
						jr.Post("/", handlers.JobRequest.Create)
						jr.Get("/", handlers.JobRequest.List)
						jr.Get("/statistics", handlers.JobRequest.Statistics)
					})

					sr.Get("/site-staff", handlers.SiteStaff.List)
				})
			})

			pr.Route("/job-requests", func(jr chi.Router) {
				jr.Get("/{id}", handlers.JobRequest.Get)
				jr.Patch("/{id}", handlers.JobRequest.Update)
				jr.Patch("/{id}/status", handlers.JobRequest.UpdateStatus)
				jr.Post("/{jobRequestID}/assign-hr", handlers.JobRequest.AssignHR)
				jr.Post("/{jobRequestID}/candidates", handlers.JobRequest.PushCandidates)
				jr.Get("/{jobRequestID}/candidates", handlers.Candidate.ListByJobRequest)
			})

			pr.Route("/candidates", func(cr chi.Router) {
				cr.Get("/pool", handlers.Candidate.ListPool)
				cr.Get("/{id}", handlers.Candidate.Get)
				cr.Patch("/{id}/status", handlers.Candidate.UpdateStatus)
			})

			pr.Route("/interviews", func(ir chi.Router) {
				ir.Post("/", handlers.Interview.Create)
				ir.Get("/", handlers.Interview.List)
				ir.Get("/{id}", handlers.Interview.Get)
				ir.Patch("/{id}", handlers.Interview.Update)
				ir.Post("/{id}/participants", handlers.Interview.AddParticipant)
				ir.Delete("/{id}/participants/{userID}", handlers.Interview.RemoveParticipant)
			})

			pr.Route("/tickets", func(tr chi.Router) {
				tr.Post("/", handlers.Ticket.Create)
				tr.Get("/mine", handlers.Ticket.ListMine)
				tr.Get("/assigned", handlers.Ticket.ListAssigned)
				tr.Get("/", handlers.Ticket.ListAll)
				tr.Get("/{id}", handlers.Ticket.Get)
				tr.Post("/{id}/assign", handlers.Ticket.Assign)
				tr.Patch("/{id}/status", handlers.Ticket.UpdateStatus)
				tr.Post("/{id}/messages", handlers.Ticket.PostMessage)
				tr.Get("/{id}/messages", handlers.Ticket.ListMessages)
			})

			pr.Post("/site-staff/{id}/resign", handlers.SiteStaff.Resign)

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", handlers.Notification.List)
				nr.Patch("/{id}/read", handlers.Notification.MarkRead)
				nr.Patch("/read-all", handlers.Notification.MarkAllRead)
			})
		})
	})
}
