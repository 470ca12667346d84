package api

import (
	"net/http"

	"bmu-backend/lib/scrapers/bmusite"
	"bmu-backend/services/auth"
	"bmu-backend/services/departments"
	"bmu-backend/services/student"

	"github.com/go-chi/chi/v5"
)

// Server exposes the scraped portal data as JSON. Every response uses
// the same envelope, success or not:
//
//	{"success": bool, "message": string, "data": ...}
//
// Authenticated routes carry the caller's portal cookies in the POST
// body as `session_cookies`, the server itself stores no sessions.
type Server struct {
	auth        auth.Service
	student     student.Service
	departments departments.Service
	site        *bmusite.Client
}

func NewServer(
	auth auth.Service,
	student student.Service,
	departments departments.Service,
	site *bmusite.Client,
) *Server {
	return &Server{
		auth:        auth,
		student:     student,
		departments: departments,
		site:        site,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "running",
			"message": "BMU API is active",
		})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/v2", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/google", s.handleGoogleAuth)
		r.Put("/auth/google", s.handleGoogleAuth)
		r.Post("/auth/session/validate", s.handleValidateSession)
		r.Post("/auth/logout", s.handleLogout)

		r.Post("/student/profile", s.handleProfile)
		r.Post("/student/attendance", s.handleAttendance)
		r.Post("/student/attendance/absent", s.handleAbsentDays)
		r.Post("/student/attendance/date", s.handleAttendanceByDate)
		r.Post("/student/fees", s.handleFeeHistory)
		r.Post("/student/fees/details", s.handleFeePosting)
		r.Post("/student/fees/receipt", s.handleReceipt)
		r.Post("/student/fees/pending", s.handlePendingFees)
		r.Post("/student/fees/pay", s.handleInitiatePayment)
		r.Post("/student/timetable", s.handleTimetable)
		r.Post("/student/lms", s.handleLmsDashboard)
		r.Post("/student/lms/subject", s.handleLmsSubject)
		r.Post("/student/lms/pdf", s.handleLmsPdf)
		r.Post("/student/lms/rating", s.handleLmsRating)
		r.Post("/student/dashboard", s.handleDashboard)

		r.Get("/public/info", s.handlePublicInfo)
		r.Get("/departments", s.handleListDepartments)
		r.Get("/departments/search", s.handleSearchDepartments)
		r.Post("/department/details", s.handleDepartmentDetails)
	})

	return r
}
