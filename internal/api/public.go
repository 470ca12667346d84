package api

import (
	"net/http"
)

func (s *Server) handlePublicInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.site.FetchPublicInfo(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Public information fetched successfully.", info)
}

func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := s.departments.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Departments fetched successfully.", departments)
}

func (s *Server) handleSearchDepartments(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeFailure(w, http.StatusBadRequest, "Missing 'name' query parameter.")
		return
	}

	results, err := s.departments.Search(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Departments searched successfully.", results)
}

func (s *Server) handleDepartmentDetails(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BmuId int64 `json:"bmu_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.BmuId == 0 {
		writeFailure(w, http.StatusBadRequest, "bmu_id is required.")
		return
	}

	details, err := s.departments.Details(r.Context(), body.BmuId)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Department details fetched successfully (live).", details)
}
