package api

import (
	"encoding/base64"
	"net/http"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	profile, err := s.student.Profile(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Profile fetched successfully.", profile)
}

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	attendance, err := s.student.Attendance(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Attendance fetched successfully.", attendance)
}

func (s *Server) handleAbsentDays(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		SelectedSemester string `json:"selected_semester"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	absent, err := s.student.AbsentDays(r.Context(), session, body.SelectedSemester)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Absent days fetched successfully.", absent)
}

func (s *Server) handleAttendanceByDate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		AttendanceDate string `json:"attendance_date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}
	if body.AttendanceDate == "" {
		writeFailure(w, http.StatusBadRequest, "Missing 'attendance_date' in request body.")
		return
	}

	detail, err := s.student.AttendanceByDate(r.Context(), session, body.AttendanceDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Attendance details fetched successfully.", detail)
}

func (s *Server) handleFeeHistory(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	fees, err := s.student.FeeHistory(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Fee history fetched successfully.", fees)
}

func (s *Server) handleFeePosting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		FeePostingId string `json:"fee_posting_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}
	if body.FeePostingId == "" {
		writeFailure(w, http.StatusBadRequest, "Missing 'fee_posting_id' in request body.")
		return
	}

	posting, err := s.student.FeePosting(r.Context(), session, body.FeePostingId)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Fee posting details fetched successfully.", posting)
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		ReceiptIdentifier string `json:"receipt_identifier"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}
	if body.ReceiptIdentifier == "" {
		writeFailure(w, http.StatusBadRequest, "Missing 'receipt_identifier' in request body.")
		return
	}

	receipt, err := s.student.Receipt(r.Context(), session, body.ReceiptIdentifier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Receipt downloaded successfully.", map[string]any{
		"filename":     receipt.Filename,
		"file_base64":  base64.StdEncoding.EncodeToString(receipt.Content),
		"content_type": "application/pdf",
	})
}

func (s *Server) handlePendingFees(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	pending, err := s.student.PendingFees(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Pending fees fetched successfully.", pending)
}

func (s *Server) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	payment, err := s.student.InitiatePayment(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, payment.Message, payment)
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		TimetableDate string `json:"timetable_date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	timetable, err := s.student.Timetable(r.Context(), session, body.TimetableDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Timetable fetched successfully.", timetable)
}

func (s *Server) handleLmsDashboard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		Semester string `json:"semester"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	dashboard, err := s.student.LmsDashboard(r.Context(), session, body.Semester)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "LMS dashboard fetched successfully.", dashboard)
}

func (s *Server) handleLmsSubject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		Path string `json:"path"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}
	if body.Path == "" {
		writeFailure(w, http.StatusBadRequest, "Missing 'path' in request body.")
		return
	}

	subject, err := s.student.LmsSubject(r.Context(), session, body.Path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Subject details fetched successfully.", subject)
}

func (s *Server) handleLmsPdf(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		PostbackId string `json:"postback_id"`
		FormAction string `json:"form_action"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}
	if body.PostbackId == "" || body.FormAction == "" {
		writeFailure(w, http.StatusBadRequest, "Missing 'postback_id' or 'form_action' in request body.")
		return
	}

	pdf, err := s.student.LmsPdf(r.Context(), session, body.PostbackId, body.FormAction)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "PDF fetched successfully.", map[string]any{
		"pdf_base64": base64.StdEncoding.EncodeToString(pdf.Content),
	})
}

func (s *Server) handleLmsRating(w http.ResponseWriter, r *http.Request) {
	var body struct {
		sessionBody
		Path       string `json:"path"`
		PostbackId string `json:"postback_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}
	if body.Path == "" || body.PostbackId == "" {
		writeFailure(w, http.StatusBadRequest, "Missing 'path' or 'postback_id' in request body.")
		return
	}

	submitted, err := s.student.RateContent(r.Context(), session, body.Path, body.PostbackId)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !submitted {
		writeFailure(w, http.StatusInternalServerError, "Failed to submit rating.")
		return
	}
	writeData(w, "Rating submitted successfully.", nil)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	dashboard, err := s.student.Dashboard(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Dashboard fetched successfully.", dashboard)
}
