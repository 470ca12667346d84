package student

import (
	"context"

	"bmu-backend/lib/scrapers/gnums"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/student")

// Service turns a caller-held Session plus request parameters into the
// portal's typed records. It owns no state, the caller is the session
// store.
type Service struct {
	portal *gnums.Client
}

func NewService(portal *gnums.Client) Service {
	return Service{portal: portal}
}

func (s Service) Profile(ctx context.Context, session gnums.Session) (gnums.Profile, error) {
	ctx, span := tracer.Start(ctx, "Profile")
	defer span.End()

	out, err := s.portal.FetchProfile(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) Attendance(ctx context.Context, session gnums.Session) (gnums.AttendanceSummary, error) {
	ctx, span := tracer.Start(ctx, "Attendance")
	defer span.End()

	out, err := s.portal.FetchAttendance(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) AbsentDays(ctx context.Context, session gnums.Session, semester string) (gnums.AbsentDays, error) {
	ctx, span := tracer.Start(ctx, "AbsentDays")
	defer span.End()

	out, err := s.portal.FetchAbsentDays(ctx, session, semester)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) AttendanceByDate(ctx context.Context, session gnums.Session, date string) (gnums.DateAttendance, error) {
	ctx, span := tracer.Start(ctx, "AttendanceByDate")
	defer span.End()

	out, err := s.portal.FetchAttendanceByDate(ctx, session, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) FeeHistory(ctx context.Context, session gnums.Session) (gnums.FeeHistory, error) {
	ctx, span := tracer.Start(ctx, "FeeHistory")
	defer span.End()

	out, err := s.portal.FetchFeeHistory(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) FeePosting(ctx context.Context, session gnums.Session, feePostingId string) (gnums.FeePosting, error) {
	ctx, span := tracer.Start(ctx, "FeePosting")
	defer span.End()

	out, err := s.portal.FetchFeePosting(ctx, session, feePostingId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) Receipt(ctx context.Context, session gnums.Session, receiptId string) (gnums.ReceiptFile, error) {
	ctx, span := tracer.Start(ctx, "Receipt")
	defer span.End()

	out, err := s.portal.DownloadReceipt(ctx, session, receiptId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) PendingFees(ctx context.Context, session gnums.Session) (gnums.PendingFees, error) {
	ctx, span := tracer.Start(ctx, "PendingFees")
	defer span.End()

	out, err := s.portal.FetchPendingFees(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) InitiatePayment(ctx context.Context, session gnums.Session) (gnums.PaymentInitiation, error) {
	ctx, span := tracer.Start(ctx, "InitiatePayment")
	defer span.End()

	out, err := s.portal.InitiatePayment(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) Timetable(ctx context.Context, session gnums.Session, date string) (gnums.Timetable, error) {
	ctx, span := tracer.Start(ctx, "Timetable")
	defer span.End()

	out, err := s.portal.FetchTimetable(ctx, session, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) LmsDashboard(ctx context.Context, session gnums.Session, semester string) (gnums.LmsDashboard, error) {
	ctx, span := tracer.Start(ctx, "LmsDashboard")
	defer span.End()

	out, err := s.portal.FetchLmsDashboard(ctx, session, semester)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) LmsSubject(ctx context.Context, session gnums.Session, path string) (gnums.LmsSubject, error) {
	ctx, span := tracer.Start(ctx, "LmsSubject")
	defer span.End()

	out, err := s.portal.FetchLmsSubject(ctx, session, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) LmsPdf(ctx context.Context, session gnums.Session, postbackId, formAction string) (gnums.PdfFile, error) {
	ctx, span := tracer.Start(ctx, "LmsPdf")
	defer span.End()

	out, err := s.portal.FetchLmsPdf(ctx, session, postbackId, formAction)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) RateContent(ctx context.Context, session gnums.Session, path, postbackId string) (bool, error) {
	ctx, span := tracer.Start(ctx, "RateContent")
	defer span.End()

	out, err := s.portal.SubmitRating(ctx, session, path, postbackId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s Service) Dashboard(ctx context.Context, session gnums.Session) (gnums.Dashboard, error) {
	ctx, span := tracer.Start(ctx, "Dashboard")
	defer span.End()

	out, err := s.portal.FetchDashboard(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}
