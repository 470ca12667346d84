package gnums

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"bmu-backend/lib/htmlutil"
	"bmu-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type SubjectAttendance struct {
	SrNo                 string `json:"sr_no"`
	SlotType             string `json:"slot_type"`
	Course               string `json:"course"`
	Conducted            string `json:"conducted"`
	Present              string `json:"present"`
	Absent               string `json:"absent"`
	AttendancePercentage string `json:"attendance_percentage"`
}

type AttendanceTotal struct {
	TotalDay          *string `json:"total_day"`
	PresentDay        *string `json:"present_day"`
	AbsentDays        *string `json:"absent_days"`
	PresentPercentage *string `json:"present_percentage"`
}

type SemesterAttendance struct {
	CurrentSemester *string `json:"current_semester"`
	SecondSemester  *string `json:"second_semester"`
	FirstSemester   *string `json:"first_semester"`
}

type AttendanceSummary struct {
	SemesterWise SemesterAttendance  `json:"semester_wise"`
	Total        AttendanceTotal     `json:"total"`
	Subjects     []SubjectAttendance `json:"subjects"`
}

func (c *Client) FetchAttendance(ctx context.Context, session Session) (AttendanceSummary, error) {
	ctx, span := tracer.Start(ctx, "client:FetchAttendance")
	defer span.End()

	doc, err := c.getAuthedPage(ctx, session, attendancePage, nil)
	if err != nil {
		return AttendanceSummary{}, err
	}
	return parseAttendance(doc), nil
}

func parseAttendance(doc *goquery.Document) AttendanceSummary {
	summary := AttendanceSummary{
		SemesterWise: SemesterAttendance{
			CurrentSemester: htmlutil.OptTextID(doc,
				"ctl00_cphPageContent_rpSemesterAttendance_ctl00_lbtnSemesterAttendance"),
			SecondSemester: htmlutil.OptTextID(doc,
				"ctl00_cphPageContent_rpSemesterAttendance_ctl01_lbtnSemesterAttendance"),
			FirstSemester: htmlutil.OptTextID(doc,
				"ctl00_cphPageContent_rpSemesterAttendance_ctl02_lbtnSemesterAttendance"),
		},
		Total: AttendanceTotal{
			TotalDay:          htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalSlots"),
			PresentDay:        htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalPresent"),
			AbsentDays:        htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAbsent"),
			PresentPercentage: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblPresentPercentage"),
		},
		Subjects: []SubjectAttendance{},
	}

	doc.Find("table#tblAttendance tbody tr[role=row]").Each(func(_ int, row *goquery.Selection) {
		cells := htmlutil.RowCells(row)
		if len(cells) < 7 {
			return
		}
		summary.Subjects = append(summary.Subjects, SubjectAttendance{
			SrNo:                 cells[0],
			SlotType:             cells[1],
			Course:               cells[2],
			Conducted:            cells[3],
			Present:              cells[4],
			Absent:               cells[5],
			AttendancePercentage: textutil.StripPercent(cells[6]),
		})
	})
	return summary
}

type AbsentDay struct {
	SrNo           string  `json:"sr_no"`
	AttendanceDate string  `json:"attendance_date"`
	Conducted      string  `json:"conducted"`
	Present        string  `json:"present"`
	Absent         string  `json:"absent"`
	ViewLink       *string `json:"view_link"`
}

type AbsentDaysSummary struct {
	PartialAbsentDays *string `json:"partial_absent_days"`
	FullAbsentDays    *string `json:"full_absent_days"`
	TotalAbsentSlots  *string `json:"total_absent_slots"`
}

type AbsentDaysTotal struct {
	TotalConducted *string `json:"total_conducted"`
	TotalPresent   *string `json:"total_present"`
	TotalAbsent    *string `json:"total_absent"`
}

type AbsentDays struct {
	Summary    AbsentDaysSummary `json:"summary"`
	AbsentDays []AbsentDay       `json:"absent_days"`
	Total      AbsentDaysTotal   `json:"total"`
}

func (c *Client) FetchAbsentDays(ctx context.Context, session Session, selectedSemester string) (AbsentDays, error) {
	ctx, span := tracer.Start(ctx, "client:FetchAbsentDays")
	defer span.End()

	query := url.Values{"SelectedSemester": {selectedSemester}}
	doc, err := c.getAuthedPage(ctx, session, absentDaysPage, query)
	if err != nil {
		return AbsentDays{}, err
	}
	return c.parseAbsentDays(doc), nil
}

func (c *Client) parseAbsentDays(doc *goquery.Document) AbsentDays {
	data := AbsentDays{
		Summary: AbsentDaysSummary{
			PartialAbsentDays: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblPartialAbsentDaysCount"),
			FullAbsentDays:    htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblFullAbsentDaysCount"),
			TotalAbsentSlots:  htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAbsentLectureLabCount"),
		},
		AbsentDays: []AbsentDay{},
		Total: AbsentDaysTotal{
			TotalConducted: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalConducted"),
			TotalPresent:   htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalPresent"),
			TotalAbsent:    htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalAbsent"),
		},
	}

	doc.Find("table#tblAttendance tbody tr[role=row]").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}
		day := AbsentDay{
			SrNo:           htmlutil.CleanText(cells.Eq(0).Text()),
			AttendanceDate: htmlutil.CleanText(cells.Eq(1).Text()),
			Conducted:      htmlutil.CleanText(cells.Eq(2).Text()),
			Present:        htmlutil.CleanText(cells.Eq(3).Text()),
			Absent:         htmlutil.CleanText(cells.Eq(4).Text()),
		}
		if href, ok := cells.Eq(5).Find("a[href]").First().Attr("href"); ok {
			link := c.BaseUrl.String() + strings.ReplaceAll(href, "..", "")
			day.ViewLink = &link
		}
		data.AbsentDays = append(data.AbsentDays, day)
	})
	return data
}

type DateAttendanceRecord struct {
	SrNo     string `json:"sr_no"`
	Time     string `json:"time"`
	Course   string `json:"course"`
	Staff    string `json:"staff"`
	SlotType string `json:"slot_type"`
	Status   string `json:"status"`
}

type DateAttendanceTotal struct {
	Conducted string `json:"conducted"`
	Present   string `json:"present"`
	Absent    string `json:"absent"`
}

type DateAttendance struct {
	Date    string                 `json:"date"`
	Records []DateAttendanceRecord `json:"records"`
	Total   DateAttendanceTotal    `json:"total"`
}

func (c *Client) FetchAttendanceByDate(ctx context.Context, session Session, attendanceDate string) (DateAttendance, error) {
	ctx, span := tracer.Start(ctx, "client:FetchAttendanceByDate")
	defer span.End()

	if attendanceDate == "" {
		return DateAttendance{}, validationError("Missing 'attendance_date' parameter.")
	}

	query := url.Values{"AttendanceDate": {attendanceDate}}
	doc, err := c.getAuthedPage(ctx, session, attendanceDatePage, query)
	if err != nil {
		return DateAttendance{}, err
	}
	return parseAttendanceByDate(doc, attendanceDate), nil
}

func parseAttendanceByDate(doc *goquery.Document, date string) DateAttendance {
	data := DateAttendance{Date: date, Records: []DateAttendanceRecord{}}

	doc.Find("table#tblAttendance tbody tr[role=row]").Each(func(_ int, row *goquery.Selection) {
		cells := htmlutil.RowCells(row)
		if len(cells) < 6 {
			return
		}
		data.Records = append(data.Records, DateAttendanceRecord{
			SrNo:     cells[0],
			Time:     cells[1],
			Course:   strings.TrimSpace(strings.ReplaceAll(cells[2], "\n", "")),
			Staff:    cells[3],
			SlotType: cells[4],
			Status:   cells[5],
		})
	})

	// totals follow the rows that survived parsing, not the page's own
	// counters, so skipped rows never skew them
	present, absent := 0, 0
	for _, record := range data.Records {
		switch strings.ToLower(record.Status) {
		case "present":
			present++
		case "absent":
			absent++
		}
	}
	data.Total = DateAttendanceTotal{
		Conducted: strconv.Itoa(len(data.Records)),
		Present:   strconv.Itoa(present),
		Absent:    strconv.Itoa(absent),
	}
	return data
}
