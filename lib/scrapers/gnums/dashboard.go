package gnums

import (
	"context"
	"strings"

	"bmu-backend/lib/htmlutil"
	"bmu-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type DashboardPersonal struct {
	FullName               *string `json:"full_name"`
	ProfileImageMain       *string `json:"profile_image_main"`
	ProfileImageResponsive *string `json:"profile_image_responsive"`
	BirthDate              *string `json:"birth_date"`
	Gender                 *string `json:"gender"`
}

type DashboardEducation struct {
	CourseName   *string `json:"course_name"`
	Semester     *string `json:"semester"`
	EnrollmentNo *string `json:"enrollment_no"`
	AbcId        *string `json:"abc_id"`
	Status       *string `json:"status"`
	Division     *string `json:"division"`
	BatchNo      *string `json:"batch_no"`
	RollNo       *string `json:"roll_no"`
}

type DashboardContact struct {
	MobileNo *string `json:"mobile_no"`
	Email    *string `json:"email"`
}

type DashboardFamily struct {
	FatherName   *string `json:"father_name"`
	FatherMobile *string `json:"father_mobile"`
	MotherName   *string `json:"mother_name"`
	MotherMobile *string `json:"mother_mobile"`
}

type PendingAssignment struct {
	SrNo           string  `json:"sr_no"`
	Subject        string  `json:"subject"`
	AssignmentName *string `json:"assignment_name"`
	LastDate       string  `json:"last_date"`
}

type Dashboard struct {
	Personal           DashboardPersonal   `json:"personal"`
	Education          DashboardEducation  `json:"education"`
	Contact            DashboardContact    `json:"contact"`
	Family             DashboardFamily     `json:"family"`
	PendingAssignments []PendingAssignment `json:"pending_assignments"`
}

const dashboardIdPrefix = "ctl00_cphPageContent_ucStudentInfoCompact_"

func (c *Client) FetchDashboard(ctx context.Context, session Session) (Dashboard, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDashboard")
	defer span.End()

	doc, err := c.getAuthedPage(ctx, session, dashboardPage, nil)
	if err != nil {
		return Dashboard{}, err
	}
	return c.parseDashboard(doc), nil
}

func (c *Client) parseDashboard(doc *goquery.Document) Dashboard {
	field := func(suffix string) *string {
		return cleanOpt(htmlutil.OptTextID(doc, dashboardIdPrefix+suffix))
	}
	either := func(a, b *string) *string {
		if a != nil {
			return a
		}
		return b
	}

	gender := field("lblGender")
	if gender != nil {
		expanded := textutil.ExpandGender(strings.ToUpper(*gender))
		gender = &expanded
	}

	dashboard := Dashboard{
		Personal: DashboardPersonal{
			FullName: either(
				cleanOpt(htmlutil.OptTextID(doc, "ctl00_lblCurrentUsername")),
				field("lblStudentLCName")),
			ProfileImageMain:       c.dashboardImage(doc, "ctl00_imgCurrentUserPhoto"),
			ProfileImageResponsive: c.dashboardImage(doc, dashboardIdPrefix+"imgStudentPhoto"),
			BirthDate:              field("lblBirthDate"),
			Gender:                 gender,
		},
		Education: DashboardEducation{
			CourseName:   field("lblCourseName"),
			Semester:     stripParensOpt(field("lblCurrentSemester")),
			EnrollmentNo: field("lblEnrollmentNo"),
			AbcId:        field("lblABCID"),
			Status:       field("lblStudentStatusID"),
			Division:     field("lblCurrentDivision"),
			BatchNo:      field("lblCurrentLabBatchNo"),
			RollNo:       field("lblCurrentRollNo"),
		},
		Contact: DashboardContact{
			MobileNo: either(field("lblPhoneStudent1"), field("lblPhoneStudent2")),
			Email:    either(field("lblEmail"), field("lblEmailAlternate")),
		},
		Family: DashboardFamily{
			FatherName:   field("lblFatherName"),
			FatherMobile: field("lblFatherMobile"),
			MotherName:   field("lblMotherName"),
			MotherMobile: field("lblMotherMobile"),
		},
		PendingAssignments: []PendingAssignment{},
	}

	doc.Find("div#ctl00_cphPageContent_divPendingAssigmnets table").First().
		Find("tr").
		Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			cells := row.Find("td")
			if cells.Length() < 5 {
				return
			}
			assignment := PendingAssignment{
				SrNo:     htmlutil.CleanText(cells.Eq(0).Text()),
				Subject:  htmlutil.CleanText(cells.Eq(1).Text()),
				LastDate: htmlutil.CleanText(cells.Eq(3).Text()),
			}
			if name := cells.Eq(2).Find("a").First(); name.Length() > 0 {
				text := htmlutil.CleanText(name.Text())
				assignment.AssignmentName = &text
			}
			dashboard.PendingAssignments = append(dashboard.PendingAssignments, assignment)
		})

	return dashboard
}

// inline data urls pass through, everything else resolves against the
// dashboard page
func (c *Client) dashboardImage(doc *goquery.Document, id string) *string {
	src, ok := doc.Find("img#" + id).First().Attr("src")
	if !ok || src == "" {
		return nil
	}
	if strings.HasPrefix(src, "data:image") {
		return &src
	}
	resolved := htmlutil.AbsoluteUrl(c.BaseUrl.String()+dashboardPage, src)
	return &resolved
}

func cleanOpt(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := textutil.CleanValue(*value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func stripParensOpt(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := textutil.StripParens(*value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
