package gnums

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const lmsDashboardPageHtml = `<html><body>
<form><input type="hidden" name="__VIEWSTATE" value="vs-lms" /></form>
<div id="ctl00_cphPageContent_divSubjectWiseContentCount">
<div class="col-lg-3">
<a href="LMS_ContentStudent.aspx?SubjectID=5">open</a>
<h3 class="mt-card-name">Financial Accounting</h3>
<span class="bg-red">Semester 3</span>
<span id="ctl00_cphPageContent_rpSubject_ctl00_lblCount"><b>Contents</b>: 12</span>
</div>
<div class="col-lg-3">
<h3 class="mt-card-name">card without a link</h3>
</div>
</div>
</body></html>`

func TestParseLmsDashboard(t *testing.T) {
	doc := docFromString(t, lmsDashboardPageHtml)
	dashboard := parseLmsDashboard(doc)

	require.Len(t, dashboard.Subjects, 1)
	card := dashboard.Subjects[0]
	require.Equal(t, "Financial Accounting", *card.SubjectName)
	require.Equal(t, "Semester 3", *card.Semester)
	require.Equal(t, 12, card.ContentCount)
	require.Equal(t, "LMS_ContentStudent.aspx?SubjectID=5", card.Link)
}

func TestFetchLmsDashboardSemesterSwitch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(lmsDashboardPage, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, lmsDashboardPageHtml)
			return
		}
		require.NoError(t, r.ParseForm())
		require.Equal(t, "vs-lms", r.PostForm.Get("__VIEWSTATE"))
		require.Equal(t, lmsSemesterControl, r.PostForm.Get("__EVENTTARGET"))
		require.Equal(t, "4", r.PostForm.Get(lmsSemesterControl))
		fmt.Fprint(w, `<html><body>
<div id="ctl00_cphPageContent_divSubjectWiseContentCount">
<div class="col-lg-3">
<a href="LMS_ContentStudent.aspx?SubjectID=9">open</a>
<h3 class="mt-card-name">Business Law</h3>
</div>
</div>
</body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL)
	dashboard, err := client.FetchLmsDashboard(context.Background(), Session{}, "4")
	require.NoError(t, err)
	require.Len(t, dashboard.Subjects, 1)
	require.Equal(t, "Business Law", *dashboard.Subjects[0].SubjectName)
}

const lmsSubjectPageHtml = `<html><body>
<span id="ctl00_cphPageContent_lblSubjectName">Financial Accounting</span>
<span id="ctl00_cphPageContent_lblSem">Semester 3</span>
<span id="ctl00_cphPageContent_lblCourse">BBA</span>
<span id="ctl00_cphPageContent_lblTotalMark">100</span>
<span id="ctl00_cphPageContent_lblCredit">4</span>
<a id="ctl00_cphPageContent_lbtnSyllabusPDFPath" title="FA Syllabus"
   href="javascript:__doPostBack('ctl00$cphPageContent$lbtnSyllabusPDFPath','')">Syllabus</a>
<div class="col-lg-10">
<span id="ctl00_cphPageContent_rpStaff_ctl00_lblStaffFullName">Prof. A Shah</span>
<span id="ctl00_cphPageContent_rpStaff_ctl00_lblDesignationName">Assistant Professor</span>
<a href="mailto:a.shah@bmusurat.ac.in">a.shah@bmusurat.ac.in</a>
</div>
<img id="ctl00_cphPageContent_rpStaff_ctl00_imgUser" src="../../Uploads/Staff/a-shah.jpg" />
<div id="ctl00_cphPageContent_divSubjectWiseUnit">
<table><tbody>
<tr><td>1</td><td>Introduction to Accounting:</td><td>25</td><td>12</td></tr>
<tr><td colspan="4">short</td></tr>
</tbody></table>
</div>
<div class="tabbable-line">
<ul class="nav-tabs">
<li><a href="#tab_notes">Notes <span class="badge">2</span></a></li>
</ul>
</div>
<div id="tab_notes">
<table>
<tbody>
<tr><th>Sr</th><th>Title</th></tr>
<tr>
<td>1</td>
<td><a href="javascript:__doPostBack('ctl00$cphPageContent$rpContent$ctl00$lbtnContent','')">Chapter 1</a></td>
<td><a id="ctl00_cphPageContent_rpContent_ctl00_hlDocumentPath" href="../../Content/ch1.pdf">download</a></td>
<td>01-07-2025 <small>10:30 AM</small></td>
<td>Prof. A Shah</td>
<td>Viewed</td>
<td><small>4</small>
<a href="javascript:__doPostBack('star$1','')">*</a>
<a href="javascript:__doPostBack('star$2','')">*</a>
</td>
</tr>
</tbody>
</table>
</div>
</body></html>`

func TestParseLmsSubject(t *testing.T) {
	client := testClient(t, "https://portal.test")
	doc := docFromString(t, lmsSubjectPageHtml)
	subject := client.parseLmsSubject(doc, "LMS_ContentStudent.aspx?SubjectID=5")

	require.Equal(t, "Financial Accounting", *subject.SubjectDetails.SubjectName)
	require.Equal(t, "Semester 3", *subject.SubjectDetails.Semester)
	require.Nil(t, subject.SubjectDetails.Faculty)
	require.Equal(t, "100", *subject.ExamScheme.TotalMarks)
	require.Equal(t, "4", *subject.TeachingScheme.Credits)

	require.NotNil(t, subject.Syllabus)
	require.Equal(t, "ctl00$cphPageContent$lbtnSyllabusPDFPath", subject.Syllabus.PostbackId)
	require.Equal(t, "LMS_ContentStudent.aspx?SubjectID=5", subject.Syllabus.FormAction)
	require.Equal(t, "FA Syllabus", subject.Syllabus.Title)

	require.NotNil(t, subject.StaffDetails)
	require.Equal(t, "Prof. A Shah", subject.StaffDetails.Name)
	require.Equal(t, "Assistant Professor", *subject.StaffDetails.Designation)
	require.Equal(t, "a.shah@bmusurat.ac.in", *subject.StaffDetails.Email)
	require.Equal(t, "https://portal.test/Uploads/Staff/a-shah.jpg", *subject.StaffDetails.ImageUrl)

	require.Len(t, subject.Units, 1)
	require.Equal(t, LmsUnit{
		SrNo:          "1",
		UnitName:      "Introduction to Accounting",
		Weightage:     "25",
		TeachingHours: "12",
	}, subject.Units[0])

	require.Len(t, subject.ContentCategories, 1)
	category := subject.ContentCategories[0]
	require.Equal(t, "Notes", category.CategoryName)
	require.Equal(t, 2, category.Count)

	require.Len(t, category.Items, 1)
	item := category.Items[0]
	require.Equal(t, "Chapter 1", item.Title)
	require.Equal(t, "https://portal.test/Content/ch1.pdf", *item.DownloadLink)
	require.Equal(t, "01-07-2025", item.UpdatedDate)
	require.Equal(t, "10:30 AM", item.UpdatedTime)
	require.Equal(t, "Prof. A Shah", item.PreparedBy)
	require.Equal(t, "Viewed", item.ViewStatus)

	require.NotNil(t, item.Rating)
	require.Equal(t, "4", *item.Rating.CurrentRating)
	require.Equal(t, []LmsRatingOption{
		{StarValue: 1, PostbackId: "star$1"},
		{StarValue: 2, PostbackId: "star$2"},
	}, item.Rating.Options)
}

func TestLmsFetchesRequireIdentifiers(t *testing.T) {
	client := testClient(t, DefaultBaseUrl)

	var portalErr *PortalError
	_, err := client.FetchLmsSubject(context.Background(), Session{}, "")
	require.ErrorAs(t, err, &portalErr)
	require.Equal(t, KindValidation, portalErr.Kind)

	_, err = client.FetchLmsPdf(context.Background(), Session{}, "", "Subject.aspx")
	require.ErrorAs(t, err, &portalErr)
	require.Equal(t, KindValidation, portalErr.Kind)

	_, err = client.SubmitRating(context.Background(), Session{}, "Subject.aspx", "")
	require.ErrorAs(t, err, &portalErr)
	require.Equal(t, KindValidation, portalErr.Kind)
}

func TestFetchLmsPdf(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(lmsBasePath+"LMS_ContentStudent.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<html><body><form>
<input type="hidden" name="__VIEWSTATE" value="vs-pdf" />
</form></body></html>`)
			return
		}
		require.NoError(t, r.ParseForm())
		require.Equal(t, "ctl00$cphPageContent$lbtnContent", r.PostForm.Get("__EVENTTARGET"))
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.7 fake")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL)
	pdf, err := client.FetchLmsPdf(context.Background(), Session{},
		"ctl00$cphPageContent$lbtnContent", "LMS_ContentStudent.aspx?SubjectID=5")
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7 fake", string(pdf.Content))
}

func TestFetchLmsPdfRejectsHtmlResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(lmsBasePath+"LMS_ContentStudent.aspx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><form>
<input type="hidden" name="__VIEWSTATE" value="vs-pdf" />
</form></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.FetchLmsPdf(context.Background(), Session{},
		"ctl00$cphPageContent$lbtnContent", "LMS_ContentStudent.aspx?SubjectID=5")

	var portalErr *PortalError
	require.ErrorAs(t, err, &portalErr)
	require.Equal(t, KindExternal, portalErr.Kind)
}

func TestSubmitRating(t *testing.T) {
	var postedForm map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc(lmsBasePath+"LMS_ContentStudent.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<html><body>
<form id="aspnetForm" action="./LMS_ContentStudent.aspx?SubjectID=5" method="post">
<input type="hidden" name="__VIEWSTATE" value="vs-rate" />
</form></body></html>`)
			return
		}
		require.NoError(t, r.ParseForm())
		postedForm = map[string]string{}
		for key := range r.PostForm {
			postedForm[key] = r.PostForm.Get(key)
		}
		http.Redirect(w, r, lmsBasePath+"LMS_ContentRated.aspx", http.StatusFound)
	})
	mux.HandleFunc(lmsBasePath+"LMS_ContentRated.aspx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>rated</body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL)
	ok, err := client.SubmitRating(context.Background(), Session{},
		"LMS_ContentStudent.aspx?SubjectID=5", "star$3")
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, "star$3", postedForm["__EVENTTARGET"])
	require.Equal(t, "vs-rate", postedForm["__VIEWSTATE"])
	// the form action's query params ride along in the body
	require.Equal(t, "5", postedForm["SubjectID"])
}

func TestSubmitRatingExpiredSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(lmsBasePath+"LMS_ContentStudent.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<html><body>
<form id="aspnetForm" action="./LMS_ContentStudent.aspx" method="post">
<input type="hidden" name="__VIEWSTATE" value="vs-rate" />
</form></body></html>`)
			return
		}
		http.Redirect(w, r, "/Login.aspx", http.StatusFound)
	})
	mux.HandleFunc("/Login.aspx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, loginPageHtml)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.SubmitRating(context.Background(), Session{},
		"LMS_ContentStudent.aspx", "star$3")
	require.ErrorIs(t, err, ErrInvalidSession)
}
