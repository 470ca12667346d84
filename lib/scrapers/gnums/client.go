package gnums

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"bmu-backend/lib/restyutil"
	"bmu-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/gnums")

const DefaultBaseUrl = "https://bmu.gnums.co.in"

const (
	loginPage          = "/Login.aspx"
	dashboardPage      = "/StudentPanel/StudentDashboard.aspx"
	profilePage        = "/StudentPanel/STU_Student/STU_Student_ProfileView.aspx"
	attendancePage     = "/StudentPanel/TTM_Attendance/TTM_Attendance_StudentAttendance.aspx"
	absentDaysPage     = "/StudentPanel/TTM_Attendance/TTM_Attendance_StudentAbsentDays.aspx"
	attendanceDatePage = "/AdminPanel/TimeTable/TTM_Attendance/TTM_AttendanceViewStudentAttendanceDetailByDate.aspx"
	feeHistoryPage     = "/StudentPanel/Fee/StudentFeeHistory.aspx"
	feePostingPage     = "/StudentPanel/Fee/StudentFeeHistoryView.aspx"
	pendingFeesPage    = "/StudentPanel/Fee/StudentPendingFees.aspx"
	timetablePage      = "/StudentPanel/TTM_TimeTable/TTM_TimeTable_StudentTimeTable.aspx"
	lmsDashboardPage   = "/StudentPanel/LMS/LMS_ContentStudentDashboard.aspx"
	lmsBasePath        = "/StudentPanel/LMS/"
)

// Session is the set of portal cookies minted by a successful login.
// It is the only credential authenticated calls need, the client itself
// keeps no per-user state.
type Session map[string]string

type Client struct {
	BaseUrl *url.URL
	Timeout time.Duration
}

type ClientOptions struct {
	BaseUrl string
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 20
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	return &Client{BaseUrl: baseUrl, Timeout: opts.Timeout}, nil
}

func (c *Client) newHttp() *resty.Client {
	client := resty.New()
	client.SetBaseURL(c.BaseUrl.String())
	client.SetHeaders(map[string]string{
		"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) " +
			"Chrome/142.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/*,*/*;q=0.8",
		"Accept-Language": "en-GB,en-US;q=0.9,en;q=0.8",
		"Referer":         c.BaseUrl.String() + loginPage,
		"Origin":          c.BaseUrl.String(),
	})
	client.SetTimeout(c.Timeout)
	telemetry.InstrumentResty(client, "scrapers/gnums/http")
	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)
	return client
}

// a client whose jar collects the portal's login cookies, redirects are
// left to the caller so the 302 from the credential POST stays visible
func (c *Client) loginHttp() (*resty.Client, *cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, nil, err
	}
	client := c.newHttp()
	client.SetCookieJar(jar)
	client.SetRedirectPolicy(resty.NoRedirectPolicy())
	return client, jar, nil
}

// a client that replays the session's cookies against the portal host
func (c *Client) sessionHttp(session Session) *resty.Client {
	client := c.newHttp()
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.BaseUrl.Hostname()))
	for name, value := range session {
		client.SetCookie(&http.Cookie{
			Name:   name,
			Value:  value,
			Domain: c.BaseUrl.Hostname(),
		})
	}
	return client
}

// fetches an authenticated page and bails out early when the portal
// bounced the session back to the login form
func (c *Client) getAuthedPage(ctx context.Context, session Session, path string, query url.Values) (*goquery.Document, error) {
	req := c.sessionHttp(session).R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	res, err := req.Get(path)
	if err != nil {
		return nil, externalError("fetch "+path, err)
	}
	if res.StatusCode() != 200 {
		return nil, externalError("fetch "+path, fmt.Errorf("status %d", res.StatusCode()))
	}
	return c.parseAuthedPage(res.Body())
}

func sessionFromJar(jar *cookiejar.Jar, baseUrl *url.URL) Session {
	session := Session{}
	for _, cookie := range jar.Cookies(baseUrl) {
		session[cookie.Name] = cookie.Value
	}
	return session
}

// the url the request landed on after redirects
func finalUrl(res *resty.Response) string {
	if res.RawResponse == nil || res.RawResponse.Request == nil {
		return res.Request.URL
	}
	return res.RawResponse.Request.URL.String()
}

func (c *Client) parseAuthedPage(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, externalError("parse html", err)
	}
	if doc.Find("input#txtUsername").Length() > 0 {
		return nil, ErrInvalidSession
	}
	return doc, nil
}
