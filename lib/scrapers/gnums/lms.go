package gnums

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bmu-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const lmsSemesterControl = "ctl00$cphPageHeaderRight$ddlSemester"

type LmsSubjectCard struct {
	SubjectName  *string `json:"subject_name"`
	Semester     *string `json:"semester"`
	ContentCount int     `json:"content_count"`
	Link         string  `json:"link"`
}

type LmsDashboard struct {
	Subjects []LmsSubjectCard `json:"subjects"`
}

// FetchLmsDashboard lists the subject cards, optionally after switching
// the semester with a selector-change postback.
func (c *Client) FetchLmsDashboard(ctx context.Context, session Session, semester string) (LmsDashboard, error) {
	ctx, span := tracer.Start(ctx, "client:FetchLmsDashboard")
	defer span.End()

	http := c.sessionHttp(session)
	res, err := http.R().SetContext(ctx).Get(lmsDashboardPage)
	if err != nil {
		return LmsDashboard{}, externalError("fetch lms dashboard", err)
	}
	if res.StatusCode() != 200 {
		return LmsDashboard{}, externalError("fetch lms dashboard",
			fmt.Errorf("status %d", res.StatusCode()))
	}
	doc, err := c.parseAuthedPage(res.Body())
	if err != nil {
		return LmsDashboard{}, err
	}

	if semester != "" {
		state := ExtractFormState(doc)
		payload := state.Payload(lmsSemesterControl, "")
		payload[lmsSemesterControl] = semester

		res, err = http.R().
			SetContext(ctx).
			SetFormData(payload).
			Post(lmsDashboardPage)
		if err != nil {
			return LmsDashboard{}, externalError("select lms semester", err)
		}
		if res.StatusCode() != 200 {
			return LmsDashboard{}, externalError("select lms semester",
				fmt.Errorf("status %d", res.StatusCode()))
		}
		doc, err = c.parseAuthedPage(res.Body())
		if err != nil {
			return LmsDashboard{}, err
		}
	}

	return parseLmsDashboard(doc), nil
}

func parseLmsDashboard(doc *goquery.Document) LmsDashboard {
	dashboard := LmsDashboard{Subjects: []LmsSubjectCard{}}

	doc.Find("div#ctl00_cphPageContent_divSubjectWiseContentCount div.col-lg-3").
		Each(func(_ int, card *goquery.Selection) {
			link, ok := card.Find("a[href]").First().Attr("href")
			if !ok {
				return
			}
			subject := LmsSubjectCard{
				SubjectName: htmlutil.OptTextIn(card, "h3.mt-card-name"),
				Semester:    htmlutil.OptTextIn(card, "span.bg-red"),
				Link:        link,
			}
			// the count trails the <b> label, e.g. "<b>Contents</b>: 12"
			countLabel := card.Find("span[id$='lblCount'] b").First()
			if countLabel.Length() > 0 {
				node := countLabel.Nodes[0]
				if node.NextSibling != nil && node.NextSibling.Type == html.TextNode {
					raw := strings.TrimSpace(strings.ReplaceAll(node.NextSibling.Data, ":", ""))
					if count, err := strconv.Atoi(raw); err == nil {
						subject.ContentCount = count
					}
				}
			}
			dashboard.Subjects = append(dashboard.Subjects, subject)
		})
	return dashboard
}

type LmsSubjectDetails struct {
	SubjectName    *string `json:"subject_name"`
	Semester       *string `json:"semester"`
	Faculty        *string `json:"faculty"`
	Course         *string `json:"course"`
	BaseDepartment *string `json:"base_department"`
	Elective       *string `json:"elective"`
	CommonSubject  *string `json:"common_subject"`
}

type LmsExamScheme struct {
	InternalTheoryMax     *string `json:"internal_theory_max"`
	InternalTheoryPass    *string `json:"internal_theory_pass"`
	InternalPracticalMax  *string `json:"internal_practical_max"`
	InternalPracticalPass *string `json:"internal_practical_pass"`
	ExternalTheoryMax     *string `json:"external_theory_max"`
	ExternalTheoryPass    *string `json:"external_theory_pass"`
	ExternalPracticalMax  *string `json:"external_practical_max"`
	ExternalPracticalPass *string `json:"external_practical_pass"`
	TotalMarks            *string `json:"total_marks"`
	ExamDuration          *string `json:"exam_duration"`
}

type LmsTeachingScheme struct {
	PracticalHours *string `json:"practical_hours"`
	LectureHours   *string `json:"lecture_hours"`
	TutorialHours  *string `json:"tutorial_hours"`
	Credits        *string `json:"credits"`
}

type LmsSyllabus struct {
	PostbackId string `json:"postback_id"`
	FormAction string `json:"form_action"`
	Title      string `json:"title"`
}

type LmsStaffDetails struct {
	Name        string  `json:"name"`
	Designation *string `json:"designation"`
	Email       *string `json:"email"`
	ImageUrl    *string `json:"image_url"`
}

type LmsUnit struct {
	SrNo          string `json:"sr_no"`
	UnitName      string `json:"unit_name"`
	Weightage     string `json:"weightage"`
	TeachingHours string `json:"teaching_hours"`
}

type LmsRatingOption struct {
	StarValue  int    `json:"star_value"`
	PostbackId string `json:"postback_id"`
}

type LmsRating struct {
	CurrentRating *string           `json:"current_rating"`
	Options       []LmsRatingOption `json:"options"`
}

type LmsContentItem struct {
	SrNo         string     `json:"sr_no"`
	Title        string     `json:"title"`
	Link         *string    `json:"link"`
	DownloadLink *string    `json:"download_link"`
	UpdatedDate  string     `json:"updated_date"`
	UpdatedTime  string     `json:"updated_time"`
	PreparedBy   string     `json:"prepared_by"`
	ViewStatus   string     `json:"view_status"`
	Rating       *LmsRating `json:"rating"`
}

type LmsContentCategory struct {
	CategoryName string           `json:"category_name"`
	Count        int              `json:"count"`
	Items        []LmsContentItem `json:"items"`
}

type LmsSubject struct {
	SubjectDetails    LmsSubjectDetails    `json:"subject_details"`
	Syllabus          *LmsSyllabus         `json:"syllabus"`
	StaffDetails      *LmsStaffDetails     `json:"staff_details"`
	ExamScheme        LmsExamScheme        `json:"exam_scheme"`
	TeachingScheme    LmsTeachingScheme    `json:"teaching_scheme"`
	Units             []LmsUnit            `json:"units"`
	ContentCategories []LmsContentCategory `json:"content_categories"`
}

// FetchLmsSubject loads one subject's LMS page, `path` is the relative
// link from a dashboard card.
func (c *Client) FetchLmsSubject(ctx context.Context, session Session, path string) (LmsSubject, error) {
	ctx, span := tracer.Start(ctx, "client:FetchLmsSubject")
	defer span.End()

	if path == "" {
		return LmsSubject{}, validationError("Missing 'path' parameter.")
	}

	doc, err := c.getAuthedPage(ctx, session, lmsBasePath+path, nil)
	if err != nil {
		return LmsSubject{}, err
	}
	return c.parseLmsSubject(doc, path), nil
}

func (c *Client) parseLmsSubject(doc *goquery.Document, path string) LmsSubject {
	subject := LmsSubject{
		SubjectDetails: LmsSubjectDetails{
			SubjectName:    htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblSubjectName"),
			Semester:       htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblSem"),
			Faculty:        htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblFaculty"),
			Course:         htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblCourse"),
			BaseDepartment: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblBaseDepartment"),
			Elective:       htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblIsElective"),
			CommonSubject:  htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblIsCommonSubject"),
		},
		ExamScheme: LmsExamScheme{
			InternalTheoryMax:     htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblInternalTheoryMaxMarks"),
			InternalTheoryPass:    htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblInternalTheoryPassingMarks"),
			InternalPracticalMax:  htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblInternalPracticalMaxMarks"),
			InternalPracticalPass: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblInternalPracticalPassingMarks"),
			ExternalTheoryMax:     htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblExternalTheoryMaxMarks"),
			ExternalTheoryPass:    htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblExternalTheoryPassingMarks"),
			ExternalPracticalMax:  htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblExternalPracticalMaxMarks"),
			ExternalPracticalPass: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblExternalPracticalPassingMarks"),
			TotalMarks:            htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTotalMark"),
			ExamDuration:          htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblExamDurationInMinutes"),
		},
		TeachingScheme: LmsTeachingScheme{
			PracticalHours: htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblLabHours"),
			LectureHours:   htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblLectHours"),
			TutorialHours:  htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblTutorialHours"),
			Credits:        htmlutil.OptTextID(doc, "ctl00_cphPageContent_lblCredit"),
		},
		Units:             []LmsUnit{},
		ContentCategories: []LmsContentCategory{},
	}

	syllabusLink := doc.Find("#ctl00_cphPageContent_lbtnSyllabusPDFPath").First()
	if syllabusLink.Length() > 0 {
		title := syllabusLink.AttrOr("title", "Syllabus PDF")
		subject.Syllabus = &LmsSyllabus{
			PostbackId: htmlutil.PostbackTarget(syllabusLink.AttrOr("href", "")),
			FormAction: path,
			Title:      title,
		}
	}

	subject.StaffDetails = c.parseLmsStaff(doc)

	doc.Find("div[id$='divSubjectWiseUnit'] table").First().
		Find("tbody tr").
		Each(func(_ int, row *goquery.Selection) {
			cells := htmlutil.RowCells(row)
			if len(cells) < 4 {
				return
			}
			subject.Units = append(subject.Units, LmsUnit{
				SrNo:          cells[0],
				UnitName:      strings.TrimRight(cells[1], ":"),
				Weightage:     cells[2],
				TeachingHours: cells[3],
			})
		})

	doc.Find("div.tabbable-line ul.nav-tabs li").Each(func(_ int, li *goquery.Selection) {
		anchor := li.Find("a").First()
		if anchor.Length() == 0 {
			return
		}

		categoryName := htmlutil.CleanText(anchor.Text())
		count := 0
		badge := anchor.Find("span.badge").First()
		if badge.Length() > 0 {
			badgeText := htmlutil.CleanText(badge.Text())
			if parsed, err := strconv.Atoi(badgeText); err == nil {
				count = parsed
			}
			categoryName = strings.TrimSpace(strings.Replace(categoryName, badgeText, "", 1))
		}

		tabId := strings.TrimPrefix(anchor.AttrOr("href", ""), "#")
		category := LmsContentCategory{
			CategoryName: categoryName,
			Count:        count,
			Items:        []LmsContentItem{},
		}
		doc.Find("div#" + tabId).First().Find("table").First().
			Find("tbody tr").
			Each(func(_ int, row *goquery.Selection) {
				if row.Find("th").Length() > 0 {
					return
				}
				if item, ok := c.parseLmsContentRow(row); ok {
					category.Items = append(category.Items, item)
				}
			})
		subject.ContentCategories = append(subject.ContentCategories, category)
	})

	return subject
}

func (c *Client) parseLmsStaff(doc *goquery.Document) *LmsStaffDetails {
	nameSpan := doc.Find("span[id*='lblStaffFullName']").First()
	if nameSpan.Length() == 0 {
		return nil
	}

	staff := &LmsStaffDetails{
		Name:        htmlutil.CleanText(nameSpan.Text()),
		Designation: htmlutil.OptText(doc, "span[id*='lblDesignationName']"),
	}

	container := nameSpan.Closest("div.col-lg-10")
	if container.Length() > 0 {
		email := container.Find("a[href^='mailto:']").First()
		if email.Length() > 0 {
			text := htmlutil.CleanText(email.Text())
			staff.Email = &text
		}
	}

	img := doc.Find("img[id*='imgUser']").First()
	if src, ok := img.Attr("src"); ok {
		resolved := strings.Replace(src, "../../", c.BaseUrl.String()+"/", 1)
		staff.ImageUrl = &resolved
	}
	return staff
}

func (c *Client) parseLmsContentRow(row *goquery.Selection) (LmsContentItem, bool) {
	cells := row.Find("td")
	if cells.Length() < 6 {
		return LmsContentItem{}, false
	}

	item := LmsContentItem{
		SrNo:       htmlutil.CleanText(cells.Eq(0).Text()),
		PreparedBy: htmlutil.CleanText(cells.Eq(4).Text()),
		ViewStatus: htmlutil.CleanText(cells.Eq(5).Text()),
	}

	title := cells.Eq(1).Find("a").First()
	if title.Length() > 0 {
		item.Title = htmlutil.CleanText(title.Text())
		if href, ok := title.Attr("href"); ok {
			item.Link = &href
		}
	}

	download := cells.Eq(2).Find("a[id*='hlDocumentPath']").First()
	if href, ok := download.Attr("href"); ok {
		resolved := strings.Replace(href, "../../", c.BaseUrl.String()+"/", 1)
		item.DownloadLink = &resolved
	}

	dateText := htmlutil.CleanText(cells.Eq(3).Text())
	if len(dateText) >= 10 {
		item.UpdatedDate = dateText[:10]
	} else {
		item.UpdatedDate = dateText
	}
	item.UpdatedTime = htmlutil.CleanText(cells.Eq(3).Find("small").First().Text())

	if cells.Length() >= 7 {
		ratingCell := cells.Eq(6)
		rating := LmsRating{
			CurrentRating: htmlutil.OptTextIn(ratingCell, "small"),
			Options:       []LmsRatingOption{},
		}
		ratingCell.Find("a[href*='__doPostBack']").Each(func(i int, star *goquery.Selection) {
			if target := htmlutil.PostbackTarget(star.AttrOr("href", "")); target != "" {
				rating.Options = append(rating.Options, LmsRatingOption{
					StarValue:  i + 1,
					PostbackId: target,
				})
			}
		})
		if rating.CurrentRating != nil || len(rating.Options) > 0 {
			item.Rating = &rating
		}
	}

	return item, true
}

type PdfFile struct {
	Content []byte
}

// FetchLmsPdf replays a content link's postback and expects the portal
// to stream a document back.
func (c *Client) FetchLmsPdf(ctx context.Context, session Session, postbackId, formAction string) (PdfFile, error) {
	ctx, span := tracer.Start(ctx, "client:FetchLmsPdf")
	defer span.End()

	if postbackId == "" || formAction == "" {
		return PdfFile{}, validationError("Missing 'postback_id' or 'form_action'.")
	}

	pagePath := lmsBasePath + formAction
	http := c.sessionHttp(session)
	res, err := http.R().SetContext(ctx).Get(pagePath)
	if err != nil {
		return PdfFile{}, externalError("fetch lms page", err)
	}
	if res.StatusCode() != 200 {
		return PdfFile{}, externalError("fetch lms page",
			fmt.Errorf("status %d", res.StatusCode()))
	}
	doc, err := c.parseAuthedPage(res.Body())
	if err != nil {
		return PdfFile{}, err
	}

	state := ExtractFormState(doc)
	res, err = http.R().
		SetContext(ctx).
		SetFormData(state.Payload(postbackId, "")).
		Post(pagePath)
	if err != nil {
		return PdfFile{}, externalError("pdf postback", err)
	}

	contentType := strings.ToLower(res.Header().Get("Content-Type"))
	if !strings.Contains(contentType, "application/pdf") &&
		!strings.Contains(contentType, "application/download") {
		return PdfFile{}, externalError("pdf postback",
			fmt.Errorf("PDF not returned by server"))
	}
	return PdfFile{Content: res.Body()}, nil
}

// SubmitRating replays a star link's postback against the page's form
// action. The portal acknowledges a rating with a redirect, landing
// back on the login page means the session died instead.
func (c *Client) SubmitRating(ctx context.Context, session Session, path, postbackId string) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:SubmitRating")
	defer span.End()

	if path == "" || postbackId == "" {
		return false, validationError("Missing 'path' or 'postback_id'.")
	}

	pagePath := lmsBasePath + path
	http := c.sessionHttp(session)
	res, err := http.R().SetContext(ctx).Get(pagePath)
	if err != nil {
		return false, externalError("fetch lms page", err)
	}
	if res.StatusCode() != 200 {
		return false, externalError("fetch lms page",
			fmt.Errorf("status %d", res.StatusCode()))
	}
	doc, err := c.parseAuthedPage(res.Body())
	if err != nil {
		return false, err
	}

	state := ExtractFormState(doc)
	payload := state.Payload(postbackId, "")

	postPath := pagePath
	if action, ok := doc.Find("form#aspnetForm").First().Attr("action"); ok && action != "" {
		switch {
		case strings.HasPrefix(action, "./"):
			postPath = lmsBasePath + action[2:]
		case strings.HasPrefix(action, "/"):
			postPath = action
		default:
			postPath = lmsBasePath + action
		}
	}

	// the form action may carry query params the server expects in the
	// body as well
	if parsed, err := url.Parse(postPath); err == nil {
		for key, values := range parsed.Query() {
			if len(values) > 0 {
				payload[key] = values[0]
			}
		}
	}

	res, err = http.R().
		SetContext(ctx).
		SetHeader("Referer", c.BaseUrl.String()+pagePath).
		SetFormData(payload).
		Post(postPath)
	if err != nil {
		return false, externalError("rating postback", err)
	}

	landed := finalUrl(res)
	if strings.Contains(landed, "Login.aspx") {
		return false, ErrInvalidSession
	}
	// a redirect away from the form url is the only acknowledgement
	return res.StatusCode() == 302 || !strings.Contains(landed, postPath), nil
}
