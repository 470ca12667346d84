package gnums

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bmu-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	timetableDateControl  = "ctl00$cphPageContent$dtpTimeTableAsOn"
	timetableScriptMgr    = "ctl00$cphPageContent$sm"
	timetableUpdatePanel  = "ctl00$cphPageContent$upTTM_Attendance"
	timetableInstituteLbl = "Bhagwan Mahavir College of Management"
)

type Lecture struct {
	Batch   string `json:"batch"`
	Subject string `json:"subject"`
	Faculty string `json:"faculty"`
	Room    string `json:"room"`
}

type DaySchedule struct {
	Day      string    `json:"day"`
	Lectures []Lecture `json:"lectures"`
}

type TimetableSlot struct {
	TimeSlot string        `json:"time_slot"`
	Schedule []DaySchedule `json:"schedule"`
}

type Timetable struct {
	Institute     string          `json:"institute"`
	ClassInfo     string          `json:"class_info"`
	EffectiveFrom *string         `json:"effective_from"`
	Timetable     []TimetableSlot `json:"timetable"`
}

// FetchTimetable returns the grid effective on `timetableDate`, or the
// current one when the date is empty. Selecting a date is a
// selector-change postback, a 500 from it falls back to the default
// grid the way the portal's own UI does.
func (c *Client) FetchTimetable(ctx context.Context, session Session, timetableDate string) (Timetable, error) {
	ctx, span := tracer.Start(ctx, "client:FetchTimetable")
	defer span.End()

	http := c.sessionHttp(session)
	res, err := http.R().SetContext(ctx).Get(timetablePage)
	if err != nil {
		return Timetable{}, externalError("fetch timetable", err)
	}
	if res.StatusCode() != 200 {
		return Timetable{}, externalError("fetch timetable",
			fmt.Errorf("status %d", res.StatusCode()))
	}
	doc, err := c.parseAuthedPage(res.Body())
	if err != nil {
		return Timetable{}, err
	}

	if timetableDate != "" {
		state := ExtractFormState(doc)
		payload := state.Payload(timetableDateControl, "")
		payload[timetableDateControl] = timetableDate
		if _, ok := state.Hidden[timetableScriptMgr]; ok {
			payload[timetableScriptMgr] = timetableUpdatePanel + "|" + timetableDateControl
		}

		postRes, err := http.R().
			SetContext(ctx).
			SetFormData(payload).
			Post(timetablePage)
		if err != nil {
			return Timetable{}, externalError("select timetable date", err)
		}
		switch postRes.StatusCode() {
		case 200:
			doc, err = goquery.NewDocumentFromReader(bytes.NewBuffer(postRes.Body()))
			if err != nil {
				return Timetable{}, externalError("parse timetable", err)
			}
		case 500:
			slog.WarnContext(ctx, "timetable date selection returned 500, using default grid",
				"date", timetableDate)
		default:
			return Timetable{}, externalError("select timetable date",
				fmt.Errorf("status %d", postRes.StatusCode()))
		}
	}

	return parseTimetable(doc)
}

func parseTimetable(doc *goquery.Document) (Timetable, error) {
	table := doc.Find("table#sample_1").First()
	if table.Length() == 0 {
		return Timetable{}, validationError("Timetable table not found.")
	}

	var days []string
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		if i == 0 {
			return
		}
		days = append(days, htmlutil.CleanText(th.Text()))
	})

	var slots []TimetableSlot
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cols := row.Find("td")
		if cols.Length() == 0 {
			return
		}

		slot := TimetableSlot{
			TimeSlot: htmlutil.CleanText(cols.Eq(0).Text()),
		}
		for dayIndex := 1; dayIndex < cols.Length(); dayIndex++ {
			day := ""
			if dayIndex-1 < len(days) {
				day = days[dayIndex-1]
			}
			slot.Schedule = append(slot.Schedule, DaySchedule{
				Day:      day,
				Lectures: parseLectureCell(cols.Eq(dayIndex)),
			})
		}
		slots = append(slots, slot)
	})

	classInfo := ""
	if label := htmlutil.OptTextID(doc, "lblTimeTable"); label != nil {
		classInfo = *label
	}
	var effectiveFrom *string
	if label := htmlutil.OptTextID(doc, "lblDate"); label != nil {
		cleaned := strings.TrimSpace(strings.ReplaceAll(*label, "w.e.f.", ""))
		effectiveFrom = &cleaned
	}

	return Timetable{
		Institute:     timetableInstituteLbl,
		ClassInfo:     classInfo,
		EffectiveFrom: effectiveFrom,
		Timetable:     slots,
	}, nil
}

// a cell holds one block per concurrent lecture, separated with <hr>.
// each block's text lines follow a loose convention: "{...}" carries
// the faculty, "[...]" the room, "Batch ..." the batch, the rest is
// the subject
func parseLectureCell(cell *goquery.Selection) []Lecture {
	cellHtml, err := cell.Html()
	if err != nil {
		return []Lecture{}
	}

	lectures := []Lecture{}
	for _, block := range strings.Split(cellHtml, "<hr") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := fragmentTextLines(block)
		if len(lines) == 0 {
			continue
		}

		var lecture Lecture
		for _, line := range lines {
			switch {
			case strings.Contains(line, "Batch"):
				lecture.Batch = line
			case strings.HasPrefix(line, "{"):
				lecture.Faculty = strings.TrimSpace(strings.Trim(line, "{}"))
			case strings.HasPrefix(line, "["):
				lecture.Room = line
			default:
				lecture.Subject = strings.ReplaceAll(line, " - ", "-")
			}
		}
		lectures = append(lectures, lecture)
	}
	return lectures
}

// text lines of a loose html fragment, the leftover "/>" noise from
// splitting mid-tag is dropped
func fragmentTextLines(fragment string) []string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "td",
		DataAtom: 0,
	})
	if err != nil {
		return nil
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" && !strings.HasPrefix(text, "/>") {
				lines = append(lines, strings.TrimPrefix(text, `style="margin:5px;padding:0px;"/>`))
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return lines
}
