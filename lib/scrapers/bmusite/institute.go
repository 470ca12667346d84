package bmusite

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"bmu-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type Director struct {
	Photo              *string `json:"photo"`
	Name               *string `json:"name"`
	Qualification      *string `json:"qualification"`
	Email              *string `json:"email"`
	TeachingExperience *string `json:"teaching_experience"`
	Message            *string `json:"message"`
}

type FacultyMember struct {
	Photo          *string `json:"photo"`
	Name           *string `json:"name"`
	Designation    *string `json:"designation"`
	Qualification  *string `json:"qualification"`
	Specialization *string `json:"specialization"`
	Email          *string `json:"email"`
}

type ImageSection struct {
	Title  string   `json:"title"`
	Images []string `json:"images"`
}

type PlacementMember struct {
	Photo         *string `json:"photo"`
	Name          *string `json:"name"`
	Qualification *string `json:"qualification"`
	Designation   *string `json:"designation"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
}

type RecruitedStudent struct {
	SrNo           string `json:"sr_no"`
	StudentName    string `json:"student_name"`
	CompanyName    string `json:"company_name"`
	DepartmentName string `json:"department_name"`
}

type ProgramSubject struct {
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
}

type ProgramSemester struct {
	Semester string           `json:"semester"`
	Subjects []ProgramSubject `json:"subjects"`
}

type Program struct {
	Description []string          `json:"description"`
	Semesters   []ProgramSemester `json:"semesters"`
}

type InstituteDetail struct {
	Director          *Director          `json:"director"`
	Faculty           []FacultyMember    `json:"faculty"`
	Infrastructure    []ImageSection     `json:"infrastructure"`
	Gallery           []ImageSection     `json:"gallery"`
	Placement         []PlacementMember  `json:"placement"`
	StudentsRecruited []RecruitedStudent `json:"students_recruited"`
	Programs          map[string]Program `json:"programs"`
}

// FetchInstituteDetail scrapes one institute's public detail page.
// Sections parse independently, a malformed one just comes back empty.
func (c *Client) FetchInstituteDetail(ctx context.Context, instituteId int) (InstituteDetail, error) {
	ctx, span := tracer.Start(ctx, "client:FetchInstituteDetail")
	defer span.End()

	query := url.Values{"institute_id": {strconv.Itoa(instituteId)}}
	doc, err := c.getDocument(ctx, instituteDetailPage, query)
	if err != nil {
		return InstituteDetail{}, err
	}

	return InstituteDetail{
		Director:          c.parseDirector(doc),
		Faculty:           c.parseFaculty(doc),
		Infrastructure:    c.parseImageSections(doc, "div#infrastructure"),
		Gallery:           c.parseImageSections(doc, "div#gallery"),
		Placement:         c.parsePlacement(doc),
		StudentsRecruited: parseStudentsRecruited(doc),
		Programs:          parsePrograms(doc),
	}, nil
}

func (c *Client) parseDirector(doc *goquery.Document) *Director {
	directorDiv := doc.Find("div#intellectualmember div#director").First()
	if directorDiv.Length() == 0 {
		return nil
	}

	director := &Director{
		Name:               htmlutil.OptTextIn(directorDiv, "div.col-md-8 font b"),
		Qualification:      labelledUntilHr(directorDiv, "Qualification", ", "),
		Email:              htmlutil.OptTextIn(directorDiv, "a[href^='mailto:']"),
		TeachingExperience: labelledUntilHr(directorDiv, "Teaching Experience", " "),
		Message:            htmlutil.OptTextIn(directorDiv, "p"),
	}
	if src, ok := directorDiv.Find("div.col-md-4 img").First().Attr("src"); ok && src != "" {
		photo := c.absolute(src)
		director.Photo = &photo
	}
	return director
}

func (c *Client) parseFaculty(doc *goquery.Document) []FacultyMember {
	faculty := []FacultyMember{}
	doc.Find("div#intellectualmember div#principal div.col-md-6.mb-4").
		Each(func(_ int, card *goquery.Selection) {
			member := FacultyMember{
				Name:           htmlutil.OptTextIn(card, "font b"),
				Designation:    labelledUntilHr(card, "Designation", " "),
				Qualification:  labelledUntilHr(card, "Qualification", " "),
				Specialization: labelledUntilHr(card, "Specialization", " "),
				Email:          htmlutil.OptTextIn(card, "a[href^='mailto:']"),
			}
			if src, ok := card.Find("img").First().Attr("src"); ok && src != "" {
				photo := c.absolute(src)
				member.Photo = &photo
			}
			faculty = append(faculty, member)
		})
	return faculty
}

// sections are "<p><b>Title</b></p>" headers followed by .row blocks of
// images, running until the next <p>
func (c *Client) parseImageSections(doc *goquery.Document, selector string) []ImageSection {
	sections := []ImageSection{}
	doc.Find(selector).First().Find("p").Each(func(_ int, p *goquery.Selection) {
		title := htmlutil.CleanText(p.Find("b").First().Text())
		if title == "" {
			return
		}

		section := ImageSection{Title: title, Images: []string{}}
		for sibling := p.Next(); sibling.Length() > 0; sibling = sibling.Next() {
			if goquery.NodeName(sibling) == "p" {
				break
			}
			if !sibling.HasClass("row") {
				continue
			}
			sibling.Find("img").Each(func(_ int, img *goquery.Selection) {
				if src, ok := img.Attr("src"); ok && src != "" {
					section.Images = append(section.Images, c.absolute(src))
				}
			})
		}
		sections = append(sections, section)
	})
	return sections
}

func (c *Client) parsePlacement(doc *goquery.Document) []PlacementMember {
	placement := []PlacementMember{}
	doc.Find("div#placement div.col-md-4").Each(func(_ int, card *goquery.Selection) {
		member := PlacementMember{
			Name: htmlutil.OptTextIn(card, "font"),
		}
		if src, ok := card.Find("img").First().Attr("src"); ok && src != "" {
			photo := c.absolute(src)
			member.Photo = &photo
		}

		// the card's text runs are delimited with <hr>: name,
		// qualification, designation, phone, email
		chunks := splitOnHr(card.Nodes[0])
		pick := func(i int) *string {
			if i < len(chunks) {
				return &chunks[i]
			}
			return nil
		}
		member.Qualification = pick(1)
		member.Designation = pick(2)
		member.Phone = pick(3)
		member.Email = pick(4)

		if phone := htmlutil.OptTextIn(card, "a[href^='tel:']"); phone != nil {
			member.Phone = phone
		}
		if email := htmlutil.OptTextIn(card, "a[href*='mailto']"); email != nil {
			member.Email = email
		}
		placement = append(placement, member)
	})
	return placement
}

func splitOnHr(card *html.Node) []string {
	var parts []string
	var current []string
	flush := func() {
		joined := strings.TrimSpace(strings.Join(current, " "))
		if joined != "" {
			parts = append(parts, joined)
		}
		current = nil
	}
	for child := card.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "hr" {
			flush()
			continue
		}
		text := strings.TrimSpace(htmlutil.GetText(child))
		if text != "" {
			current = append(current, text)
		}
	}
	flush()
	return parts
}

func parseStudentsRecruited(doc *goquery.Document) []RecruitedStudent {
	students := []RecruitedStudent{}

	var tableNode *html.Node
	doc.Find("b").EachWithBreak(func(_ int, b *goquery.Selection) bool {
		if !strings.Contains(b.Text(), "Students Recruited") {
			return true
		}
		if parent := b.Nodes[0].Parent; parent != nil {
			tableNode = nextElement(parent, "table")
		}
		return false
	})
	if tableNode == nil {
		return students
	}

	table := goquery.NewDocumentFromNode(tableNode).Selection
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := htmlutil.RowCells(row)
		if len(cells) < 4 {
			return
		}
		students = append(students, RecruitedStudent{
			SrNo:           cells[0],
			StudentName:    cells[1],
			CompanyName:    cells[2],
			DepartmentName: cells[3],
		})
	})
	return students
}

func parsePrograms(doc *goquery.Document) map[string]Program {
	programs := map[string]Program{}
	programsDiv := doc.Find("div#programs").First()
	if programsDiv.Length() == 0 {
		return programs
	}

	programsDiv.Find("button.subtablink").Each(func(_ int, btn *goquery.Selection) {
		name := htmlutil.CleanText(btn.Text())
		if name == "" {
			return
		}
		section := programsDiv.Find("div[id='" + name + "']").First()
		if section.Length() == 0 {
			return
		}

		program := Program{Description: []string{}, Semesters: []ProgramSemester{}}
		section.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := htmlutil.CleanText(p.Text()); text != "" {
				program.Description = append(program.Description, text)
			}
		})

		section.Find("button.accordion-btn").Each(func(_ int, semBtn *goquery.Selection) {
			semester := ProgramSemester{
				Semester: htmlutil.CleanText(semBtn.Text()),
				Subjects: []ProgramSubject{},
			}
			panel := semBtn.NextFiltered("div").First()
			panel.Find("table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
				if i == 0 {
					return
				}
				cells := htmlutil.RowCells(row)
				if len(cells) < 2 {
					return
				}
				semester.Subjects = append(semester.Subjects, ProgramSubject{
					SubjectCode: cells[0],
					SubjectName: cells[1],
				})
			})
			program.Semesters = append(program.Semesters, semester)
		})

		programs[name] = program
	})
	return programs
}
