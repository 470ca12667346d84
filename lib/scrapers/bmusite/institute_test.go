package bmusite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const instituteDetailHtml = `<html><body>
<div id="intellectualmember">
<div id="director">
<div class="col-md-4"><img src="uploads/staff/sharma.jpg" /></div>
<div class="col-md-8">
<font><b>Dr. A Sharma</b></font>
<div><b>Qualification:</b></div> M.Com., Ph.D. <hr/>
<div><b>Teaching Experience:</b></div> 20 years <hr/>
<a href="mailto:director@bmusurat.ac.in">director@bmusurat.ac.in</a>
<p>Welcome to the institute.</p>
</div>
</div>
<div id="principal">
<div class="col-md-6 mb-4">
<img src="uploads/staff/mehta.jpg" />
<font><b>Prof. B Mehta</b></font>
<div><b>Designation:</b></div> Assistant Professor <hr/>
<div><b>Qualification:</b></div> M.B.A. <hr/>
<div><b>Specialization:</b></div> Finance <hr/>
<a href="mailto:b.mehta@bmusurat.ac.in">b.mehta@bmusurat.ac.in</a>
</div>
</div>
</div>
<div id="infrastructure">
<p><b>Computer Lab</b></p>
<div class="row"><img src="uploads/infra/lab1.jpg" /><img src="uploads/infra/lab2.jpg" /></div>
<p><b>Library</b></p>
<div class="row"><img src="uploads/infra/library.jpg" /></div>
</div>
<div id="placement">
<div class="col-md-4">
<img src="uploads/staff/joshi.jpg" />
<font>Mr. C Joshi</font>
<hr/> M.H.R.M. <hr/> Placement Officer <hr/> 9876501234 <hr/> placement@bmusurat.ac.in
</div>
<p><b>Students Recruited</b></p>
<table>
<tr><th>Sr</th><th>Student</th><th>Company</th><th>Department</th></tr>
<tr><td>1</td><td>Raj Patel</td><td>TCS</td><td>BMCCA</td></tr>
<tr><td>2</td><td>Priya Desai</td><td>Infosys</td><td>BMCM</td></tr>
</table>
</div>
<div id="programs">
<button class="subtablink">BBA</button>
<div id="BBA">
<p>A three year management degree.</p>
<button class="accordion-btn">Semester 1</button>
<div>
<table>
<tr><th>Code</th><th>Subject</th></tr>
<tr><td>CC-101</td><td>Financial Accounting</td></tr>
<tr><td>CC-102</td><td>Business Maths</td></tr>
</table>
</div>
</div>
</div>
</body></html>`

func TestParseDirector(t *testing.T) {
	client := testClient(t, "https://site.test")
	doc := docFromString(t, instituteDetailHtml)

	director := client.parseDirector(doc)
	require.NotNil(t, director)
	require.Equal(t, "Dr. A Sharma", *director.Name)
	require.Equal(t, "M.Com., Ph.D.", *director.Qualification)
	require.Equal(t, "20 years", *director.TeachingExperience)
	require.Equal(t, "director@bmusurat.ac.in", *director.Email)
	require.Equal(t, "Welcome to the institute.", *director.Message)
	require.Equal(t, "https://site.test/uploads/staff/sharma.jpg", *director.Photo)

	require.Nil(t, client.parseDirector(docFromString(t, "<html><body></body></html>")))
}

func TestParseFaculty(t *testing.T) {
	client := testClient(t, "https://site.test")
	doc := docFromString(t, instituteDetailHtml)

	faculty := client.parseFaculty(doc)
	require.Len(t, faculty, 1)
	member := faculty[0]
	require.Equal(t, "Prof. B Mehta", *member.Name)
	require.Equal(t, "Assistant Professor", *member.Designation)
	require.Equal(t, "M.B.A.", *member.Qualification)
	require.Equal(t, "Finance", *member.Specialization)
	require.Equal(t, "b.mehta@bmusurat.ac.in", *member.Email)
	require.Equal(t, "https://site.test/uploads/staff/mehta.jpg", *member.Photo)
}

func TestParseImageSections(t *testing.T) {
	client := testClient(t, "https://site.test")
	doc := docFromString(t, instituteDetailHtml)

	sections := client.parseImageSections(doc, "div#infrastructure")
	require.Len(t, sections, 2)
	require.Equal(t, "Computer Lab", sections[0].Title)
	require.Equal(t, []string{
		"https://site.test/uploads/infra/lab1.jpg",
		"https://site.test/uploads/infra/lab2.jpg",
	}, sections[0].Images)
	require.Equal(t, "Library", sections[1].Title)
	require.Len(t, sections[1].Images, 1)

	require.Empty(t, client.parseImageSections(doc, "div#gallery"))
}

func TestParsePlacement(t *testing.T) {
	client := testClient(t, "https://site.test")
	doc := docFromString(t, instituteDetailHtml)

	placement := client.parsePlacement(doc)
	require.Len(t, placement, 1)
	member := placement[0]
	require.Equal(t, "Mr. C Joshi", *member.Name)
	require.Equal(t, "M.H.R.M.", *member.Qualification)
	require.Equal(t, "Placement Officer", *member.Designation)
	require.Equal(t, "9876501234", *member.Phone)
	require.Equal(t, "placement@bmusurat.ac.in", *member.Email)
	require.Equal(t, "https://site.test/uploads/staff/joshi.jpg", *member.Photo)
}

func TestParseStudentsRecruited(t *testing.T) {
	doc := docFromString(t, instituteDetailHtml)

	students := parseStudentsRecruited(doc)
	require.Len(t, students, 2)
	require.Equal(t, RecruitedStudent{
		SrNo:           "1",
		StudentName:    "Raj Patel",
		CompanyName:    "TCS",
		DepartmentName: "BMCCA",
	}, students[0])

	require.Empty(t, parseStudentsRecruited(docFromString(t, "<html><body></body></html>")))
}

func TestParsePrograms(t *testing.T) {
	doc := docFromString(t, instituteDetailHtml)

	programs := parsePrograms(doc)
	require.Len(t, programs, 1)
	program, ok := programs["BBA"]
	require.True(t, ok)
	require.Equal(t, []string{"A three year management degree."}, program.Description)

	require.Len(t, program.Semesters, 1)
	semester := program.Semesters[0]
	require.Equal(t, "Semester 1", semester.Semester)
	require.Equal(t, []ProgramSubject{
		{SubjectCode: "CC-101", SubjectName: "Financial Accounting"},
		{SubjectCode: "CC-102", SubjectName: "Business Maths"},
	}, semester.Subjects)
}
