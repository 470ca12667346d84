package gnums

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const profilePageHtml = `<html><body>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblHonorific">Mr.</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblStudentLCName">Patel Raj Kumar</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblGender">Male</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblBirthDate">14-02-2006</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblIsPWD">No</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblPWDDescription">should stay hidden</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblIsHostelFacilityRequired">Yes</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblHostelFacilityDescription">Boys hostel block B</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblProgramID">BBA</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblAdmissionSemester">1</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblPhoneStudent1">9876543210</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblEmail">raj@example.com</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblPermanentCity">Surat</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblFatherName">Kumar</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblFatherMobile">9123456780</span>
<div id="ctl00_cphPageContent_ucStudentInfoAdmission_rpEducationQualification_ctl00_divDegreeID">Degree : SSC</div>
<div id="ctl00_cphPageContent_ucStudentInfoAdmission_rpEducationQualification_ctl00_divPercentage">Percentage : 88.40</div>
<div id="ctl00_cphPageContent_ucStudentInfoAdmission_rpEducationQualification_ctl01_divDegreeID">Degree : HSC</div>
</body></html>`

func TestParseProfile(t *testing.T) {
	doc := docFromString(t, profilePageHtml)
	profile := parseProfile(doc)

	require.Equal(t, "Patel Raj Kumar", *profile.PersonalInfo.StudentName)
	require.Equal(t, "Male", *profile.PersonalInfo.Gender)
	require.Nil(t, profile.PersonalInfo.Religion)

	// the PWD description is only read when the flag says Yes
	require.Equal(t, "No", *profile.PersonalInfo.IsPwd)
	require.Nil(t, profile.PersonalInfo.PwdDescription)
	require.Equal(t, "Yes", *profile.PersonalInfo.IsHostel)
	require.Equal(t, "Boys hostel block B", *profile.PersonalInfo.HostelDescription)

	require.Equal(t, "BBA", *profile.AdmissionInfo.Program)
	require.Equal(t, "1", *profile.AdmissionInfo.AdmissionSemester)

	require.Equal(t, "9876543210", *profile.ContactInfo.Mobile)
	require.Equal(t, "Surat", *profile.ContactInfo.PermanentAddress.City)
	require.Equal(t, "Kumar", *profile.ParentsInfo.Father.FirstName)
	require.Equal(t, "9123456780", *profile.ParentsInfo.Father.Mobile)

	require.Len(t, profile.EducationQualification, 3)
	require.Equal(t, "SSC", profile.EducationQualification["SSC"].Degree)
	require.Equal(t, "88.40", profile.EducationQualification["SSC"].Percentage)
	require.Equal(t, "HSC", profile.EducationQualification["HSC"].Degree)
	// unrendered repeater slots come back empty rather than missing
	require.Equal(t, "", profile.EducationQualification["Bachelor"].Degree)
}

func TestParseProfileEmailFallback(t *testing.T) {
	// the primary address wins when the alternate is absent
	doc := docFromString(t, `<html><body>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblEmail">primary@example.com</span>
</body></html>`)
	profile := parseProfile(doc)
	require.Equal(t, "primary@example.com", *profile.ContactInfo.Email)

	doc = docFromString(t, `<html><body>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblEmail">primary@example.com</span>
<span id="ctl00_cphPageContent_ucStudentInfoAdmission_lblEmailAlternate">alt@example.com</span>
</body></html>`)
	profile = parseProfile(doc)
	require.Equal(t, "alt@example.com", *profile.ContactInfo.Email)
}
