package gnums

import (
	"context"
	"fmt"

	"bmu-backend/lib/htmlutil"
	"bmu-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type Address struct {
	Line1   *string `json:"line1"`
	Line2   *string `json:"line2"`
	City    *string `json:"city"`
	Pincode *string `json:"pincode"`
	Taluka  *string `json:"taluka"`
	District *string `json:"district"`
	State    *string `json:"state"`
	Country  *string `json:"country"`
}

type PersonalInfo struct {
	Title                  *string `json:"title"`
	StudentName            *string `json:"student_name"`
	Gender                 *string `json:"gender"`
	BirthDate              *string `json:"birth_date"`
	BirthPlace             *string `json:"birth_place"`
	Religion               *string `json:"religion"`
	CasteCategory          *string `json:"caste_category"`
	Caste                  *string `json:"caste"`
	DomicileState          *string `json:"domicile_state"`
	Nationality            *string `json:"nationality"`
	Region                 *string `json:"region"`
	BloodGroup             *string `json:"blood_group"`
	MotherTongue           *string `json:"mother_tongue"`
	IsNri                  *string `json:"is_nri"`
	IsEconomicallyBackward *string `json:"is_economically_backward"`
	AadhaarCardNo          *string `json:"aadhaar_card_no"`
	AadhaarName            *string `json:"aadhaar_name"`
	AppronSize             *string `json:"appron_size"`
	IsPwd                  *string `json:"is_pwd"`
	PwdDescription         *string `json:"pwd_description"`
	IsHostel               *string `json:"is_hostel"`
	HostelDescription      *string `json:"hostel_description"`
	FamilyAnnualIncome     *string `json:"family_annual_income"`
}

type AdmissionInfo struct {
	Program               *string `json:"program"`
	AdmissionQuota        *string `json:"admission_quota"`
	AdmissionType         *string `json:"admission_type"`
	AdmissionSemester     *string `json:"admission_semester"`
	AdmissionYear         *string `json:"admission_year"`
	AdmissionAcademicYear *string `json:"admission_academic_year"`
	DateOfAdmission       *string `json:"date_of_admission"`
	CampusReportingDate   *string `json:"campus_reporting_date"`
	StudentKitIssued      *string `json:"student_kit_issued"`
	StudentKitDatetime    *string `json:"student_kit_datetime"`
	StudentKitIssuedBy    *string `json:"student_kit_issued_by"`
	AbcNo                 *string `json:"abc_no"`
	AllottedCategory      *string `json:"allotted_category"`
}

type ContactInfo struct {
	Mobile           *string `json:"mobile"`
	Whatsapp         *string `json:"whatsapp"`
	Email            *string `json:"email"`
	PermanentAddress Address `json:"permanent_address"`
	PresentAddress   Address `json:"present_address"`
}

type ParentDetails struct {
	Title          *string `json:"title,omitempty"`
	RelationType   *string `json:"relation_type,omitempty"`
	FirstName      *string `json:"first_name"`
	Mobile         *string `json:"mobile"`
	Email          *string `json:"email"`
	Qualification  *string `json:"qualification"`
	Designation    *string `json:"designation,omitempty"`
	Occupation     *string `json:"occupation"`
	Organization   *string `json:"organization,omitempty"`
	OccupationCity *string `json:"occupation_city,omitempty"`
}

type ParentsInfo struct {
	Father   ParentDetails `json:"father"`
	Mother   ParentDetails `json:"mother"`
	Guardian ParentDetails `json:"guardian"`
}

type EducationDetail struct {
	Degree              string  `json:"degree"`
	ExamName            string  `json:"exam_name"`
	Specialization      string  `json:"specialization"`
	ResultClass         string  `json:"result_class"`
	BoardUniversity     string  `json:"board_university"`
	SchoolCollegeName   string  `json:"school_college_name"`
	PassingMonth        string  `json:"passing_month"`
	SeatNo              string  `json:"seat_no"`
	TotalMark           string  `json:"total_mark"`
	ObtainedMark        string  `json:"obtained_mark"`
	Percentage          string  `json:"percentage"`
	StateId             string  `json:"state_id"`
	PassedFromDistrict  string  `json:"passed_from_district"`
	PlaceOfStudy        string  `json:"place_of_study"`
	MediumOfInstruction string  `json:"medium_of_instruction"`
	Sgpa                *string `json:"sgpa,omitempty"`
	Cgpa                *string `json:"cgpa,omitempty"`
}

type Profile struct {
	PersonalInfo           PersonalInfo               `json:"personal_info"`
	AdmissionInfo          AdmissionInfo              `json:"admission_info"`
	ContactInfo            ContactInfo                `json:"contact_info"`
	ParentsInfo            ParentsInfo                `json:"parents_info"`
	EducationQualification map[string]EducationDetail `json:"education_qualification"`
}

const profileIdPrefix = "ctl00_cphPageContent_ucStudentInfoAdmission_"

func (c *Client) FetchProfile(ctx context.Context, session Session) (Profile, error) {
	ctx, span := tracer.Start(ctx, "client:FetchProfile")
	defer span.End()

	doc, err := c.getAuthedPage(ctx, session, profilePage, nil)
	if err != nil {
		return Profile{}, err
	}
	return parseProfile(doc), nil
}

func parseProfile(doc *goquery.Document) Profile {
	field := func(suffix string) *string {
		return htmlutil.OptTextID(doc, profileIdPrefix+suffix)
	}
	yes := func(v *string) bool {
		return v != nil && *v == "Yes"
	}

	personal := PersonalInfo{
		Title:                  field("lblHonorific"),
		StudentName:            field("lblStudentLCName"),
		Gender:                 field("lblGender"),
		BirthDate:              field("lblBirthDate"),
		BirthPlace:             field("lblBirthPlace"),
		Religion:               field("lblReligionID"),
		CasteCategory:          field("lblCasteCategoryID"),
		Caste:                  field("lblCasteID"),
		DomicileState:          field("lblStateType"),
		Nationality:            field("lblNationalityCountryID"),
		Region:                 field("lblRegion"),
		BloodGroup:             field("lblBloodGroup"),
		MotherTongue:           field("lblMotherTongueLanguageID"),
		IsNri:                  field("lblIsNRI"),
		IsEconomicallyBackward: field("lblIsEconomicallyBackward"),
		AadhaarCardNo:          field("lblAadhaarCardNo"),
		AadhaarName:            field("lblNameAsPerAadhaarCard"),
		AppronSize:             field("lblAppronSize"),
		IsPwd:                  field("lblIsPWD"),
		IsHostel:               field("lblIsHostelFacilityRequired"),
		FamilyAnnualIncome:     field("lblFamilyAnnualIncome"),
	}
	if yes(personal.IsPwd) {
		personal.PwdDescription = field("lblPWDDescription")
	}
	if yes(personal.IsHostel) {
		personal.HostelDescription = field("lblHostelFacilityDescription")
	}

	admission := AdmissionInfo{
		Program:               field("lblProgramID"),
		AdmissionQuota:        field("lblAdmissionQuotaID"),
		AdmissionType:         field("lblAdmissionTypeID"),
		AdmissionSemester:     field("lblAdmissionSemester"),
		AdmissionYear:         field("lblAdmissionYearID"),
		AdmissionAcademicYear: field("lblAdmissionAcademicYearID"),
		DateOfAdmission:       field("lblAdmissionReportingDate"),
		CampusReportingDate:   field("lblCampusReportingDate"),
		StudentKitIssued:      field("lblIsStudentKitIssued"),
		StudentKitDatetime:    field("lblStudentKitIssuedDateTime"),
		StudentKitIssuedBy:    field("lblStudentKitIssuedByUserID"),
		AbcNo:                 field("lblABCID"),
		AllottedCategory:      field("lblAdmissionCasteCategoryID"),
	}

	email := field("lblEmailAlternate")
	if email == nil {
		email = field("lblEmail")
	}
	contact := ContactInfo{
		Mobile:   field("lblPhoneStudent1"),
		Whatsapp: field("lblWhatsappNo"),
		Email:    email,
		PermanentAddress: Address{
			Line1:    field("lblPermanentAddressLine1"),
			Line2:    field("lblPermanentAddressLine2"),
			City:     field("lblPermanentCity"),
			Pincode:  field("lblPermanentPincode"),
			Taluka:   field("lblPermanentTaluka"),
			District: field("lblPermanentDistrictID"),
			State:    field("lblPermanentStateID"),
			Country:  field("lblPermanentCountryID"),
		},
		PresentAddress: Address{
			Line1:    field("lblPresentAddressLine1"),
			Line2:    field("lblPresentAddressLine2"),
			City:     field("lblPresentCity"),
			Pincode:  field("lblPresentPincode"),
			Taluka:   field("lblPresentTaluka"),
			District: field("lblPresentDistrictID"),
			State:    field("lblPresentStateID"),
			Country:  field("lblPresentCountryID"),
		},
	}

	parents := ParentsInfo{
		Father: ParentDetails{
			Title:          field("lblFatherHonorific"),
			FirstName:      field("lblFatherName"),
			Mobile:         field("lblFatherMobile"),
			Email:          field("lblFatherEmail"),
			Qualification:  field("lblFatherQualification"),
			Designation:    field("lblFatherDesignation"),
			Occupation:     field("lblFatherOccupation"),
			Organization:   field("lblFatherOrganizationName"),
			OccupationCity: field("lblFatherOccupationCity"),
		},
		Mother: ParentDetails{
			Title:          field("lblMotherHonorific"),
			FirstName:      field("lblMotherName"),
			Mobile:         field("lblMotherMobile"),
			Email:          field("lblMotherEmail"),
			Qualification:  field("lblMotherQualification"),
			Designation:    field("lblMotherDesignation"),
			Occupation:     field("lblMotherOccupation"),
			Organization:   field("lblMotherOrganizationName"),
			OccupationCity: field("lblMotherOccupationCity"),
		},
		Guardian: ParentDetails{
			RelationType:   field("lblGuardianRelationTypeID"),
			FirstName:      field("lblGuardianName"),
			Mobile:         field("lblGuardianMobile"),
			Email:          field("lblGuardianEmail"),
			Qualification:  field("lblGuardianQualification"),
			Occupation:     field("lblGuardianOccupation"),
			Designation:    field("lblGuardianDesignation"),
			Organization:   field("lblGuardianOrganizationName"),
			OccupationCity: field("lblGuardianOccupationCity"),
		},
	}

	education := map[string]EducationDetail{}
	for idx, level := range []string{"SSC", "HSC", "Bachelor"} {
		prefix := fmt.Sprintf("%srpEducationQualification_ctl0%d_", profileIdPrefix, idx)
		labelled := func(suffix string) string {
			text := htmlutil.OptTextID(doc, prefix+suffix)
			if text == nil {
				return ""
			}
			return textutil.CleanLabelled(*text)
		}
		detail := EducationDetail{
			Degree:              labelled("divDegreeID"),
			ExamName:            labelled("divExamName"),
			Specialization:      labelled("divSpecialization"),
			ResultClass:         labelled("divResultClass"),
			BoardUniversity:     labelled("divBoardUniversityID"),
			SchoolCollegeName:   labelled("divSchoolCollegeName"),
			PassingMonth:        labelled("divPassingMonth"),
			SeatNo:              labelled("divSeatNo"),
			TotalMark:           labelled("divTotalMark"),
			ObtainedMark:        labelled("divObtainedMark"),
			Percentage:          labelled("divPercentage"),
			StateId:             labelled("divStateID"),
			PassedFromDistrict:  labelled("divDistrictID"),
			PlaceOfStudy:        labelled("divPlaceOfStudy"),
			MediumOfInstruction: labelled("divMediumofInstructionLanguageID"),
		}
		if level == "Bachelor" {
			detail.Sgpa = htmlutil.OptText(doc,
				"div.static-info:has(span:contains('SGPA')) div.gn-view-label-value span")
			detail.Cgpa = htmlutil.OptText(doc,
				"div.static-info:has(span:contains('CGPA')) div.gn-view-label-value span")
		}
		education[level] = detail
	}

	return Profile{
		PersonalInfo:           personal,
		AdmissionInfo:          admission,
		ContactInfo:            contact,
		ParentsInfo:            parents,
		EducationQualification: education,
	}
}
