package event

type Theme string

const (
	ThemeProgramming Theme = "programming"
	ThemeCulture     Theme = "culture"
	ThemeScience     Theme = "science"
	ThemeAdmin       Theme = "admin"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeProgramming, ThemeCulture, ThemeScience, ThemeAdmin:
		return true
	}
	return false
}

type Audience string

const (
	AudienceStudents Audience = "students"
	AudienceStaff    Audience = "staff"
	AudienceExternal Audience = "external"
	AudienceFamilies Audience = "families"
)

func (a Audience) IsValid() bool {
	switch a {
	case AudienceStudents, AudienceStaff, AudienceExternal, AudienceFamilies:
		return true
	}
	return false
}

type Modality string

const (
	ModalityPresencial Modality = "presencial"
	ModalityOnline     Modality = "online"
	ModalityHibrido    Modality = "hibrido"
)

func (m Modality) IsValid() bool {
	switch m {
	case ModalityPresencial, ModalityOnline, ModalityHibrido:
		return true
	}
	return false
}

// Status drives visibility: only published events reach members.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusUnderReview Status = "under_review"
	StatusPublished   Status = "published"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusUnderReview, StatusPublished:
		return true
	}
	return false
}
