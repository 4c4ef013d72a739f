package event

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

// enumTags maps each binding tag to the values it accepts.
var enumTags = map[string][]string{
	"event_theme":    {string(ThemeProgramming), string(ThemeCulture), string(ThemeScience), string(ThemeAdmin)},
	"event_audience": {string(AudienceStudents), string(AudienceStaff), string(AudienceExternal), string(AudienceFamilies)},
	"event_modality": {string(ModalityPresencial), string(ModalityOnline), string(ModalityHibrido)},
	"event_status":   {string(StatusDraft), string(StatusUnderReview), string(StatusPublished)},
}

// RegisterValidators installs the enum rules used in the request binding tags.
func RegisterValidators(v *validator.Validate) error {
	for tag, allowed := range enumTags {
		allowed := allowed
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return slices.Contains(allowed, fl.Field().String())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AllowedValues returns the accepted values of an enum tag, or nil for other tags.
func AllowedValues(tag string) []string {
	return slices.Clone(enumTags[tag])
}
