package validators

import (
	"errors"
	"regexp"
	"slices"
)

var (
	ErrThemeInvalid         = errors.New("theme must be one of: light, dark, auto")
	ErrLanguageInvalid      = errors.New("language must be a valid ISO language code (e.g. en, en-US)")
	ErrStudyDurationInvalid = errors.New("study duration must be between 5 and 180 minutes")
	ErrBreakDurationInvalid = errors.New("break duration must be between 1 and 60 minutes")
	ErrDailyGoalInvalid     = errors.New("daily study goal must be between 15 and 720 minutes")
)

var (
	validThemes     = []string{"light", "dark", "auto"}
	languagePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
)

func ThemeValidator(t string) error {
	if !slices.Contains(validThemes, t) {
		return ErrThemeInvalid
	}
	return nil
}

func LanguageValidator(l string) error {
	if !languagePattern.MatchString(l) {
		return ErrLanguageInvalid
	}
	return nil
}

func StudyDurationValidator(min int) error {
	if min < 5 || min > 180 {
		return ErrStudyDurationInvalid
	}
	return nil
}

func BreakDurationValidator(min int) error {
	if min < 1 || min > 60 {
		return ErrBreakDurationInvalid
	}
	return nil
}

func DailyGoalValidator(min int) error {
	if min < 15 || min > 720 {
		return ErrDailyGoalInvalid
	}
	return nil
}
