package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// AllCategories are the interests offered at onboarding. In the review
// screen the digits 1-9 toggle them in this order.
var AllCategories = []string{
	"Science",
	"History",
	"Politics",
	"Technology",
	"Health",
	"Art",
	"Environment",
	"Culture",
	"Economics",
}

// OnboardingResult contains the values entered on first run
type OnboardingResult struct {
	Username   string
	Categories []string
}

// NewOnboardingForm builds the first-run form. prev pre-fills the fields
// after a logout or an expired profile.
func NewOnboardingForm(prev *OnboardingResult, theme string) (*huh.Form, *OnboardingResult) {
	result := &OnboardingResult{}
	if prev != nil {
		result.Username = prev.Username
		result.Categories = append(result.Categories, prev.Categories...)
	}

	options := make([]huh.Option[string], 0, len(AllCategories))
	for _, c := range AllCategories {
		options = append(options, huh.NewOption(c, c))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Placeholder("Your Wikipedia username").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("username is required")
					}
					return nil
				}).
				Value(&result.Username),

			huh.NewMultiSelect[string]().
				Title("Interests").
				Description("Pick the categories you want cleanup suggestions for").
				Options(options...).
				Validate(func(picked []string) error {
					if len(picked) == 0 {
						return errors.New("pick at least one category")
					}
					return nil
				}).
				Value(&result.Categories),
		),
	).WithTheme(huhTheme(theme)).WithShowHelp(true)

	return form, result
}

func huhTheme(name string) *huh.Theme {
	switch name {
	case "catppuccin":
		return huh.ThemeCatppuccin()
	case "dracula":
		return huh.ThemeDracula()
	case "nord", "gruvbox":
		return huh.ThemeBase16()
	default:
		return huh.ThemeCharm()
	}
}
