package metadata

import (
	"strings"
	"testing"
)

func FuzzConvertToResult(f *testing.F) {
	f.Add("Inception", "https://img.example.com/p.jpg", "  https://vid.example.com/t.mp4 ", 2010, 148)
	f.Add("", "", "   ", 0, 0)

	f.Fuzz(func(t *testing.T, title, poster, trailer string, year, duration int) {
		resp := apiResponse{
			Title:      title,
			PosterURL:  optionalString(poster),
			TrailerURL: optionalString(trailer),
		}
		if year != 0 {
			resp.ReleaseYear = &year
		}
		if duration != 0 {
			resp.DurationMins = &duration
		}

		result := convertToResult(resp)
		if result == nil {
			t.Fatalf("convertToResult returned nil result")
		}
		if result.PosterURL != nil && strings.TrimSpace(*result.PosterURL) == "" {
			t.Fatalf("poster url should be nil when blank")
		}
		if result.TrailerURL != nil && *result.TrailerURL != strings.TrimSpace(*result.TrailerURL) {
			t.Fatalf("trailer url should be trimmed")
		}
	})
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
