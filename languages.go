package jsontl

import "sort"

// SupportedLanguages maps language codes to human-readable names.
// Source and target languages must come from this fixed set.
var SupportedLanguages = map[string]string{
	"en":    "English",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"it":    "Italian",
	"pt":    "Portuguese",
	"ja":    "Japanese",
	"zh-CN": "Chinese (Simplified)",
	"ru":    "Russian",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"ko":    "Korean",
	"nl":    "Dutch",
	"pl":    "Polish",
	"sv":    "Swedish",
	"tr":    "Turkish",
	"vi":    "Vietnamese",
	"ca":    "Catalan",
}

// detectionAliases maps codes produced by language detection onto the
// supported table where they differ (detectors report bare ISO codes).
var detectionAliases = map[string]string{
	"zh": "zh-CN",
}

// IsSupported reports whether the language code is in the supported set.
func IsSupported(code string) bool {
	_, ok := SupportedLanguages[code]
	return ok
}

// LanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func LanguageName(code string) string {
	if name, ok := SupportedLanguages[code]; ok {
		return name
	}
	return code
}

// NormalizeDetected maps a detected language code onto the supported set.
// Returns the empty string when the code has no supported equivalent.
func NormalizeDetected(code string) string {
	if IsSupported(code) {
		return code
	}
	if alias, ok := detectionAliases[code]; ok {
		return alias
	}
	return ""
}

// LanguageCodes returns all supported codes sorted by display name.
func LanguageCodes() []string {
	codes := make([]string, 0, len(SupportedLanguages))
	for code := range SupportedLanguages {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return SupportedLanguages[codes[i]] < SupportedLanguages[codes[j]]
	})
	return codes
}
