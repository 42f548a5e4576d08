package services

import (
	"fmt"
	"sort"
	"strings"

	"maya-backend/internal/domain/entities"
)

// languageTable maps a spoken-language display name to its transcription
// provider, language code and synthesis voice. One table with an explicit
// unsupported error replaces per-provider lookups, so a name either resolves
// to a full binding or fails loudly at selection time.
var languageTable = map[string]entities.LanguageBinding{
	// Languages the high-accuracy provider covers.
	"english":   {Provider: entities.ProviderDeepgram, Code: "en", VoiceID: "9BWtsMINqrJLrRacOk9x"},
	"hindi":     {Provider: entities.ProviderDeepgram, Code: "hi", VoiceID: "JNaMjd7t4u3EhgkVknn3"},
	"german":    {Provider: entities.ProviderDeepgram, Code: "de", VoiceID: "rAmra0SCIYOxYmRNDSm3"},
	"ukrainian": {Provider: entities.ProviderDeepgram, Code: "uk", VoiceID: "U4IxWQ3B5B0suleGgLcn"},
	"russian":   {Provider: entities.ProviderDeepgram, Code: "ru", VoiceID: "OowtKaZH9N7iuGbsd00l"},
	"italian":   {Provider: entities.ProviderDeepgram, Code: "it", VoiceID: "MLpDWJvrjFIdb63xbJp8"},

	// Languages routed to the whisper fallback. An empty code means
	// auto-detect.
	"urdu":       {Provider: entities.ProviderGroq, Code: "ur", VoiceID: "JNaMjd7t4u3EhgkVknn3"},
	"farsi":      {Provider: entities.ProviderGroq, Code: "fa", VoiceID: "bj1uMlYGikistcXNmFoh"},
	"arabic":     {Provider: entities.ProviderGroq, Code: "ar", VoiceID: "qi4PkV9c01kb869Vh7Su"},
	"auto":       {Provider: entities.ProviderGroq, Code: "", VoiceID: "9BWtsMINqrJLrRacOk9x"},
	"spanish":    {Provider: entities.ProviderGroq, Code: "es", VoiceID: "9BWtsMINqrJLrRacOk9x"},
	"french":     {Provider: entities.ProviderGroq, Code: "fr", VoiceID: "9BWtsMINqrJLrRacOk9x"},
	"chinese":    {Provider: entities.ProviderGroq, Code: "zh", VoiceID: "9BWtsMINqrJLrRacOk9x"},
	"japanese":   {Provider: entities.ProviderGroq, Code: "ja", VoiceID: "9BWtsMINqrJLrRacOk9x"},
	"korean":     {Provider: entities.ProviderGroq, Code: "ko", VoiceID: "9BWtsMINqrJLrRacOk9x"},
	"portuguese": {Provider: entities.ProviderGroq, Code: "pt", VoiceID: "9BWtsMINqrJLrRacOk9x"},
}

// ErrUnsupportedLanguage reports a language name absent from the table.
type ErrUnsupportedLanguage struct {
	Language string
}

func (e *ErrUnsupportedLanguage) Error() string {
	return fmt.Sprintf("language %q is not supported. Supported languages are: %s",
		e.Language, strings.Join(SupportedLanguages(), ", "))
}

// ResolveLanguage returns the binding for a language display name,
// case-insensitively.
func ResolveLanguage(name string) (entities.LanguageBinding, error) {
	binding, ok := languageTable[strings.ToLower(name)]
	if !ok {
		return entities.LanguageBinding{}, &ErrUnsupportedLanguage{Language: name}
	}
	return binding, nil
}

// SupportedLanguages lists every selectable language name, sorted.
func SupportedLanguages() []string {
	names := make([]string, 0, len(languageTable))
	for name := range languageTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultBinding is the binding active before any set-language request.
func DefaultBinding() entities.LanguageBinding {
	return languageTable["english"]
}
