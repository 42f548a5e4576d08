package entities

// TranscriptionProvider names one of the speech-to-text backends.
type TranscriptionProvider string

const (
	ProviderDeepgram TranscriptionProvider = "deepgram"
	ProviderGroq     TranscriptionProvider = "groq"
)

// LanguageBinding is the process-wide selection of transcription provider,
// language code and synthesis voice active for the current session. An empty
// Code means the provider should auto-detect the spoken language.
type LanguageBinding struct {
	Provider TranscriptionProvider
	Code     string
	VoiceID  string
}

// Address is the reverse-geocoded location attached to the persona before
// requesting recommendations.
type Address struct {
	Country string
	State   string
}
