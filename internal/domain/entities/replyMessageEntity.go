package entities

// ReplyMessage is one unit of the bot's structured reply. The text, facial
// expression and animation come from the reply-generation model; audio and
// lipsync are attached afterwards by the enrichment stage.
type ReplyMessage struct {
	Text             string   `json:"text"`
	FacialExpression string   `json:"facialExpression"`
	Animation        string   `json:"animation"`
	Audio            string   `json:"audio,omitempty"`
	Lipsync          *Lipsync `json:"lipsync,omitempty"`
}

// Lipsync is the viseme timeline extracted from a synthesized WAV file,
// matching the rhubarb JSON output format consumed by the avatar frontend.
type Lipsync struct {
	Metadata  LipsyncMetadata `json:"metadata"`
	MouthCues []MouthCue      `json:"mouthCues"`
}

type LipsyncMetadata struct {
	SoundFile string  `json:"soundFile"`
	Duration  float64 `json:"duration"`
}

// MouthCue is a single timed mouth shape. Value is one of the rhubarb
// shape codes (A-H, X).
type MouthCue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Value string  `json:"value"`
}
