package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"maya-backend/internal/domain/entities"
	Iservices "maya-backend/internal/domain/interfaces/services"
	"maya-backend/internal/infra/logger"
)

// fallbackTranscript is the sentinel used when transcription degrades; an
// empty turn still flows through the pipeline and yields a clarification
// reply instead of an error.
const fallbackTranscript = ""

// PersonaStore is the slice of the persona repository the pipeline needs for
// the background document update.
type PersonaStore interface {
	Load() (map[string]any, error)
	ReplaceFromModel(doc map[string]any) error
}

// TurnPipeline drives one recorded utterance through transcription, reply
// generation, audio/lip-sync enrichment and the two background document
// updates.
//
// Ordering: transcription completes before any state mutation; reply
// generation completes before enrichment; enrichment completes before the
// messages are returned. The persona update and the form extraction are
// fire-and-forget with their own timeouts and are never awaited by the
// response path.
type TurnPipeline struct {
	Logger       *logger.Logger
	Session      *Session
	SpeechToText map[entities.TranscriptionProvider]Iservices.ISpeechToText
	Chat         Iservices.IChatService
	Synthesizer  Iservices.ISpeechSynthesizer
	Visemes      Iservices.IVisemeExtractor
	Persona      PersonaStore

	// AudioDir receives the per-message WAV and timeline artifacts.
	AudioDir string

	// BackgroundTimeout bounds each fire-and-forget task.
	BackgroundTimeout time.Duration

	bg sync.WaitGroup
}

func NewTurnPipeline(
	log *logger.Logger,
	session *Session,
	stt map[entities.TranscriptionProvider]Iservices.ISpeechToText,
	chat Iservices.IChatService,
	synthesizer Iservices.ISpeechSynthesizer,
	visemes Iservices.IVisemeExtractor,
	persona PersonaStore,
	audioDir string,
) *TurnPipeline {
	return &TurnPipeline{
		Logger:            log,
		Session:           session,
		SpeechToText:      stt,
		Chat:              chat,
		Synthesizer:       synthesizer,
		Visemes:           visemes,
		Persona:           persona,
		AudioDir:          audioDir,
		BackgroundTimeout: 45 * time.Second,
	}
}

// Run processes one turn and returns the enriched reply messages. A reply
// generation failure is fatal for the turn; every other stage degrades.
func (tp *TurnPipeline) Run(ctx context.Context, audio []byte) ([]entities.ReplyMessage, error) {
	tp.Session.TurnMu.Lock()
	defer tp.Session.TurnMu.Unlock()

	turnID := uuid.NewString()
	binding := tp.Session.Binding()

	transcript := tp.transcribe(ctx, binding, audio, turnID)
	tp.Session.AppendUserMessage(transcript)

	userHistory, botHistory := tp.Session.History()

	// The persona update runs concurrently with reply generation and must
	// never delay or fail the user-facing response.
	tp.spawn("persona-update", func(bgCtx context.Context) error {
		return tp.updatePersona(bgCtx, transcript)
	})

	replyStart := time.Now()
	messages, err := tp.Chat.GenerateReply(ctx, userHistory, botHistory, transcript)
	if err != nil {
		return nil, fmt.Errorf("reply generation failed: %w", err)
	}
	metricStageSeconds.WithLabelValues("reply").Observe(time.Since(replyStart).Seconds())

	tp.Session.AppendBotMessage(messages[0].Text)

	enriched := tp.enrichMessages(ctx, messages, binding.VoiceID, turnID)

	tp.spawn("form-extraction", func(bgCtx context.Context) error {
		return tp.extractForm(bgCtx)
	})

	metricTurns.Inc()
	return enriched, nil
}

// WaitBackground blocks until all spawned background tasks have finished.
// Production callers never use it; tests do, to observe background outcomes
// deterministically.
func (tp *TurnPipeline) WaitBackground() {
	tp.bg.Wait()
}

// transcribe routes the audio to the bound provider. Routing and transport
// failures both degrade to the empty transcript.
func (tp *TurnPipeline) transcribe(ctx context.Context, binding entities.LanguageBinding, audio []byte, turnID string) string {
	stt, ok := tp.SpeechToText[binding.Provider]
	if !ok {
		metricRoutingFailures.Inc()
		tp.Logger.Error("No transcription provider for language binding", logrus.Fields{
			"turn":     turnID,
			"provider": string(binding.Provider),
			"code":     binding.Code,
		})
		return fallbackTranscript
	}

	start := time.Now()
	text, err := stt.Transcribe(ctx, audio, binding.Code)
	metricStageSeconds.WithLabelValues("transcription").Observe(time.Since(start).Seconds())
	if err != nil {
		tp.Logger.Error(fmt.Sprintf("Transcription failed, continuing with empty transcript: %v", err), logrus.Fields{
			"turn":     turnID,
			"provider": string(binding.Provider),
		})
		return fallbackTranscript
	}

	tp.Logger.Info("Transcription received", logrus.Fields{"turn": turnID, "transcript": text})
	return text
}

// enrichMessages attaches audio and a viseme timeline to each message in
// order. Messages with empty text pass through untouched; a message whose
// enrichment fails is dropped rather than returned half-populated, and the
// rest of the batch continues.
func (tp *TurnPipeline) enrichMessages(ctx context.Context, messages []entities.ReplyMessage, voiceID, turnID string) []entities.ReplyMessage {
	start := time.Now()
	defer func() {
		metricStageSeconds.WithLabelValues("enrichment").Observe(time.Since(start).Seconds())
	}()

	enriched := make([]entities.ReplyMessage, 0, len(messages))
	for i := range messages {
		message := messages[i]
		if message.Text == "" {
			enriched = append(enriched, message)
			continue
		}

		if err := tp.enrichOne(ctx, &message, i, voiceID); err != nil {
			tp.Logger.Error(fmt.Sprintf("Enrichment failed, dropping message %d: %v", i, err), logrus.Fields{"turn": turnID})
			continue
		}
		enriched = append(enriched, message)
	}
	return enriched
}

func (tp *TurnPipeline) enrichOne(ctx context.Context, message *entities.ReplyMessage, index int, voiceID string) error {
	if err := os.MkdirAll(tp.AudioDir, 0o755); err != nil {
		return fmt.Errorf("failed to create audio dir: %w", err)
	}

	pcm, err := tp.Synthesizer.Synthesize(ctx, message.Text, voiceID)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	wavPath := filepath.Join(tp.AudioDir, fmt.Sprintf("message_%d.wav", index))
	if err := WriteWAV(wavPath, pcm, PipelineSampleRate); err != nil {
		return err
	}

	timelinePath := filepath.Join(tp.AudioDir, fmt.Sprintf("message_%d.json", index))
	lipsync, err := tp.Visemes.ExtractVisemes(ctx, wavPath, timelinePath)
	if err != nil {
		return fmt.Errorf("viseme extraction failed: %w", err)
	}

	audio, err := fileToBase64(wavPath)
	if err != nil {
		return err
	}

	message.Audio = audio
	message.Lipsync = lipsync
	return nil
}

// updatePersona regenerates the persona document from the newest transcript.
// Location fields are system-owned; the store restores them after the model
// rewrite.
func (tp *TurnPipeline) updatePersona(ctx context.Context, transcript string) error {
	doc, err := tp.Persona.Load()
	if err != nil {
		return fmt.Errorf("failed to load persona: %w", err)
	}

	updated, err := tp.Chat.UpdatePersona(ctx, doc, transcript)
	if err != nil {
		return err
	}

	return tp.Persona.ReplaceFromModel(updated)
}

// extractForm derives form-field updates from the question just asked and
// the answer just given, then merges them under the append-only rule.
func (tp *TurnPipeline) extractForm(ctx context.Context) error {
	question := tp.Session.LastBotQuestion()
	answer := tp.Session.LastUserMessage()

	fields, err := tp.Chat.ExtractFormFields(ctx, tp.Session.FormSnapshot(), question, answer)
	if err != nil {
		return err
	}

	tp.Session.MergeForm(fields)
	return nil
}

// spawn runs a background task with its own timeout, recovering panics and
// recording the outcome. Nothing on the response path waits for it.
func (tp *TurnPipeline) spawn(task string, fn func(context.Context) error) {
	tp.bg.Add(1)
	go func() {
		defer tp.bg.Done()
		defer func() {
			if r := recover(); r != nil {
				metricBackgroundOutcomes.WithLabelValues(task, "panic").Inc()
				tp.Logger.Error(fmt.Sprintf("Recovered from panic in %s: %v", task, r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), tp.BackgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			metricBackgroundOutcomes.WithLabelValues(task, "error").Inc()
			tp.Logger.Error(fmt.Sprintf("Background task %s failed: %v", task, truncateErr(err)))
			return
		}
		metricBackgroundOutcomes.WithLabelValues(task, "ok").Inc()
	}()
}

func truncateErr(err error) string {
	msg := err.Error()
	if len(msg) > 500 {
		return msg[:500] + "..."
	}
	return msg
}
