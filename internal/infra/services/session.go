package services

import (
	"sync"

	"maya-backend/internal/domain/entities"
)

// Session owns the mutable conversation state for one active session: the
// two utterance lists, the form-fill dictionary and the language binding.
// TurnMu serializes pipeline turns so overlapping requests cannot interleave
// state writes; the inner mutex additionally guards reads from auxiliary
// endpoints that run while a turn is in flight.
type Session struct {
	// TurnMu is held for the whole synchronous part of a pipeline turn.
	TurnMu sync.Mutex

	mu           sync.Mutex
	userMessages []string
	botMessages  []string
	form         map[string]string
	binding      entities.LanguageBinding
}

func NewSession(binding entities.LanguageBinding) *Session {
	return &Session{
		form:    FormTemplate(),
		binding: binding,
	}
}

// AppendUserMessage appends one transcript to the user-utterance list.
// Empty transcripts are appended too; an empty turn is still a turn.
func (s *Session) AppendUserMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userMessages = append(s.userMessages, text)
}

// AppendBotMessage appends one reply text to the bot-utterance list.
func (s *Session) AppendBotMessage(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botMessages = append(s.botMessages, text)
}

// History returns copies of both utterance lists in conversation order.
func (s *Session) History() (user []string, bot []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user = append([]string(nil), s.userMessages...)
	bot = append([]string(nil), s.botMessages...)
	return user, bot
}

// LastUserMessage returns the most recent transcript, or "".
func (s *Session) LastUserMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.userMessages) == 0 {
		return ""
	}
	return s.userMessages[len(s.userMessages)-1]
}

// LastBotQuestion returns the second-most-recent bot utterance, which is the
// question the newest user message answered. Empty when fewer than two bot
// turns exist.
func (s *Session) LastBotQuestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.botMessages) < 2 {
		return ""
	}
	return s.botMessages[len(s.botMessages)-2]
}

// MergeForm folds extracted field updates into the form-fill dictionary.
// Once a field holds a non-empty value only another non-empty value can
// replace it.
func (s *Session) MergeForm(updates map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mergeForm(s.form, updates)
}

// FormSnapshot returns a copy of the current form-fill dictionary.
func (s *Session) FormSnapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]string, len(s.form))
	for key, value := range s.form {
		snapshot[key] = value
	}
	return snapshot
}

// Binding returns the active language/voice binding.
func (s *Session) Binding() entities.LanguageBinding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binding
}

// SetBinding replaces the active language/voice binding.
func (s *Session) SetBinding(binding entities.LanguageBinding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.binding = binding
}

// Reset clears both utterance lists and reinitializes the form-fill
// dictionary from the template, atomically. The language binding survives a
// reset.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userMessages = nil
	s.botMessages = nil
	s.form = FormTemplate()
}
