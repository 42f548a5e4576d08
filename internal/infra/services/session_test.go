package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"maya-backend/internal/domain/entities"
)

func TestSessionHistoryReturnsCopies(t *testing.T) {
	t.Parallel()

	s := NewSession(DefaultBinding())
	s.AppendUserMessage("hello")
	s.AppendBotMessage("hi, what is your name?")

	user, bot := s.History()
	user[0] = "mutated"
	bot[0] = "mutated"

	freshUser, freshBot := s.History()
	require.Equal(t, []string{"hello"}, freshUser)
	require.Equal(t, []string{"hi, what is your name?"}, freshBot)
}

func TestSessionAppendsEmptyTranscript(t *testing.T) {
	t.Parallel()

	s := NewSession(DefaultBinding())
	s.AppendUserMessage("")
	s.AppendUserMessage("second")

	user, _ := s.History()
	require.Equal(t, []string{"", "second"}, user)
	require.Equal(t, "second", s.LastUserMessage())
}

func TestSessionLastBotQuestion(t *testing.T) {
	t.Parallel()

	s := NewSession(DefaultBinding())
	require.Empty(t, s.LastBotQuestion())

	s.AppendBotMessage("welcome, what is your name?")
	require.Empty(t, s.LastBotQuestion())

	s.AppendBotMessage("nice to meet you, where were you born?")
	require.Equal(t, "welcome, what is your name?", s.LastBotQuestion())
}

func TestSessionResetClearsStateButKeepsBinding(t *testing.T) {
	t.Parallel()

	binding := entities.LanguageBinding{Provider: entities.ProviderGroq, Code: "ar", VoiceID: "qi4PkV9c01kb869Vh7Su"}
	s := NewSession(binding)
	s.AppendUserMessage("my name is Sam")
	s.AppendBotMessage("what is your name?")
	s.MergeForm(map[string]string{"Vorname": "Sam"})

	s.Reset()

	user, bot := s.History()
	require.Empty(t, user)
	require.Empty(t, bot)
	require.Equal(t, binding, s.Binding())

	form := s.FormSnapshot()
	require.Empty(t, form["Vorname"])
	require.Equal(t, "MayaCode", form["Im Auftrag"])
}

func TestSessionConcurrentAppends(t *testing.T) {
	t.Parallel()

	s := NewSession(DefaultBinding())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.AppendUserMessage(fmt.Sprintf("user %d", i))
			s.AppendBotMessage(fmt.Sprintf("bot %d", i))
		}(i)
	}
	wg.Wait()

	user, bot := s.History()
	require.Len(t, user, 50)
	require.Len(t, bot, 50)
}

func TestSessionFormSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	s := NewSession(DefaultBinding())
	snapshot := s.FormSnapshot()
	snapshot["Vorname"] = "injected"

	require.Empty(t, s.FormSnapshot()["Vorname"])
}
