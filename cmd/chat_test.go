package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/longkey1/healthbot/internal/healthbot"
	"github.com/longkey1/healthbot/internal/healthbot/assistant"
	"github.com/longkey1/healthbot/internal/healthbot/assistant/mocks"
	"github.com/longkey1/healthbot/internal/healthbot/safety"
	"github.com/longkey1/healthbot/internal/healthbot/session"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

type testLoop struct {
	loop   *chatLoop
	relay  *mocks.MockRelay
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestLoop(t *testing.T, input io.Reader) *testLoop {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := zerolog.Nop()

	relay := mocks.NewMockRelay(ctrl)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &testLoop{
		loop: &chatLoop{
			assistant: assistant.New(safety.NewFilter(safety.DefaultTable()), relay, &logger),
			session:   session.NewSession("gemini:gemini-2.5-flash"),
			in:        input,
			out:       out,
			errOut:    errOut,
		},
		relay:  relay,
		out:    out,
		errOut: errOut,
	}
}

func reply(text string) healthbot.Message {
	return healthbot.NewMessage(healthbot.RoleAssistant, text)
}

func TestChatLoop_AnswersUntilExit(t *testing.T) {
	tl := newTestLoop(t, strings.NewReader("What causes a sore throat?\n\n   \nEXIT\nnever read\n"))

	tl.relay.EXPECT().Respond(gomock.Any(), gomock.Len(0), gomock.Any()).
		Return(reply("Sore throat is often caused by viral infection..."), nil)

	if err := tl.loop.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(tl.out.String(), "Assistant> Sore throat is often caused by viral infection...") {
		t.Errorf("stdout = %q", tl.out.String())
	}
	if !strings.Contains(tl.errOut.String(), goodbyeMessage) {
		t.Errorf("stderr does not say goodbye: %q", tl.errOut.String())
	}
	if got := tl.loop.session.MessageCount(); got != 2 {
		t.Errorf("MessageCount() = %d, want 2", got)
	}
}

func TestChatLoop_EOFSaysGoodbye(t *testing.T) {
	tl := newTestLoop(t, strings.NewReader(""))

	if err := tl.loop.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasSuffix(tl.errOut.String(), goodbyeMessage+"\n") {
		t.Errorf("stderr = %q", tl.errOut.String())
	}
}

func TestChatLoop_FlaggedInputNeverReachesModel(t *testing.T) {
	tl := newTestLoop(t, strings.NewReader("I have chest pain and can't breathe\n"))

	tl.relay.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	if err := tl.loop.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(tl.out.String(), assistant.EmergencyMessage) {
		t.Errorf("stdout = %q", tl.out.String())
	}
	if got := tl.loop.session.MessageCount(); got != 0 {
		t.Errorf("MessageCount() = %d, want 0", got)
	}
}

func TestChatLoop_ContinuesAfterFailure(t *testing.T) {
	tl := newTestLoop(t, strings.NewReader("Is coffee healthy?\nIs tea healthy?\n"))

	gomock.InOrder(
		tl.relay.EXPECT().Respond(gomock.Any(), gomock.Len(0), gomock.Any()).
			Return(healthbot.Message{}, &healthbot.TransportError{Op: "gemini", Err: errors.New("connection refused")}),
		tl.relay.EXPECT().Respond(gomock.Any(), gomock.Len(0), gomock.Any()).
			Return(reply("In moderation, yes."), nil),
	)

	if err := tl.loop.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(tl.errOut.String(), assistant.FailureMessage) {
		t.Errorf("stderr = %q", tl.errOut.String())
	}
	if strings.Contains(tl.errOut.String(), "connection refused") {
		t.Error("raw error shown to the user")
	}
	if !strings.Contains(tl.out.String(), "Assistant> In moderation, yes.") {
		t.Errorf("stdout = %q", tl.out.String())
	}
	if got := tl.loop.session.MessageCount(); got != 2 {
		t.Errorf("MessageCount() = %d, want 2", got)
	}
}

func TestChatLoop_SpecialCommands(t *testing.T) {
	tl := newTestLoop(t, strings.NewReader("/help\n/INFO\n/unknown\n/quit\n"))

	tl.relay.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	if err := tl.loop.run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	stderr := tl.errOut.String()
	for _, want := range []string{
		"Available commands:",
		"Conversation Information:",
		"Model: gemini:gemini-2.5-flash",
		"Unknown command: /unknown",
		goodbyeMessage,
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr does not contain %q", want)
		}
	}
	if tl.out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", tl.out.String())
	}
}

func TestChatLoop_CancelledContext(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	tl := newTestLoop(t, pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tl.loop.run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(tl.errOut.String(), goodbyeMessage) {
		t.Errorf("stderr = %q", tl.errOut.String())
	}
}

func TestChatLoop_Once(t *testing.T) {
	t.Run("answered", func(t *testing.T) {
		tl := newTestLoop(t, nil)
		tl.relay.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).Return(reply("Drink water."), nil)

		if err := tl.loop.once(context.Background(), "  How do I stay hydrated?\n"); err != nil {
			t.Fatalf("once() error = %v", err)
		}
		if tl.out.String() != "Drink water.\n" {
			t.Errorf("stdout = %q", tl.out.String())
		}
	})

	t.Run("flagged", func(t *testing.T) {
		tl := newTestLoop(t, nil)
		tl.relay.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		if err := tl.loop.once(context.Background(), "I want to kill myself"); err != nil {
			t.Fatalf("once() error = %v", err)
		}
		if tl.out.String() != assistant.EmergencyMessage+"\n" {
			t.Errorf("stdout = %q", tl.out.String())
		}
	})

	t.Run("timeout", func(t *testing.T) {
		tl := newTestLoop(t, nil)
		tl.relay.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(healthbot.Message{}, &healthbot.TransportError{Op: "relay", Err: healthbot.ErrTimeout})

		err := tl.loop.once(context.Background(), "Is coffee healthy?")
		if !errors.Is(err, errTurnFailed) {
			t.Fatalf("once() error = %v, want errTurnFailed", err)
		}
		if !strings.Contains(tl.errOut.String(), assistant.TimeoutMessage) {
			t.Errorf("stderr = %q", tl.errOut.String())
		}
		if tl.out.Len() != 0 {
			t.Errorf("stdout = %q, want empty", tl.out.String())
		}
	})

	t.Run("empty", func(t *testing.T) {
		tl := newTestLoop(t, nil)
		tl.relay.EXPECT().Respond(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		if err := tl.loop.once(context.Background(), " \n\t"); err == nil {
			t.Fatal("once() error = nil, want error for empty message")
		}
	})
}

func TestIsExitWord(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"exit", true},
		{"QUIT", true},
		{"/exit", true},
		{"/Quit", true},
		{"/q", true},
		{"exit now", false},
		{"/help", false},
		{"quitting smoking", false},
	}

	for _, tt := range tests {
		if got := isExitWord(tt.input); got != tt.want {
			t.Errorf("isExitWord(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
