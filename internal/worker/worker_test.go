package worker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/mocktracer"

	"outreach-mailer/internal/logger"
	"outreach-mailer/internal/models"
	"outreach-mailer/internal/outreach"
)

type MockTransmitter struct {
	mock.Mock
}

func (m *MockTransmitter) Send(ctx context.Context, msg *outreach.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, outcome models.Outcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func newTestWorker(t *testing.T, tx Transmitter, attachmentPresent bool, opts ...Option) (*Worker, *bytes.Buffer) {
	t.Helper()

	renderer, err := outreach.NewRenderer(outreach.DefaultSubject, outreach.DefaultBody)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Resume.pdf")
	if attachmentPresent {
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	}
	composer := outreach.NewComposer(path, "Resume.pdf", "application/pdf")

	var out bytes.Buffer
	return New("me@example.com", renderer, composer, tx, &out, logger.Discard(), opts...), &out
}

func TestWorker_Run_SentAndUnreachable(t *testing.T) {
	tx := &MockTransmitter{}
	tx.On("Send", mock.Anything, mock.MatchedBy(func(msg *outreach.Message) bool {
		return msg.To == "alice@x.com" &&
			msg.From == "me@example.com" &&
			msg.Subject == "Software Engineering Opportunities at Acme" &&
			strings.HasPrefix(msg.Body, "Hi Alice,") &&
			msg.Attachment.Filename == "Resume.pdf"
	})).Return(nil).Once()

	w, out := newTestWorker(t, tx, true)

	report := w.Run(context.Background(), []models.Contact{
		{Name: "Alice Smith", Email: "alice@x.com", Company: "Acme"},
		{Name: "Bob Lee", Email: "", Company: "Globex"},
	})

	tx.AssertExpectations(t)
	tx.AssertNumberOfCalls(t, "Send", 1)

	require.Len(t, report.Sent, 1)
	assert.Equal(t, "Alice Smith", report.Sent[0].Contact.Name)
	require.Len(t, report.Unreachable, 1)
	assert.Equal(t, models.Contact{Name: "Bob Lee", Company: "Globex"}, report.Unreachable[0].Contact)
	assert.Empty(t, report.Failed)

	assert.Contains(t, out.String(), "✅ Sent email to Alice Smith at alice@x.com (Acme)")
	assert.NotContains(t, out.String(), "Bob Lee")
}

func TestWorker_Run_WhitespaceEmailIsUnreachable(t *testing.T) {
	tx := &MockTransmitter{}
	w, _ := newTestWorker(t, tx, true)

	report := w.Run(context.Background(), []models.Contact{
		{Name: "Dana", Email: "   \t", Company: "Hooli"},
	})

	tx.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	require.Len(t, report.Unreachable, 1)
	assert.Equal(t, 1, report.Total())
}

func TestWorker_Run_AttachmentMissing(t *testing.T) {
	tx := &MockTransmitter{}
	w, out := newTestWorker(t, tx, false)

	report := w.Run(context.Background(), []models.Contact{
		{Name: "Alice Smith", Email: "alice@x.com", Company: "Acme"},
		{Name: "Carol King", Email: "carol@x.com", Company: "Umbrella"},
		{Name: "Bob Lee", Email: "", Company: "Globex"},
	})

	tx.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	assert.Empty(t, report.Sent)
	require.Len(t, report.Failed, 2)
	for _, o := range report.Failed {
		assert.ErrorIs(t, o.Err, outreach.ErrAttachmentNotFound)
	}
	assert.Len(t, report.Unreachable, 1)
	assert.Equal(t, 2, strings.Count(out.String(), "❌ Resume not found at"))
}

func TestWorker_Run_TransmissionFailureIsIsolated(t *testing.T) {
	txErr := &outreach.TransmissionError{To: "alice@x.com", Err: errors.New("535 authentication failed")}

	tx := &MockTransmitter{}
	tx.On("Send", mock.Anything, mock.MatchedBy(func(msg *outreach.Message) bool {
		return msg.To == "alice@x.com"
	})).Return(txErr).Once()
	tx.On("Send", mock.Anything, mock.MatchedBy(func(msg *outreach.Message) bool {
		return msg.To == "carol@x.com"
	})).Return(nil).Once()

	w, out := newTestWorker(t, tx, true)

	contacts := []models.Contact{
		{Name: "Alice Smith", Email: "alice@x.com", Company: "Acme"},
		{Name: "Bob Lee", Email: "", Company: "Globex"},
		{Name: "Carol King", Email: " carol@x.com ", Company: "Umbrella"},
	}
	report := w.Run(context.Background(), contacts)

	tx.AssertExpectations(t)
	assert.Equal(t, len(contacts), report.Total())

	require.Len(t, report.Failed, 1)
	var gotErr *outreach.TransmissionError
	require.True(t, errors.As(report.Failed[0].Err, &gotErr))
	assert.Equal(t, "alice@x.com", gotErr.To)

	require.Len(t, report.Sent, 1)
	assert.Equal(t, "carol@x.com", report.Sent[0].Contact.Email)
	assert.Len(t, report.Unreachable, 1)

	assert.Contains(t, out.String(), "❌ Failed to send to alice@x.com")
}

func TestWorker_Run_PublishesEveryOutcome(t *testing.T) {
	tx := &MockTransmitter{}
	tx.On("Send", mock.Anything, mock.Anything).Return(nil)

	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(o models.Outcome) bool {
		return o.Status == models.StatusSent
	})).Return(errors.New("nats: connection closed")).Once()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(o models.Outcome) bool {
		return o.Status == models.StatusUnreachable
	})).Return(nil).Once()

	w, _ := newTestWorker(t, tx, true, WithPublisher(pub))

	report := w.Run(context.Background(), []models.Contact{
		{Name: "Alice Smith", Email: "alice@x.com", Company: "Acme"},
		{Name: "Bob Lee", Email: "", Company: "Globex"},
	})

	pub.AssertExpectations(t)
	assert.Len(t, report.Sent, 1, "publish failure must not change the disposition")
	assert.Len(t, report.Unreachable, 1)
}

func TestWorker_Run_Cancelled(t *testing.T) {
	tx := &MockTransmitter{}
	w, out := newTestWorker(t, tx, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := w.Run(ctx, []models.Contact{
		{Name: "Alice Smith", Email: "alice@x.com", Company: "Acme"},
		{Name: "Bob Lee", Email: "", Company: "Globex"},
	})

	tx.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	require.Len(t, report.Failed, 2)
	assert.ErrorIs(t, report.Failed[0].Err, context.Canceled)
	assert.Equal(t, 2, strings.Count(out.String(), "run cancelled"))
}

func TestWorker_Run_TracesEachContact(t *testing.T) {
	mt := mocktracer.Start()
	defer mt.Stop()

	tx := &MockTransmitter{}
	tx.On("Send", mock.Anything, mock.Anything).Return(nil)
	w, _ := newTestWorker(t, tx, true)

	w.Run(context.Background(), []models.Contact{
		{Name: "Alice Smith", Email: "alice@x.com", Company: "Acme"},
		{Name: "Bob Lee", Email: "", Company: "Globex"},
	})

	var outcomes []any
	for _, span := range mt.FinishedSpans() {
		if span.OperationName() == "outreach.contact" {
			outcomes = append(outcomes, span.Tag("outcome"))
		}
	}
	assert.ElementsMatch(t, []any{"sent", "unreachable"}, outcomes)
}
