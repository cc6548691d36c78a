package notification

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/test/messages/1", nil
}

func TestFCMNotifierSendsTopicMessage(t *testing.T) {
	s := &fakeSender{}
	n := &FCMNotifier{client: s}

	err := n.Notify(context.Background(), "temple_1", "Temple verified", "Sri Ganesh Temple is now verified", map[string]string{"templeId": "1"})
	require.NoError(t, err)
	require.Len(t, s.sent, 1)

	msg := s.sent[0]
	assert.Equal(t, "temple_1", msg.Topic)
	assert.Equal(t, "Temple verified", msg.Notification.Title)
	assert.Equal(t, "1", msg.Data["templeId"])
	assert.Equal(t, messaging.PriorityHigh, msg.Android.Notification.Priority)
}

func TestFCMNotifierErrors(t *testing.T) {
	err := NewFCMNotifier(nil).Notify(context.Background(), "t", "a", "b", nil)
	assert.ErrorIs(t, err, ErrFCMDisabled)

	errSend := errors.New("quota exceeded")
	n := &FCMNotifier{client: &fakeSender{err: errSend}}
	assert.ErrorIs(t, n.Notify(context.Background(), "t", "a", "b", nil), errSend)
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, NopNotifier{}.Notify(context.Background(), "t", "a", "b", nil))
}
