package mailservice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendPublishNotification(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	mockLogger := new(MockLogger)

	expectedArgs := []interface{}{slog.String("slug", "first-post")}
	mockLogger.On("Info", "publish notification sent", expectedArgs).Return(nil)
	mockLogger.On("Info", "stopping SendPublishNotification due to context cancellation", mock.Anything).Return(nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())

	s := &MailService{
		mb:        mockMC,
		m:         mockMailer,
		logger:    mockLogger,
		recipient: "owner@example.com",
		ctx:       ctx,
		cancel:    cancel,
	}

	go s.SendPublishNotification()

	time.Sleep(1 * time.Second)

	if mockMailer.IsCalled() {
		recipientEmail := mockMailer.GetEmail()
		assert.Equal(t, "owner@example.com", recipientEmail, "expected email to be sent to the configured recipient")
	}

	// verify that the logger.Info method was called
	mockLogger.AssertExpectations(t)

	t.Cleanup(func() {
		s.Close()
	})
}
