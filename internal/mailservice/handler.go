package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/lazygardenertx/gardenlog/internal/common"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender, recipient string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(host, port, username, password, sender, NewTemplate()),
		logger:    logger,
		recipient: recipient,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SendPublishNotification consumes post.published events and emails the
// configured recipient for each newly published post.
func (s *MailService) SendPublishNotification() {
	msgs, err := s.mb.Consume(common.PostPublishedKey, common.PostExchange, common.PostPublishedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var data struct {
					Slug  string
					Title string
				}

				err := json.Unmarshal(msg.Body, &data)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					continue
				}

				payload := struct {
					Title string
					Slug  string
				}{
					Title: data.Title,
					Slug:  data.Slug,
				}

				// using exponential backoff with jitter
				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(s.recipient, payload, "post_published_email.html")
					if err == nil {
						s.logger.Info("publish notification sent", slog.String("slug", data.Slug))
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying publish notification", slog.String("slug", data.Slug), slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send publish notification", slog.String("slug", data.Slug))
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping SendPublishNotification due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) Close() {
	s.cancel()
}
