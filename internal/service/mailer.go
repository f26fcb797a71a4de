package service

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes reset links to the log instead of sending mail.
type LogMailer struct {
	logger *zap.SugaredLogger
}

func NewLogMailer(logger *zap.SugaredLogger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendResetPassword(_ context.Context, email, link string) error {
	m.logger.Infow("reset password requested", "email", email, "link", link)
	return nil
}
