package service

import (
	"context"
	"strings"

	"paperdesk/internal/extraction"

	"go.uber.org/zap"
)

// Chats answers free-form questions about a paper, grounding the model on
// the stored content tree. Conversations are stateless; each message carries
// the full paper context.
type Chats struct {
	contents  ContentStore
	extractor ContentExtractor
	log       *zap.Logger
}

func NewChats(contents ContentStore, extractor ContentExtractor, log *zap.Logger) *Chats {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chats{contents: contents, extractor: extractor, log: log}
}

func (s *Chats) Ask(ctx context.Context, paperID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", validationf("message is required")
	}
	content, err := s.contents.GetByPaperID(ctx, paperID)
	if err != nil {
		return "", mapNotFound(err)
	}
	paperContext := "Paper content:\n" + extraction.BuildContext(content)
	reply, err := s.extractor.Chat(ctx, paperContext, message)
	if err != nil {
		return "", err
	}
	s.log.Debug("chat answered", zap.String("paper_id", paperID), zap.Int("reply_len", len(reply)))
	return reply, nil
}
