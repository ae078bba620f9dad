package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/logger"
	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/bot/models"
	"kaliroot-admin/internal/platform/telegram"
)

type BotService interface {
	// Status is getMe plus getWebhookInfo.
	Status(ctx context.Context) (*models.Status, error)
	DeleteWebhook(ctx context.Context, dropPending bool) error
	Send(ctx context.Context, req models.SendRequest) (*telegram.Message, error)
	Chat(ctx context.Context, chatRef string) (*models.ChatInfo, error)
}

type botService struct {
	bot telegram.Resolver
	log zerolog.Logger
}

func NewBotService(bot telegram.Resolver) BotService {
	return &botService{
		bot: bot,
		log: logger.Component("bot"),
	}
}

func (s *botService) Status(ctx context.Context) (*models.Status, error) {
	bot, err := s.bot.Resolve(ctx)
	if err != nil {
		return nil, errors.FromTelegram("getMe", err)
	}
	me, err := bot.GetMe(ctx)
	if err != nil {
		return nil, errors.FromTelegram("getMe", err)
	}
	hook, err := bot.GetWebhookInfo(ctx)
	if err != nil {
		return nil, errors.FromTelegram("getWebhookInfo", err)
	}
	return &models.Status{Bot: me, Webhook: hook}, nil
}

func (s *botService) DeleteWebhook(ctx context.Context, dropPending bool) error {
	bot, err := s.bot.Resolve(ctx)
	if err != nil {
		return errors.FromTelegram("deleteWebhook", err)
	}
	if err := bot.DeleteWebhook(ctx, dropPending); err != nil {
		return errors.FromTelegram("deleteWebhook", err)
	}
	s.log.Info().Bool("drop_pending_updates", dropPending).Msg("webhook deleted")
	return nil
}

func (s *botService) Send(ctx context.Context, req models.SendRequest) (*telegram.Message, error) {
	if err := validation.ValidateChatRef(req.ChatID); err != nil {
		return nil, errors.NewValidationError("chat_id", err.Error())
	}
	if err := validation.ValidateMessage(req.Text); err != nil {
		return nil, errors.NewValidationError("text", err.Error())
	}
	bot, err := s.bot.Resolve(ctx)
	if err != nil {
		return nil, errors.FromTelegram("sendMessage", err)
	}

	parseMode := req.ParseMode
	if parseMode == "" {
		parseMode = "HTML"
	}
	msg, err := bot.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:    chatID(req.ChatID),
		Text:      req.Text,
		ParseMode: parseMode,
	})
	if err != nil {
		return nil, errors.FromTelegram("sendMessage", err)
	}
	return msg, nil
}

func (s *botService) Chat(ctx context.Context, chatRef string) (*models.ChatInfo, error) {
	if err := validation.ValidateChatRef(chatRef); err != nil {
		return nil, errors.NewValidationError("chat_id", err.Error())
	}
	bot, err := s.bot.Resolve(ctx)
	if err != nil {
		return nil, errors.FromTelegram("getChat", err)
	}
	chat, err := bot.GetChat(ctx, chatRef)
	if err != nil {
		return nil, errors.FromTelegram("getChat", err)
	}

	info := &models.ChatInfo{Chat: chat}
	// private chats have no member count
	if n, err := bot.GetChatMemberCount(ctx, chatRef); err == nil {
		info.MemberCount = &n
	} else {
		s.log.Debug().Err(err).Str("chat", chatRef).Msg("member count unavailable")
	}
	return info, nil
}

// chatID sends numeric ids as numbers and usernames as strings.
func chatID(ref string) any {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id
	}
	return ref
}
