package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/logger"
)

// TelegramInitData validates the Mini App init_data header when present and
// stores the Telegram user under ContextTelegramUser. Requests without the
// header pass through untouched, invalid data is rejected.
func TelegramInitData(botToken string, expIn time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		initDataQuery := c.GetHeader("init_data")
		if initDataQuery == "" {
			c.Next()
			return
		}

		if botToken == "" {
			logger.Warn().Msg("init_data received but BOT_TOKEN is not set")
			c.Error(errors.NewUnauthorizedError("Mini App login is not configured"))
			c.Abort()
			return
		}

		if err := initdata.Validate(initDataQuery, botToken, expIn); err != nil {
			logger.Debug().Err(err).Msg("init data validation failed")
			c.Error(errors.Wrap(err, errors.ErrCodeUnauthorized, "Invalid init data"))
			c.Abort()
			return
		}

		parsed, err := initdata.Parse(initDataQuery)
		if err != nil {
			c.Error(errors.Wrap(err, errors.ErrCodeBadRequest, "Failed to parse init data"))
			c.Abort()
			return
		}

		c.Set(ContextTelegramUser, parsed.User)
		c.Set(ContextUserID, parsed.User.ID)
		c.Next()
	}
}
