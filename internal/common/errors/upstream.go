package errors

import (
	stderrors "errors"
	"fmt"

	"kaliroot-admin/internal/platform/account"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/telegram"
)

// FromBackend classifies a failed backend request. A missing table becomes
// TABLE_MISSING, everything else BACKEND_ERROR with the backend message.
func FromBackend(operation, table string, err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, backend.ErrNoBackend) {
		return Wrap(err, ErrCodeNoBackend, "No backend connection, log in first")
	}
	if backend.IsUndefinedTable(err) {
		return NewTableMissingError(table, err)
	}
	appErr := NewBackendError(operation, err)
	var be *backend.Error
	if stderrors.As(err, &be) {
		appErr.Message = fmt.Sprintf("Connection error: %s", be.Message)
		if be.Code != "" {
			appErr.WithDetail("backend_code", be.Code)
		}
		if be.Details != "" {
			appErr.WithDetail("backend_details", be.Details)
		}
		if be.Hint != "" {
			appErr.WithDetail("backend_hint", be.Hint)
		}
	} else {
		appErr.Message = fmt.Sprintf("Connection error: %v", err)
	}
	return appErr.WithDetail("table", table)
}

// FromTelegram surfaces the Bot API description as the message.
func FromTelegram(operation string, err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, telegram.ErrNoToken) {
		return New(ErrCodeValidation, "Configure the bot token first").
			WithDetail("field", "bot_token")
	}
	var apiErr *telegram.APIError
	if stderrors.As(err, &apiErr) {
		if apiErr.IsRateLimited() {
			appErr := NewRateLimitError("telegram", apiErr.RetryAfter)
			appErr.Cause = err
			return appErr
		}
		appErr := NewTelegramAPIError(operation, err)
		if apiErr.Description != "" {
			appErr.Message = apiErr.Description
		}
		return appErr.WithDetail("error_code", apiErr.ErrorCode)
	}
	return NewTelegramAPIError(operation, err)
}

// FromAccount keeps the upstream "detail" text as the message.
func FromAccount(operation string, err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	appErr := NewExternalAPIError(operation, err)
	var apiErr *account.APIError
	if stderrors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			appErr.Message = apiErr.Detail
		}
		appErr.WithDetail("status", apiErr.StatusCode)
	}
	return appErr
}
