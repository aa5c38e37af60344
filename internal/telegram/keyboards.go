package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tradebot/internal/bot"
)

// renderKeyboard переводит клавиатуру ядра в разметку Telegram.
// Inline-кнопки имеют приоритет: ядро никогда не задаёт оба вида сразу.
func renderKeyboard(kb *bot.Keyboard) interface{} {
	if len(kb.Inline) > 0 {
		return renderInline(kb.Inline)
	}
	if len(kb.Reply) > 0 {
		return renderReply(kb.Reply)
	}
	return tgbotapi.NewRemoveKeyboard(false)
}

func renderInline(rows [][]bot.InlineButton) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		out = append(out, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

func renderReply(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	out := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		out = append(out, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	markup := tgbotapi.NewReplyKeyboard(out...)
	markup.ResizeKeyboard = true
	return markup
}
