package bot

// InlineButton - кнопка inline-клавиатуры с callback данными
type InlineButton struct {
	Label string
	Data  string
}

// Keyboard - транспорт-независимая спецификация клавиатуры.
// Заполнено либо Reply, либо Inline, не оба сразу.
type Keyboard struct {
	Reply  [][]string
	Inline [][]InlineButton
}

// Notifier - абстрактный sink исходящих сообщений.
// Реализуется чат-транспортом; ядро не знает о Telegram.
type Notifier interface {
	Send(userID int64, text string, keyboard *Keyboard) error
}

// MainMenuKeyboard - меню подписанного пользователя
func MainMenuKeyboard() *Keyboard {
	return &Keyboard{
		Reply: [][]string{
			{"Coin List", "Start Trade"},
			{"AI Trade", "Trade Summary"},
			{"Unsubscribe"},
		},
	}
}

// SubscribeKeyboard - меню неподписанного пользователя
func SubscribeKeyboard() *Keyboard {
	return &Keyboard{
		Reply: [][]string{{"Subscribe"}},
	}
}

// CurrencyKeyboard - inline выбор валюты котировки
func CurrencyKeyboard(currencies []string) *Keyboard {
	row := make([]InlineButton, 0, len(currencies))
	for _, c := range currencies {
		row = append(row, InlineButton{Label: c, Data: FormatCurrencyCallback(c)})
	}
	return &Keyboard{Inline: [][]InlineButton{row}}
}

// StrategyKeyboard - inline выбор стратегии.
// Сумма и валюта кодируются в callback, чтобы выбор стратегии
// был самодостаточным событием.
func StrategyKeyboard(amount float64, currency string) *Keyboard {
	rows := make([][]InlineButton, 0, len(Strategies))
	for _, st := range Strategies {
		rows = append(rows, []InlineButton{{
			Label: st.Name,
			Data:  FormatStrategyCallback(st.ID, amount, currency),
		}})
	}
	return &Keyboard{Inline: rows}
}
