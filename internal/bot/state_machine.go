package bot

// Фазы диалога одного пользователя
const (
	PhaseAnonymous           = "anonymous"
	PhaseSubscribed          = "subscribed"
	PhaseCollectingAPIKey    = "collecting_api_key"
	PhaseCollectingAPISecret = "collecting_api_secret"
	PhaseReady               = "ready"
	PhaseSelectingCurrency   = "selecting_currency"
	PhaseCollectingAmount    = "collecting_amount"
	PhaseSelectingStrategy   = "selecting_strategy"
)

// ValidTransitions определяет допустимые переходы между фазами.
// Переходы по "start" и "Unsubscribe" возможны из любой фазы и
// в таблицу не входят.
var ValidTransitions = map[string][]string{
	PhaseAnonymous:           {PhaseSubscribed},
	PhaseSubscribed:          {PhaseCollectingAPIKey, PhaseAnonymous},
	PhaseCollectingAPIKey:    {PhaseCollectingAPISecret, PhaseAnonymous},
	PhaseCollectingAPISecret: {PhaseReady, PhaseAnonymous},
	PhaseReady:               {PhaseSelectingCurrency, PhaseCollectingAPIKey, PhaseAnonymous},
	PhaseSelectingCurrency:   {PhaseCollectingAmount, PhaseAnonymous},
	PhaseCollectingAmount:    {PhaseSelectingStrategy, PhaseAnonymous},
	PhaseSelectingStrategy:   {PhaseReady, PhaseAnonymous}, // Ready после запуска исполнителя
}

// CanTransition проверяет допустимость перехода
func CanTransition(from, to string) bool {
	allowed, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsAuthenticated возвращает true если пользователь прошёл подписку
func IsAuthenticated(phase string) bool {
	return phase != PhaseAnonymous && phase != ""
}

// PhaseInfo возвращает описание фазы для логов и админ API
func PhaseInfo(phase string) string {
	switch phase {
	case PhaseAnonymous:
		return "не подписан"
	case PhaseSubscribed:
		return "подписан, ключи не введены"
	case PhaseCollectingAPIKey:
		return "ожидание API ключа"
	case PhaseCollectingAPISecret:
		return "ожидание API секрета"
	case PhaseReady:
		return "готов к торговле"
	case PhaseSelectingCurrency:
		return "выбор валюты"
	case PhaseCollectingAmount:
		return "ввод суммы"
	case PhaseSelectingStrategy:
		return "выбор стратегии"
	default:
		return "неизвестная фаза"
	}
}
