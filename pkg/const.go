package pkg

const (
	HeaderTraceId   string = "X-Trace-Id"
	HeaderRequestId string = "X-Request-Id"
)

const (
	TraceId   string = "trace_id"
	RequestId string = "request_id"
)

type CardType string

const (
	CardTypeVirtual  CardType = "VIRTUAL"
	CardTypePhysical CardType = "PHYSICAL"
)

// ParseCardType validates a raw card type string.
func ParseCardType(raw string) (CardType, bool) {
	switch CardType(raw) {
	case CardTypeVirtual, CardTypePhysical:
		return CardType(raw), true
	default:
		return "", false
	}
}

type EntityEventType string

const (
	EventCustomerCreated EntityEventType = "customer.created"
	EventCustomerDeleted EntityEventType = "customer.deleted"
	EventAccountCreated  EntityEventType = "account.created"
	EventAccountDeleted  EntityEventType = "account.deleted"
	EventCardCreated     EntityEventType = "card.created"
	EventCardDeleted     EntityEventType = "card.deleted"
)
