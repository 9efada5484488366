package notification

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidChannel = errors.New("invalid notification channel")

// Message is one queued unit of outbound confirmation text.
type Message struct {
	ChannelID  string    `json:"channelId"`
	Text       string    `json:"text"`
	EnqueuedAt time.Time `json:"-"`
	RetryCount int       `json:"-"`
}

type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeQueued    Outcome = "queued"
	OutcomeDropped   Outcome = "dropped"
)

// Report is keyed by channel id; partial success is a valid outcome.
type Report map[string]Outcome

func (r Report) AllDelivered() bool {
	for _, o := range r {
		if o != OutcomeDelivered {
			return false
		}
	}
	return true
}

const (
	SchemeTelegram = "telegram"
	SchemeKafka    = "kafka"
)

// Address is a parsed channel id of the form "<scheme>:<target>".
type Address struct {
	Scheme string
	Target string
}

func ParseAddress(channelID string) (Address, error) {
	scheme, target, ok := strings.Cut(strings.TrimSpace(channelID), ":")
	if !ok || target == "" {
		return Address{}, ErrInvalidChannel
	}
	switch scheme {
	case SchemeTelegram, SchemeKafka:
		return Address{Scheme: scheme, Target: target}, nil
	default:
		return Address{}, ErrInvalidChannel
	}
}
