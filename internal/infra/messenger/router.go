package messenger

import (
	"context"

	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/pkg/errs"
)

// ChannelSender delivers text to a scheme-specific target (chat id, topic).
type ChannelSender interface {
	Send(ctx context.Context, target, text string) error
}

// Router resolves "<scheme>:<target>" channel ids to a registered sender.
type Router struct {
	senders map[string]ChannelSender
}

func NewRouter() *Router {
	return &Router{senders: make(map[string]ChannelSender)}
}

func (r *Router) Register(scheme string, sender ChannelSender) *Router {
	r.senders[scheme] = sender
	return r
}

func (r *Router) Send(ctx context.Context, channelID, text string) error {
	addr, err := notification.ParseAddress(channelID)
	if err != nil {
		return errs.Wrapf(err, "channel %q", channelID)
	}
	sender, ok := r.senders[addr.Scheme]
	if !ok {
		return errs.Mark(errs.Newf("no sender registered for %s channels", addr.Scheme), notification.ErrInvalidChannel)
	}
	return sender.Send(ctx, addr.Target, text)
}
