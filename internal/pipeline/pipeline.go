// Package pipeline drives one match update at a time: a LogInfo event is
// pulled from the queue, the roster is populated through the gateway, a
// Match is assembled and the consumer is told about it.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/coh2-tools/coh2-live/internal/coh2"
	"github.com/coh2-tools/coh2-live/internal/logfile"
)

// Gateway populates a roster with remote statistics. A non-nil error with a
// usable player slice means partial data, see relic.Client.Players.
type Gateway interface {
	Players(ctx context.Context, players []coh2.Player) ([]coh2.Player, error)
}

// Update is one published match state. Match is nil when the roster is empty
// or structurally invalid; Err carries the joined lookup failures so partial
// data is distinguishable from a clean update.
type Update struct {
	Match   *coh2.Match
	Players []coh2.Player
	Err     error
}

// Consumer receives match updates and notification signals. How they are
// displayed is not the pipeline's concern.
type Consumer interface {
	MatchUpdate(update Update)
	Notify()
}

type Pipeline struct {
	queue    *Queue[logfile.LogInfo]
	gateway  Gateway
	consumer Consumer
}

func New(queue *Queue[logfile.LogInfo], gateway Gateway, consumer Consumer) *Pipeline {
	return &Pipeline{queue: queue, gateway: gateway, consumer: consumer}
}

// Run consumes LogInfo events until the context is cancelled. Events are
// processed strictly in order, one in-flight match update at a time. The
// very first event never notifies; a "now playing" status that the game
// writes late still notifies exactly once per roster.
func (p *Pipeline) Run(ctx context.Context) error {
	var (
		first    = true
		notified = false
	)

	for {
		info, errGet := p.queue.Get(ctx)
		if errGet != nil {
			if errors.Is(errGet, context.Canceled) {
				return nil
			}

			return errGet
		}

		if info.IsNewMatch {
			notified = false
			p.consumer.MatchUpdate(p.buildUpdate(ctx, info))
		}

		if !notified && info.IsPlaying && !first {
			p.consumer.Notify()
			notified = true
		}

		first = false
	}
}

func (p *Pipeline) buildUpdate(ctx context.Context, info logfile.LogInfo) Update {
	if len(info.Players) == 0 {
		return Update{}
	}

	players, errFetch := p.gateway.Players(ctx, info.Players)
	if errFetch != nil {
		slog.Error("Match update has partial data", slog.String("error", errFetch.Error()))
	}

	update := Update{Players: players, Err: errFetch}

	match, errMatch := coh2.NewMatch(players)
	if errMatch != nil {
		slog.Error("Roster does not form a match", slog.String("error", errMatch.Error()))
		update.Err = errors.Join(update.Err, errMatch)

		return update
	}

	update.Match = &match

	return update
}
