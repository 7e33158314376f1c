package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AdamBeresnev/tryouts/internal/tournament"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

const (
	SubjectPlayerRegistered    = "player.registered"
	SubjectTournamentGenerated = "tournament.generated"
	SubjectWinnerRecorded      = "match.winner_recorded"
)

// JetStreamPublisher is the part of jetstream.JetStream the publisher needs
type JetStreamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

type PlayerRegistered struct {
	TournamentID   string    `json:"tournament_id"`
	TournamentCode string    `json:"tournament_code"`
	PlayerID       string    `json:"player_id"`
	Gamertag       string    `json:"gamertag"`
	RegisteredAt   time.Time `json:"registered_at"`
}

type TournamentGenerated struct {
	TournamentID   string `json:"tournament_id"`
	TournamentCode string `json:"tournament_code"`
	Rounds         int    `json:"rounds"`
}

type WinnerRecorded struct {
	TournamentID   string   `json:"tournament_id"`
	TournamentCode string   `json:"tournament_code"`
	MatchID        string   `json:"match_id"`
	RoundNumber    int      `json:"round_number"`
	Winner         string   `json:"winner"`
	WinningTeam    []string `json:"winning_team"`
}

// Publisher sends lifecycle events to JetStream. Failures are logged and
// never surface to the caller, the database is the source of truth.
type Publisher struct {
	js      JetStreamPublisher
	prefix  string
	timeout time.Duration
	log     *zap.Logger
}

func NewPublisher(js JetStreamPublisher, prefix string, timeout time.Duration, log *zap.Logger) *Publisher {
	return &Publisher{js: js, prefix: prefix, timeout: timeout, log: log}
}

func (p *Publisher) PlayerRegistered(ctx context.Context, t *tournament.Tournament, player *tournament.Player) {
	p.publish(ctx, SubjectPlayerRegistered, player.ID.String(), PlayerRegistered{
		TournamentID:   t.ID.String(),
		TournamentCode: t.Code,
		PlayerID:       player.ID.String(),
		Gamertag:       player.Gamertag,
		RegisteredAt:   player.RegisteredAt,
	})
}

func (p *Publisher) TournamentGenerated(ctx context.Context, t *tournament.Tournament, matches []tournament.Match) {
	// Generation happens once, so the tournament ID doubles as the dedup key
	p.publish(ctx, SubjectTournamentGenerated, t.ID.String()+".generated", TournamentGenerated{
		TournamentID:   t.ID.String(),
		TournamentCode: t.Code,
		Rounds:         len(matches),
	})
}

func (p *Publisher) WinnerRecorded(ctx context.Context, t *tournament.Tournament, match *tournament.Match) {
	if match.Winner == nil {
		return
	}
	side := *match.Winner

	// Winners can be overwritten, so every call is its own message
	p.publish(ctx, SubjectWinnerRecorded, "", WinnerRecorded{
		TournamentID:   t.ID.String(),
		TournamentCode: t.Code,
		MatchID:        match.ID.String(),
		RoundNumber:    match.RoundNumber,
		Winner:         string(side),
		WinningTeam:    match.Team(side),
	})
}

func (p *Publisher) Subject(name string) string {
	return fmt.Sprintf("%s.%s", p.prefix, name)
}

func (p *Publisher) publish(ctx context.Context, name, msgID string, event any) {
	subject := p.Subject(name)

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var opts []jetstream.PublishOpt
	if msgID != "" {
		opts = append(opts, jetstream.WithMsgID(msgID))
	}

	ack, err := p.js.Publish(ctx, subject, data, opts...)
	if err != nil {
		p.log.Error("failed to publish event", zap.String("subject", subject), zap.Error(err))
		return
	}

	p.log.Debug("published event",
		zap.String("subject", subject),
		zap.String("stream", ack.Stream),
		zap.Uint64("seq", ack.Sequence),
		zap.Bool("duplicate", ack.Duplicate),
	)
}
