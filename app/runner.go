package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"gauntlet/domain/core"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/tournament"
	"gauntlet/internal"
	"gauntlet/ports"
)

// maxRoundsSafety caps a driven tournament so a misbehaving arena cannot
// spin forever.
const maxRoundsSafety = 64

// Runner drives whole tournaments against challenger/defender ports.
// Distinct tournaments are independent and run fully in parallel; rounds
// within one tournament stay strictly sequential.
type Runner struct {
	service    *TournamentService
	challenger ports.ChallengerPort
	defender   ports.DefenderPort
	sem        *semaphore.Weighted
	log        *internal.Logger
}

// NewRunner creates a runner with bounded tournament concurrency.
func NewRunner(service *TournamentService, challenger ports.ChallengerPort, defender ports.DefenderPort, maxConcurrent int, log *internal.Logger) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		service:    service,
		challenger: challenger,
		defender:   defender,
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
		log:        log,
	}
}

// RunAll opens and drives one tournament per hypothesis in parallel and
// returns the termination notices in input order.
func (r *Runner) RunAll(ctx context.Context, hypotheses []hypothesis.Hypothesis) ([]*tournament.Termination, error) {
	results := make([]*tournament.Termination, len(hypotheses))
	g, ctx := errgroup.WithContext(ctx)
	for i, h := range hypotheses {
		g.Go(func() error {
			if err := r.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer r.sem.Release(1)
			term, err := r.Run(ctx, h)
			if err != nil {
				return err
			}
			results[i] = term
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run drives one tournament to termination: each iteration requests a
// critique, then a defense, and plays the round. A port timeout surfaces as
// an ambiguous round and takes the escalation path instead of failing the
// tournament.
func (r *Runner) Run(ctx context.Context, h hypothesis.Hypothesis) (*tournament.Termination, error) {
	t, err := r.service.Open(ctx, h)
	if err != nil {
		return nil, err
	}

	for rounds := 0; rounds < maxRoundsSafety; rounds++ {
		current, err := r.service.Get(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if current.IsTerminal() {
			return current.Termination(), nil
		}

		crit, err := r.challenger.Critique(ctx, current.Hypothesis)
		if err != nil {
			term, terr := r.recordTimeout(ctx, t.ID, "challenger", err)
			if terr != nil {
				return nil, terr
			}
			if term != nil {
				return term, nil
			}
			continue
		}

		def, err := r.defender.Defend(ctx, current.Hypothesis, crit)
		if err != nil {
			term, terr := r.recordTimeout(ctx, t.ID, "defender", err)
			if terr != nil {
				return nil, terr
			}
			if term != nil {
				return term, nil
			}
			continue
		}

		res, err := r.service.PlayRound(ctx, t.ID, crit, def)
		if err != nil {
			return nil, err
		}
		if res.Termination != nil {
			return res.Termination, nil
		}
	}

	// The arena kept the tournament alive past any reasonable length;
	// surface it as a stalemate for the adjudicator rather than looping.
	r.log.Warn("tournament %s exceeded %d rounds, cancelling", t.ID, maxRoundsSafety)
	term, err := r.service.Cancel(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return term, nil
}

// recordTimeout converts a port deadline error into an ambiguous round. A
// nil, nil return means the tournament survived escalation and the caller
// should continue with the next round; any other error passes through.
func (r *Runner) recordTimeout(ctx context.Context, id core.TournamentID, party string, err error) (*tournament.Termination, error) {
	if !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	res, err := r.service.PlayTimedOut(ctx, id, party)
	if err != nil {
		return nil, err
	}
	return res.Termination, nil
}
