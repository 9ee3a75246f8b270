// Package loadgen drives POST /pessoas/ with simulated users, each creating a
// random pessoa and then pausing for a random interval.
package loadgen

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/pessoas/internal/logging"
	"github.com/dmitrijs2005/pessoas/internal/netx"
	"github.com/dmitrijs2005/pessoas/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const cidade = "São Paulo"

// Pessoa is the request body sent by each simulated user.
type Pessoa struct {
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Senha  string `json:"senha"`
	Cidade string `json:"cidade"`
}

// Stats summarizes a run. Any status other than 200 or 201 is a failure.
type Stats struct {
	Requests int64
	Failures int64
}

type Runner struct {
	BaseURL  string
	Users    int
	Duration time.Duration
	MinWait  time.Duration
	MaxWait  time.Duration
	Client   *http.Client
	Logger   logging.Logger
}

// NewPessoa builds a random pessoa. The email carries a uuid fragment so runs
// against a non-empty table do not collide.
func NewPessoa() Pessoa {
	name := shared.RandomString(8, shared.LowerLetters)
	return Pessoa{
		Nome:   shared.Capitalize(name),
		Email:  name + "-" + uuid.NewString()[:8] + "@teste.com",
		Senha:  shared.RandomString(10, shared.LowerLetters),
		Cidade: cidade,
	}
}

// Run starts Users workers and blocks until Duration elapses (if set) or ctx
// is cancelled.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	if r.Users <= 0 {
		return Stats{}, errors.New("users must be positive")
	}

	if r.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Duration)
		defer cancel()
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	url := strings.TrimRight(r.BaseURL, "/") + "/pessoas/"

	var requests, failures atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for i := range r.Users {
		g.Go(func() error {
			r.user(ctx, i, client, url, &requests, &failures)
			return nil
		})
	}
	_ = g.Wait()

	return Stats{Requests: requests.Load(), Failures: failures.Load()}, nil
}

func (r *Runner) user(ctx context.Context, n int, client *http.Client, url string, requests, failures *atomic.Int64) {
	for ctx.Err() == nil {
		status, err := netx.PostJSON(ctx, client, url, NewPessoa())
		if ctx.Err() != nil {
			// cut short by the end of the run
			return
		}

		requests.Add(1)
		if err != nil || (status != http.StatusOK && status != http.StatusCreated) {
			failures.Add(1)
			if r.Logger != nil {
				r.Logger.Warn(ctx, "request failed", "user", n, "status", status, "error", err)
			}
		}

		wait := time.NewTimer(shared.RandomDuration(r.MinWait, r.MaxWait))
		select {
		case <-ctx.Done():
			wait.Stop()
			return
		case <-wait.C:
		}
	}
}
