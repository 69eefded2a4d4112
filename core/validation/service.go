package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.dedis.ch/ledgertx"
	"go.dedis.ch/ledgertx/core"
	"go.dedis.ch/ledgertx/core/execution"
	"go.dedis.ch/ledgertx/core/history"
	"go.dedis.ch/ledgertx/core/txn"
	"golang.org/x/xerrors"
)

// defines prometheus metrics
var (
	promRefused = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgertx_validation_refused_total",
		Help: "total number of transactions refused at admission",
	}, []string{"kind"})

	promResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledgertx_validation_results_total",
		Help: "total number of committed results by outcome",
	}, []string{"outcome"})
)

func init() {
	ledgertx.PromCollectors = append(ledgertx.PromCollectors, promRefused, promResults)
}

// Committer is the interface of the history that records the entries.
type Committer interface {
	// Has returns true when the entrypoint is already in the history.
	Has(h txn.EntrypointHash) (bool, error)

	Commit(entries ...history.Entry) error
}

// Service processes the entrypoints: it admits the external ones, executes
// them and commits the results to the history. The observers are notified of
// every committed entry.
type Service struct {
	acceptor  Acceptor
	execution execution.Service
	history   Committer
	watcher   *core.Watcher[history.Entry]
	logger    zerolog.Logger
}

// NewService returns a new validation service.
func NewService(acceptor Acceptor, exec execution.Service, hist Committer) *Service {
	return &Service{
		acceptor:  acceptor,
		execution: exec,
		history:   hist,
		watcher:   core.NewWatcher[history.Entry](),
		logger:    ledgertx.Logger.With().Str("chain", acceptor.Chain.String()).Logger(),
	}
}

// Watch returns the observable of the committed entries.
func (s *Service) Watch() core.Observable[history.Entry] {
	return s.watcher
}

// Process executes the entrypoints one after each other and commits their
// results atomically. An external entrypoint refused for its chain or its
// signature is skipped, as is any entrypoint already committed or repeated in
// the batch, before it is executed. It returns the committed entries in their
// order of execution.
func (s *Service) Process(entrypoints ...txn.Entrypoint) ([]history.Entry, error) {
	entries := make([]history.Entry, 0, len(entrypoints))
	seen := make(map[txn.EntrypointHash]struct{}, len(entrypoints))

	for _, e := range entrypoints {
		var res txn.Result

		err := s.admit(seen, e)
		if err == nil {
			res, err = s.process(e)
		}

		if err != nil {
			var acceptErr *AcceptError
			if xerrors.As(err, &acceptErr) {
				s.logger.Warn().
					Str("entrypoint", e.Hash().String()).
					Stringer("kind", acceptErr.Kind).
					Err(acceptErr.Reason).
					Msg("transaction refused")

				promRefused.WithLabelValues(acceptErr.Kind.String()).Inc()
				continue
			}

			return nil, xerrors.Errorf("entrypoint %v: %v", e.Hash(), err)
		}

		entries = append(entries, history.Entry{Entrypoint: e, Result: res})
	}

	err := s.history.Commit(entries...)
	if err != nil {
		return nil, xerrors.Errorf("failed to commit: %v", err)
	}

	for _, entry := range entries {
		s.record(entry)
		s.watcher.Notify(entry)
	}

	return entries, nil
}

// admit refuses the entrypoint if it has been executed before.
func (s *Service) admit(seen map[txn.EntrypointHash]struct{}, e txn.Entrypoint) error {
	h := e.Hash()

	_, found := seen[h]
	if !found {
		var err error

		found, err = s.history.Has(h)
		if err != nil {
			return xerrors.Errorf("failed to read history: %v", err)
		}
	}

	if found {
		return &AcceptError{
			Kind:   Duplicate,
			Reason: xerrors.Errorf("entrypoint %v already committed", h),
		}
	}

	seen[h] = struct{}{}

	return nil
}

func (s *Service) process(e txn.Entrypoint) (txn.Result, error) {
	tx, ok := e.External()
	if ok {
		err := s.acceptor.Accept(tx)
		if err != nil {
			acceptErr := err.(*AcceptError)

			reason, ok := acceptErr.Rejection()
			if !ok {
				return txn.Result{}, acceptErr
			}

			return txn.NewErr(reason), nil
		}
	}

	res, err := s.execution.Execute(e)
	if err != nil {
		return txn.Result{}, xerrors.Errorf("failed to execute: %v", err)
	}

	return res, nil
}

func (s *Service) record(entry history.Entry) {
	reason, rejected := entry.Result.Reason()
	if !rejected {
		s.logger.Debug().
			Str("entrypoint", entry.Hash().String()).
			Stringer("kind", entry.Entrypoint.Kind()).
			Msg("entrypoint committed")

		promResults.WithLabelValues("ok").Inc()
		return
	}

	s.logger.Warn().
		Str("entrypoint", entry.Hash().String()).
		Stringer("kind", entry.Entrypoint.Kind()).
		Err(reason).
		Msg("entrypoint rejected")

	promResults.WithLabelValues(reason.Kind().String()).Inc()
}
