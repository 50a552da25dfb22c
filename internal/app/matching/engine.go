// internal/app/matching/engine.go

// Package matching implements the pairing-assignment engine: given a godchild
// registration it either replays the existing assignment or selects the
// least-loaded sponsor(s), records the pairing, and bumps the chosen
// counters, all under one exclusive lock so concurrent registrations see a
// consistent snapshot of the session.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/store/pairings"
	"github.com/kevyamon/lokolink/internal/app/system/normalize"
	"github.com/kevyamon/lokolink/internal/app/system/timeouts"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

var (
	ErrEmptyGodchildName = errors.New("godchild name is required")
	ErrBadAccessCode     = errors.New("session access code does not match")
	ErrSessionClosed     = errors.New("session is no longer accepting registrations")
	ErrNoSponsors        = errors.New("no sponsors available in this session")
)

// SessionStore is the slice of the sessions store the engine needs.
// GetByID returns sessions.ErrNotFound for unknown IDs.
type SessionStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Session, error)
	IncrementSponsorCount(ctx context.Context, sessionID, sponsorID primitive.ObjectID) error
}

// PairingLedger is the slice of the pairings store the engine needs.
// FindByGodchild returns pairings.ErrNotFound when no pairing exists.
type PairingLedger interface {
	FindByGodchild(ctx context.Context, sessionID primitive.ObjectID, nameKey string) (models.Pairing, error)
	Create(ctx context.Context, p models.Pairing) (models.Pairing, error)
	CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
}

// Notifier receives the updated session snapshot after a successful
// assignment. Implementations must not block.
type Notifier interface {
	SessionChanged(sess models.Session)
}

// Request is a validated registration: the handler guarantees all fields are
// present before the engine sees it.
type Request struct {
	GodchildName   string
	GodchildGender string
	SessionID      primitive.ObjectID
	SessionCode    string
}

// Result is what the godchild gets back. Replayed means the assignment
// already existed and nothing was mutated; Duo then reflects historical fact.
type Result struct {
	SponsorName  string
	SponsorPhone string
	Duo          bool
	Replayed     bool
}

// Engine owns the assignment critical section. Each Engine instance carries
// its own lock, so tests can run several engines against separate stores;
// production wires exactly one per process.
type Engine struct {
	sessions SessionStore
	ledger   PairingLedger
	notify   Notifier
	log      *zap.Logger

	// mu serializes assignment decisions. The rank read, the duo decision,
	// the ledger write, and the counter increments must happen as one unit;
	// nothing else in the application may take this lock.
	mu sync.Mutex
}

// NewEngine builds an engine over the given collaborators.
func NewEngine(sessions SessionStore, ledger PairingLedger, notify Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		ledger:   ledger,
		notify:   notify,
		log:      logger,
	}
}

// Assign processes one godchild registration end to end: gate validation,
// idempotent replay, duo/solo selection, ledger write, counter increments,
// change notification.
//
// A caller that goes away mid-assignment does not abort the work: the
// critical section runs on a detached context with its own deadline, so an
// assignment that starts always runs to completion (or to a storage error),
// never to a half-committed state caused by a dropped connection.
func (e *Engine) Assign(ctx context.Context, req Request) (Result, error) {
	name := normalize.Name(req.GodchildName)
	if name == "" {
		return Result{}, ErrEmptyGodchildName
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Long())
	defer cancel()

	e.mu.Lock()
	defer e.mu.Unlock()

	sess, err := e.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return Result{}, err // sessions.ErrNotFound or storage failure
	}
	if strings.TrimSpace(req.SessionCode) != strings.TrimSpace(sess.AccessCode) {
		return Result{}, ErrBadAccessCode
	}
	if !sess.IsActive {
		return Result{}, ErrSessionClosed
	}

	// Idempotent replay: same godchild, same session, same answer.
	nameKey := normalize.NameKey(name)
	if existing, err := e.ledger.FindByGodchild(ctx, req.SessionID, nameKey); err == nil {
		return Result{
			SponsorName:  existing.SponsorName,
			SponsorPhone: existing.SponsorPhone,
			Duo:          existing.Duo,
			Replayed:     true,
		}, nil
	} else if !errors.Is(err, pairings.ErrNotFound) {
		return Result{}, fmt.Errorf("idempotence check: %w", err)
	}

	if len(sess.Sponsors) == 0 {
		return Result{}, ErrNoSponsors
	}

	// currentRank must come from inside the critical section; reading it
	// earlier would let two registrants both believe they are first.
	currentRank, err := e.ledger.CountBySession(ctx, req.SessionID)
	if err != nil {
		return Result{}, fmt.Errorf("count pairings: %w", err)
	}

	sel := decide(sess.Sponsors, currentRank, sess.ExpectedGodchildren)

	created, err := e.ledger.Create(ctx, models.Pairing{
		GodchildName:   name,
		GodchildGender: req.GodchildGender,
		SponsorName:    sel.displayName(),
		SponsorPhone:   sel.displayPhone(),
		Duo:            sel.Duo,
		SessionID:      req.SessionID,
	})
	if err != nil {
		// The unique index can still fire when several processes share the
		// database. Someone else just paired this godchild; replay theirs.
		if errors.Is(err, pairings.ErrDuplicate) {
			if existing, findErr := e.ledger.FindByGodchild(ctx, req.SessionID, nameKey); findErr == nil {
				return Result{
					SponsorName:  existing.SponsorName,
					SponsorPhone: existing.SponsorPhone,
					Duo:          existing.Duo,
					Replayed:     true,
				}, nil
			}
		}
		return Result{}, fmt.Errorf("record pairing: %w", err)
	}

	for _, sp := range sel.Sponsors {
		e.incrementWithRetry(ctx, &sess, sp)
	}

	if e.notify != nil {
		e.notify.SessionChanged(sess)
	}

	e.log.Info("pairing assigned",
		zap.String("session_id", req.SessionID.Hex()),
		zap.String("godchild", created.GodchildName),
		zap.String("sponsor", created.SponsorName),
		zap.Bool("duo", created.Duo),
		zap.Int64("rank", currentRank))

	return Result{
		SponsorName:  created.SponsorName,
		SponsorPhone: created.SponsorPhone,
		Duo:          created.Duo,
	}, nil
}

// incrementWithRetry applies one counter increment, retrying once. A pairing
// without its increments violates the engine's bookkeeping invariant, so a
// double failure is logged as a severe anomaly with enough context to repair
// the counter by hand; the recorded pairing itself stands.
func (e *Engine) incrementWithRetry(ctx context.Context, sess *models.Session, sp models.Sponsor) {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if err = e.sessions.IncrementSponsorCount(ctx, sess.ID, sp.ID); err == nil {
			// Keep the in-memory snapshot honest for the notification.
			for i := range sess.Sponsors {
				if sess.Sponsors[i].ID == sp.ID {
					sess.Sponsors[i].AssignedCount++
				}
			}
			return
		}
	}
	e.log.Error("ANOMALY: pairing recorded but sponsor counter increment failed",
		zap.String("session_id", sess.ID.Hex()),
		zap.String("sponsor_id", sp.ID.Hex()),
		zap.String("sponsor", sp.Name),
		zap.Error(err))
}
