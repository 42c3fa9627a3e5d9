// Package bot implements the per-user conversation engine that drives the
// catalog API from chat messages.
//
// A user picks an action from a static menu. Actions that need input move the
// user into an awaiting state; the next text message that matches the state's
// grammar triggers exactly one catalog call and returns the user to idle.
// Text that does not match, or arrives while idle or while a call is in
// flight, is ignored.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-dog-catalog/internal/domain"
)

// ErrUnknownAction is returned for a menu action the engine does not know.
var ErrUnknownAction = errors.New("unknown action")

// Catalog is the subset of the catalog API the engine uses.
type Catalog interface {
	Health(ctx context.Context) (string, error)
	CreatePost(ctx context.Context) (domain.Post, error)
	ListDogs(ctx context.Context, kind domain.Kind) ([]domain.Dog, error)
	GetDog(ctx context.Context, pk int) (domain.Dog, error)
	CreateDog(ctx context.Context, d domain.Dog) (domain.Dog, error)
	UpdateDog(ctx context.Context, pk int, d domain.Dog) (domain.Dog, error)
}

// Engine routes user updates to catalog calls.
type Engine struct {
	catalog  Catalog
	sessions *Sessions
}

// NewEngine returns an engine backed by c.
func NewEngine(c Catalog) *Engine {
	return &Engine{catalog: c, sessions: NewSessions()}
}

// Sessions exposes the session table.
func (e *Engine) Sessions() *Sessions { return e.sessions }

// HandleStart greets the user and shows the menu. The pending state is left
// as is.
func (e *Engine) HandleStart(_ context.Context, userID, name string) Reply {
	updatesTotal.WithLabelValues("start").Inc()
	return Reply{Text: greeting(name), Menu: Menu()}
}

// HandleAction handles a menu selection. Selections are accepted in any
// state; one that needs input replaces whatever was pending.
func (e *Engine) HandleAction(ctx context.Context, userID string, action Action) (Reply, error) {
	if !action.valid() {
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	updatesTotal.WithLabelValues("action").Inc()

	switch action {
	case ActionServerStatus:
		status, err := e.catalog.Health(context.WithoutCancel(ctx))
		e.observe(userID, "health", err)
		if err != nil {
			return e.reply(formatError(err)), nil
		}
		return e.reply(status), nil

	case ActionNewPost:
		p, err := e.catalog.CreatePost(context.WithoutCancel(ctx))
		e.observe(userID, "create_post", err)
		if err != nil {
			return e.reply(formatError(err)), nil
		}
		return e.reply(formatPost(p)), nil

	case ActionFindDogs:
		e.sessions.Enter(userID, StateAwaitingKind)
		return e.reply(promptKind), nil
	case ActionCreateDog:
		e.sessions.Enter(userID, StateAwaitingCreatePayload)
		return e.reply(promptCreate), nil
	case ActionFindDog:
		e.sessions.Enter(userID, StateAwaitingLookupPK)
		return e.reply(promptLookup), nil
	default: // ActionUpdateDog
		e.sessions.Enter(userID, StateAwaitingUpdatePayload)
		return e.reply(promptUpdate), nil
	}
}

// HandleText handles a free-text message. It reports false when the message
// was ignored; the session is then unchanged.
func (e *Engine) HandleText(ctx context.Context, userID, text string) (Reply, bool) {
	updatesTotal.WithLabelValues("text").Inc()

	state, gen, busy := e.sessions.Current(userID)
	if state == StateIdle || busy {
		return Reply{}, false
	}

	var call func(context.Context) string
	switch state {
	case StateAwaitingKind:
		kind, ok := ParseKind(text)
		if !ok {
			return Reply{}, false
		}
		call = func(ctx context.Context) string {
			dogs, err := e.catalog.ListDogs(ctx, kind)
			e.observe(userID, "list_dogs", err)
			if err != nil {
				return formatError(err)
			}
			return formatDogs(dogs)
		}

	case StateAwaitingCreatePayload:
		d, ok := ParseCreate(text)
		if !ok {
			return Reply{}, false
		}
		call = func(ctx context.Context) string {
			out, err := e.catalog.CreateDog(ctx, d)
			e.observe(userID, "create_dog", err)
			if err != nil {
				return formatError(err)
			}
			return "Added: " + formatDog(out)
		}

	case StateAwaitingLookupPK:
		pk, ok := ParseLookup(text)
		if !ok {
			return Reply{}, false
		}
		call = func(ctx context.Context) string {
			out, err := e.catalog.GetDog(ctx, pk)
			e.observe(userID, "get_dog", err)
			if err != nil {
				return formatError(err)
			}
			return "Found: " + formatDog(out)
		}

	case StateAwaitingUpdatePayload:
		oldPK, d, ok := ParseUpdate(text)
		if !ok {
			return Reply{}, false
		}
		call = func(ctx context.Context) string {
			out, err := e.catalog.UpdateDog(ctx, oldPK, d)
			e.observe(userID, "update_dog", err)
			if err != nil {
				return formatError(err)
			}
			return "Updated: " + formatDog(out)
		}

	default:
		return Reply{}, false
	}

	if !e.sessions.Begin(userID, gen) {
		return Reply{}, false
	}
	// A caller going away does not abort the catalog call; the client
	// timeout bounds it.
	text = call(context.WithoutCancel(ctx))
	if !e.sessions.Finish(userID, gen) {
		log.Debug().Str("user_id", userID).Str("state", string(state)).Msg("session moved on during call")
	}
	return e.reply(text), true
}

func (e *Engine) reply(text string) Reply {
	return Reply{Text: text, Menu: Menu()}
}

func (e *Engine) observe(userID, op string, err error) {
	catalogCallsTotal.WithLabelValues(op, outcome(err)).Inc()
	if err == nil {
		return
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		log.Info().Err(err).Str("user_id", userID).Str("op", op).Msg("catalog rejected request")
		return
	}
	log.Warn().Err(err).Str("user_id", userID).Str("op", op).Msg("catalog call failed")
}
