package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/tbourn/go-dog-catalog/internal/domain"
)

type fakeCatalog struct {
	mu      sync.Mutex
	calls   []string
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeCatalog) record(op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	block, started := f.block, f.started
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return f.err
}

func (f *fakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCatalog) Health(context.Context) (string, error) {
	return "OK", f.record("health")
}

func (f *fakeCatalog) CreatePost(context.Context) (domain.Post, error) {
	return domain.Post{ID: 2, Timestamp: 1700000000}, f.record("create_post")
}

func (f *fakeCatalog) ListDogs(_ context.Context, kind domain.Kind) ([]domain.Dog, error) {
	if err := f.record("list:" + string(kind)); err != nil {
		return nil, err
	}
	if kind == domain.KindDalmatian {
		return nil, nil
	}
	return []domain.Dog{{Name: "Bob", PK: 0, Kind: kind}, {Name: "Rex", PK: 3, Kind: kind}}, nil
}

func (f *fakeCatalog) GetDog(_ context.Context, pk int) (domain.Dog, error) {
	return domain.Dog{Name: "Rex", PK: pk, Kind: domain.KindTerrier}, f.record("get")
}

func (f *fakeCatalog) CreateDog(_ context.Context, d domain.Dog) (domain.Dog, error) {
	return d, f.record("create")
}

func (f *fakeCatalog) UpdateDog(_ context.Context, _ int, d domain.Dog) (domain.Dog, error) {
	return d, f.record("update")
}

func mustAction(t *testing.T, e *Engine, user string, a Action) Reply {
	t.Helper()
	r, err := e.HandleAction(context.Background(), user, a)
	if err != nil {
		t.Fatalf("HandleAction(%s): %v", a, err)
	}
	if len(r.Menu) != 3 {
		t.Fatalf("reply without menu: %+v", r)
	}
	return r
}

func TestEngine_StartShowsMenu(t *testing.T) {
	e := NewEngine(&fakeCatalog{})
	r := e.HandleStart(context.Background(), "u1", "Ann")
	if !strings.Contains(r.Text, "Ann") || len(r.Menu) != 3 {
		t.Fatalf("got %+v", r)
	}
}

func TestEngine_UnknownAction(t *testing.T) {
	e := NewEngine(&fakeCatalog{})
	if _, err := e.HandleAction(context.Background(), "u1", "dance"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v", err)
	}
}

func TestEngine_ImmediateActions(t *testing.T) {
	f := &fakeCatalog{}
	e := NewEngine(f)

	if r := mustAction(t, e, "u1", ActionServerStatus); r.Text != "OK" {
		t.Fatalf("status text = %q", r.Text)
	}
	if r := mustAction(t, e, "u1", ActionNewPost); r.Text != "id: 2, timestamp: 1700000000" {
		t.Fatalf("post text = %q", r.Text)
	}
	if st, _, _ := e.Sessions().Current("u1"); st != StateIdle {
		t.Fatalf("state = %s; want idle", st)
	}
}

func TestEngine_FindDogsFlow(t *testing.T) {
	f := &fakeCatalog{}
	e := NewEngine(f)
	ctx := context.Background()

	mustAction(t, e, "u1", ActionFindDogs)

	if _, ok := e.HandleText(ctx, "u1", "poodle"); ok {
		t.Fatal("non-matching text was handled")
	}
	if st, _, _ := e.Sessions().Current("u1"); st != StateAwaitingKind {
		t.Fatalf("state after mismatch = %s", st)
	}
	if len(f.Calls()) != 0 {
		t.Fatalf("calls on mismatch: %v", f.Calls())
	}

	r, ok := e.HandleText(ctx, "u1", "Terrier")
	if !ok {
		t.Fatal("matching text ignored")
	}
	if r.Text != "name: Bob, pk: 0, kind: terrier\nname: Rex, pk: 3, kind: terrier" {
		t.Fatalf("text = %q", r.Text)
	}
	if st, _, _ := e.Sessions().Current("u1"); st != StateIdle {
		t.Fatalf("state = %s; want idle", st)
	}

	if _, ok := e.HandleText(ctx, "u1", "terrier"); ok {
		t.Fatal("text while idle was handled")
	}
	if got := f.Calls(); len(got) != 1 {
		t.Fatalf("calls = %v; want exactly one", got)
	}
}

func TestEngine_EmptyList(t *testing.T) {
	e := NewEngine(&fakeCatalog{})
	mustAction(t, e, "u1", ActionFindDogs)
	r, _ := e.HandleText(context.Background(), "u1", "dalmatian")
	if r.Text != msgNoDogs {
		t.Fatalf("text = %q", r.Text)
	}
}

func TestEngine_PayloadFlows(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		action Action
		text   string
		want   string
	}{
		{ActionCreateDog, "name: Lassie, pk: 12, kind: dalmatian", "Added: name: Lassie, pk: 12, kind: dalmatian"},
		{ActionFindDog, "3", "Found: name: Rex, pk: 3, kind: terrier"},
		{ActionUpdateDog, "old_pk: 3, name: Rexy, pk: 30, kind: terrier", "Updated: name: Rexy, pk: 30, kind: terrier"},
	}
	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			e := NewEngine(&fakeCatalog{})
			mustAction(t, e, "u1", tc.action)
			r, ok := e.HandleText(ctx, "u1", tc.text)
			if !ok || r.Text != tc.want {
				t.Fatalf("got %q, %v; want %q", r.Text, ok, tc.want)
			}
		})
	}
}

func TestEngine_ErrorReplies(t *testing.T) {
	ctx := context.Background()

	apiErr := &APIError{StatusCode: 422, Details: []Detail{{Msg: "The specified PK already exists.", Type: "duplicate"}}}
	e := NewEngine(&fakeCatalog{err: apiErr})
	mustAction(t, e, "u1", ActionCreateDog)
	r, _ := e.HandleText(ctx, "u1", "name: Rex, pk: 3, kind: terrier")
	if r.Text != "API returned an error:\nThe specified PK already exists." {
		t.Fatalf("text = %q", r.Text)
	}
	if st, _, _ := e.Sessions().Current("u1"); st != StateIdle {
		t.Fatalf("state after failed call = %s; want idle", st)
	}

	e = NewEngine(&fakeCatalog{err: &HTTPError{StatusCode: 500, Body: "boom"}})
	r = mustAction(t, e, "u1", ActionServerStatus)
	if r.Text != msgServerError {
		t.Fatalf("text = %q", r.Text)
	}
}

func TestEngine_ReselectionReplacesPending(t *testing.T) {
	f := &fakeCatalog{}
	e := NewEngine(f)
	ctx := context.Background()

	mustAction(t, e, "u1", ActionFindDog)
	mustAction(t, e, "u1", ActionFindDogs)

	if _, ok := e.HandleText(ctx, "u1", "3"); ok {
		t.Fatal("pk accepted after switching to kind lookup")
	}
	if _, ok := e.HandleText(ctx, "u1", "bulldog"); !ok {
		t.Fatal("kind ignored")
	}
}

func TestEngine_InFlightAndLateResponse(t *testing.T) {
	f := &fakeCatalog{block: make(chan struct{}), started: make(chan struct{}, 1)}
	e := NewEngine(f)
	ctx := context.Background()

	mustAction(t, e, "u1", ActionFindDog)

	done := make(chan Reply)
	go func() {
		r, _ := e.HandleText(ctx, "u1", "3")
		done <- r
	}()
	<-f.started

	if _, ok := e.HandleText(ctx, "u1", "4"); ok {
		t.Fatal("second text handled while a call is in flight")
	}

	f.mu.Lock()
	f.started = nil
	f.mu.Unlock()
	mustAction(t, e, "u1", ActionCreateDog)

	close(f.block)
	if r := <-done; r.Text != "Found: name: Rex, pk: 3, kind: terrier" {
		t.Fatalf("late reply = %q", r.Text)
	}
	if st, _, _ := e.Sessions().Current("u1"); st != StateAwaitingCreatePayload {
		t.Fatalf("state = %s; late response clobbered newer selection", st)
	}
}

// ctxCatalog waits for release and reports whether the call context was
// cancelled by then.
type ctxCatalog struct {
	fakeCatalog
	release chan struct{}
}

func (c *ctxCatalog) GetDog(ctx context.Context, pk int) (domain.Dog, error) {
	<-c.release
	if err := ctx.Err(); err != nil {
		return domain.Dog{}, err
	}
	return domain.Dog{Name: "Rex", PK: pk, Kind: domain.KindTerrier}, nil
}

func TestEngine_CallerCancelDoesNotAbortCall(t *testing.T) {
	c := &ctxCatalog{release: make(chan struct{})}
	e := NewEngine(c)
	mustAction(t, e, "u1", ActionFindDog)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Reply)
	go func() {
		r, _ := e.HandleText(ctx, "u1", "3")
		done <- r
	}()
	cancel()
	close(c.release)

	if r := <-done; r.Text != "Found: name: Rex, pk: 3, kind: terrier" {
		t.Fatalf("reply = %q; caller cancellation reached the catalog call", r.Text)
	}
	if st, _, _ := e.Sessions().Current("u1"); st != StateIdle {
		t.Fatalf("state = %s; want idle after the call", st)
	}
}

func TestEngine_UsersAreIsolated(t *testing.T) {
	e := NewEngine(&fakeCatalog{})
	ctx := context.Background()

	mustAction(t, e, "a", ActionFindDogs)
	if _, ok := e.HandleText(ctx, "b", "terrier"); ok {
		t.Fatal("user b handled without a pending state")
	}
	if _, ok := e.HandleText(ctx, "a", "terrier"); !ok {
		t.Fatal("user a ignored")
	}
}
