package claims

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound/internal/domain"
	"lostfound/internal/ports"
)

// fakeStore is an in-memory stand-in for the document store. Server
// timestamps are stamped with the local clock on write.
type fakeStore struct {
	mu       sync.Mutex
	docs     map[string]map[string]domain.Record
	failures map[string]error // per-collection Update failures
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:     map[string]map[string]domain.Record{},
		failures: map[string]error{},
	}
}

func (f *fakeStore) put(collection, id string, doc domain.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs[collection] == nil {
		f.docs[collection] = map[string]domain.Record{}
	}
	f.docs[collection][id] = doc
}

func (f *fakeStore) Get(_ context.Context, collection, id string) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[collection][id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := make(domain.Record, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) Set(_ context.Context, collection, id string, doc domain.Record) error {
	f.put(collection, id, stamp(doc))
	return nil
}

func (f *fakeStore) Update(_ context.Context, collection, id string, fields domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failures[collection]; err != nil {
		return err
	}
	doc, ok := f.docs[collection][id]
	if !ok {
		return ports.ErrNotFound
	}
	for k, v := range stamp(fields) {
		doc[k] = v
	}
	return nil
}

func (f *fakeStore) Query(_ context.Context, collection, field, value string) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Record
	for _, doc := range f.docs[collection] {
		if s, _ := doc[field].(string); s == value {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func stamp(fields domain.Record) domain.Record {
	out := make(domain.Record, len(fields))
	for k, v := range fields {
		if _, ok := v.(domain.ServerTimestamp); ok {
			out[k] = time.Now()
			continue
		}
		out[k] = v
	}
	return out
}

// fakeNotifier signals each dispatch so tests can wait for the detached goroutine.
type fakeNotifier struct {
	calls chan dispatchCall
}

type dispatchCall struct {
	item  domain.Record
	claim domain.Record
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan dispatchCall, 4)}
}

func (f *fakeNotifier) Dispatch(item, claim domain.Record) ports.DispatchOutcome {
	f.calls <- dispatchCall{item: item, claim: claim}
	return ports.DispatchAll
}

func (f *fakeNotifier) await(t *testing.T) dispatchCall {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not invoked")
		return dispatchCall{}
	}
}

func (f *fakeNotifier) assertNotCalled(t *testing.T) {
	t.Helper()
	select {
	case <-f.calls:
		t.Fatal("notifier should not have been invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func seedClaim(store *fakeStore) {
	store.put(domain.ClaimCollection, "c1", domain.Record{
		"claimId":       "c1",
		"itemType":      domain.TypeLost,
		"itemId":        "i1",
		"claimantName":  "Bob",
		"claimantEmail": "claimant@x.com",
		"status":        domain.StatusPending,
	})
}

func seedItem(store *fakeStore) {
	store.put(domain.LostItemCollection, "i1", domain.Record{
		"itemName": "Wallet",
		"name":     "Alice",
		"email":    "owner@x.com",
		"status":   domain.StatusOpen,
	})
}

func TestApproveUnknownClaim(t *testing.T) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	svc := New(store, notifier)

	err := svc.Approve(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrClaimNotFound)
	notifier.assertNotCalled(t)
}

func TestApproveRequiresClaimID(t *testing.T) {
	svc := New(newFakeStore(), newFakeNotifier())
	assert.ErrorIs(t, svc.Approve(context.Background(), ""), ErrMissingClaimID)
}

func TestApprove(t *testing.T) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	svc := New(store, notifier)
	seedClaim(store)
	seedItem(store)

	require.NoError(t, svc.Approve(context.Background(), "c1"))

	claim, err := store.Get(context.Background(), domain.ClaimCollection, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, claim["status"])
	assert.NotNil(t, claim["actionDate"])

	item, err := store.Get(context.Background(), domain.LostItemCollection, "i1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, item["status"])

	call := notifier.await(t)
	assert.Equal(t, "Wallet", call.item["itemName"])
	assert.Equal(t, "claimant@x.com", call.claim["claimantEmail"])
}

func TestApproveWithDanglingItemReference(t *testing.T) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	svc := New(store, notifier)
	seedClaim(store)

	require.NoError(t, svc.Approve(context.Background(), "c1"))

	claim, err := store.Get(context.Background(), domain.ClaimCollection, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, claim["status"])

	call := notifier.await(t)
	assert.Nil(t, call.item)
}

func TestApproveSurvivesItemUpdateFailure(t *testing.T) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	svc := New(store, notifier)
	seedClaim(store)
	seedItem(store)
	store.failures[domain.LostItemCollection] = errors.New("write conflict")

	require.NoError(t, svc.Approve(context.Background(), "c1"))
	notifier.await(t)
}

func TestApproveFailsWhenClaimUpdateFails(t *testing.T) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	svc := New(store, notifier)
	seedClaim(store)
	seedItem(store)
	store.failures[domain.ClaimCollection] = errors.New("store unavailable")

	err := svc.Approve(context.Background(), "c1")
	require.Error(t, err)
	notifier.assertNotCalled(t)
}

func TestReject(t *testing.T) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	svc := New(store, notifier)
	seedClaim(store)

	require.NoError(t, svc.Reject(context.Background(), "c1"))

	claim, err := store.Get(context.Background(), domain.ClaimCollection, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, claim["status"])
	assert.NotNil(t, claim["actionDate"])
	notifier.assertNotCalled(t)
}

func TestRejectUnknownClaim(t *testing.T) {
	svc := New(newFakeStore(), newFakeNotifier())
	assert.ErrorIs(t, svc.Reject(context.Background(), "nope"), ErrClaimNotFound)
}

func TestSubmit(t *testing.T) {
	store := newFakeStore()
	svc := New(store, newFakeNotifier())
	seedItem(store)

	claimID, err := svc.Submit(context.Background(), ports.SubmitClaim{
		ItemType:    domain.TypeLost,
		ItemID:      "i1",
		Description: "black leather, scratch on the back",
		Name:        "Bob",
		Email:       "claimant@x.com",
		Phone:       "222",
	})
	require.NoError(t, err)
	require.NotEmpty(t, claimID)

	claim, err := store.Get(context.Background(), domain.ClaimCollection, claimID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, claim["status"])
	assert.Equal(t, "i1", claim["itemId"])
	assert.NotNil(t, claim["createdAt"])
}

func TestSubmitUnknownItem(t *testing.T) {
	svc := New(newFakeStore(), newFakeNotifier())
	_, err := svc.Submit(context.Background(), ports.SubmitClaim{ItemType: domain.TypeLost, ItemID: "i9"})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSubmitRequiresItemReference(t *testing.T) {
	svc := New(newFakeStore(), newFakeNotifier())
	_, err := svc.Submit(context.Background(), ports.SubmitClaim{ItemType: domain.TypeLost})
	assert.ErrorIs(t, err, ErrMissingItemRef)
}
