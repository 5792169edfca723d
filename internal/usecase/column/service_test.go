package column

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"jamco/internal/domain"
	"jamco/internal/domain/column"
	"jamco/internal/domain/job"
	"jamco/internal/domain/user"
	"jamco/internal/repository/memory"
)

type fakeCache struct {
	data    map[string][]byte
	deletes []string
	// onSet runs before a value is stored.
	onSet func(key string)
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if f.onSet != nil {
		hook := f.onSet
		f.onSet = nil
		hook(key)
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	var n int64
	if b, ok := f.data[key]; ok {
		if err := json.Unmarshal(b, &n); err != nil {
			return 0, err
		}
	}
	n++
	b, _ := json.Marshal(n)
	f.data[key] = b
	return n, nil
}

func newUser(t *testing.T, store *memory.Store) user.User {
	t.Helper()
	u, err := store.Users().Create(context.Background(), user.User{GoogleID: t.Name(), Username: "u"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedColumns(t *testing.T, store *memory.Store, userID int64, names ...string) []column.Column {
	t.Helper()
	out := make([]column.Column, 0, len(names))
	for i, name := range names {
		c, err := store.Columns().Create(context.Background(), column.Column{UserID: userID, Name: name, ColumnNumber: i})
		if err != nil {
			t.Fatalf("create column: %v", err)
		}
		out = append(out, c)
	}
	return out
}

func TestUpdateColumns_Reconciles(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil, nil)
	u := newUser(t, store)
	cols := seedColumns(t, store, u.ID, "A", "B", "C")

	got, err := svc.UpdateColumns(context.Background(), u.ID, []column.Spec{
		column.ExistingSpec(cols[2].ID, "C2", 0),
		column.ExistingSpec(cols[0].ID, "A", 1),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := []column.Column{
		{ID: cols[2].ID, UserID: u.ID, Name: "C2", ColumnNumber: 0},
		{ID: cols[0].ID, UserID: u.ID, Name: "A", ColumnNumber: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d columns, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if _, err := store.Columns().GetByID(context.Background(), u.ID, cols[1].ID); !errors.Is(err, column.ErrNotFound) {
		t.Fatalf("expected deleted column, got %v", err)
	}
}

func TestUpdateColumns_OutOfRangeNumbersSortVerbatim(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil, nil)
	u := newUser(t, store)
	cols := seedColumns(t, store, u.ID, "A", "B")

	got, err := svc.UpdateColumns(context.Background(), u.ID, []column.Spec{
		column.ExistingSpec(cols[0].ID, "A", 0),
		column.ExistingSpec(cols[1].ID, "B", 1),
		column.NewSpec("Late", 500),
		column.NewSpec("Early", -50),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 columns, got %+v", got)
	}
	if got[0].Name != "Early" || got[0].ColumnNumber != -50 {
		t.Fatalf("expected Early first, got %+v", got[0])
	}
	if got[3].Name != "Late" || got[3].ColumnNumber != 500 {
		t.Fatalf("expected Late last, got %+v", got[3])
	}
}

func TestUpdateColumns_UnmatchedIDCreates(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil, nil)
	u := newUser(t, store)

	var specs []column.Spec
	if err := json.Unmarshal([]byte(`[{"id": 9999, "name": "X", "column_number": 0}, {"id": null, "name": "Y", "column_number": 1}]`), &specs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := svc.UpdateColumns(context.Background(), u.ID, specs)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].Name != "X" || got[0].ID == 9999 || got[1].Name != "Y" {
		t.Fatalf("unexpected columns: %+v", got)
	}
}

func TestUpdateColumns_EmptyIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil, nil)
	u := newUser(t, store)
	seedColumns(t, store, u.ID, "A", "B")

	for i := 0; i < 2; i++ {
		got, err := svc.UpdateColumns(context.Background(), u.ID, []column.Spec{})
		if err != nil {
			t.Fatalf("call %d: unexpected err: %v", i, err)
		}
		if len(got) != 0 {
			t.Fatalf("call %d: expected empty board, got %+v", i, got)
		}
	}
}

func TestUpdateColumns_MissingFieldChangesNothing(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil, nil)
	u := newUser(t, store)
	cols := seedColumns(t, store, u.ID, "A", "B", "C")

	var specs []column.Spec
	raw := `[{"id": 1, "name": "A2", "column_number": 0}, {"id": 2, "column_number": 1}]`
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		t.Fatalf("decode: %v", err)
	}

	_, err := svc.UpdateColumns(context.Background(), u.ID, specs)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	got, err := store.Columns().ListByUser(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(cols) {
		t.Fatalf("expected unchanged board, got %+v", got)
	}
	for i := range cols {
		if got[i] != cols[i] {
			t.Fatalf("column %d changed: %+v", i, got[i])
		}
	}
}

func TestUpdateColumns_MissingIDKeyIsInvalid(t *testing.T) {
	var specs []column.Spec
	if err := json.Unmarshal([]byte(`[{"name": "A", "column_number": 0}]`), &specs); err != nil {
		t.Fatalf("decode: %v", err)
	}

	store := memory.NewStore()
	u := newUser(t, store)
	_, err := NewService(store, nil, nil).UpdateColumns(context.Background(), u.ID, specs)
	if !errors.Is(err, column.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestUpdateColumns_ColumnNumberRange(t *testing.T) {
	var specs []column.Spec
	err := json.Unmarshal([]byte(`[{"id": null, "name": "Huge", "column_number": 3000000000}]`), &specs)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if err := column.NewSpec("Huge", 1<<40).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for out of range spec, got %v", err)
	}

	if err := json.Unmarshal([]byte(`[{"id": null, "name": "Edge", "column_number": 2147483647}]`), &specs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	store := memory.NewStore()
	u := newUser(t, store)
	got, err := NewService(store, nil, nil).UpdateColumns(context.Background(), u.ID, specs)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ColumnNumber != 2147483647 {
		t.Fatalf("expected edge value stored as given, got %+v", got)
	}
}

func TestUpdateColumns_UnknownUser(t *testing.T) {
	store := memory.NewStore()
	_, err := NewService(store, nil, nil).UpdateColumns(context.Background(), 42, []column.Spec{column.NewSpec("A", 0)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateColumns_StoreFailureRollsBack(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil, nil)
	u := newUser(t, store)
	cols := seedColumns(t, store, u.ID, "A", "B")

	boom := errors.New("boom")
	store.FailOn("columns.create", boom)

	_, err := svc.UpdateColumns(context.Background(), u.ID, []column.Spec{
		column.ExistingSpec(cols[0].ID, "renamed", 0),
		column.NewSpec("new", 1),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := store.Columns().ListByUser(context.Background(), u.ID)
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("expected untouched board, got %+v", got)
	}
}

func TestUpdateColumns_DeletesJobsOfRemovedColumns(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil, nil)
	u := newUser(t, store)
	cols := seedColumns(t, store, u.ID, "A", "B")
	j, err := store.Jobs().Create(context.Background(), job.Job{UserID: u.ID, ColumnID: cols[1].ID, PositionTitle: "SWE", Company: "Acme"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	if _, err := svc.UpdateColumns(context.Background(), u.ID, []column.Spec{column.ExistingSpec(cols[0].ID, "A", 0)}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := store.Jobs().GetByID(context.Background(), u.ID, j.ID); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("expected job deleted, got %v", err)
	}
}

func TestGetColumns_UsesAndInvalidatesCache(t *testing.T) {
	store := memory.NewStore()
	cache := newFakeCache()
	svc := NewService(store, cache, nil)
	u := newUser(t, store)
	seedColumns(t, store, u.ID, "A")

	first, err := svc.GetColumns(context.Background(), u.ID)
	if err != nil || len(first) != 1 {
		t.Fatalf("unexpected result: %+v %v", first, err)
	}
	if _, ok := cache.data[CacheKey(u.ID, 0)]; !ok {
		t.Fatalf("expected cached board")
	}

	if _, err := svc.UpdateColumns(context.Background(), u.ID, []column.Spec{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(cache.deletes) != 1 || cache.deletes[0] != CacheKey(u.ID, 0) {
		t.Fatalf("expected invalidation, got %v", cache.deletes)
	}

	second, err := svc.GetColumns(context.Background(), u.ID)
	if err != nil || len(second) != 0 {
		t.Fatalf("expected fresh empty board, got %+v %v", second, err)
	}
}

func TestGetColumns_ReconcileDuringFill(t *testing.T) {
	store := memory.NewStore()
	cache := newFakeCache()
	svc := NewService(store, cache, nil)
	u := newUser(t, store)
	seedColumns(t, store, u.ID, "A", "B", "C")

	// The reconcile commits after the read hit the store but before the
	// cache is filled.
	cache.onSet = func(string) {
		if _, err := svc.UpdateColumns(context.Background(), u.ID, []column.Spec{}); err != nil {
			t.Errorf("update: %v", err)
		}
	}
	stale, err := svc.GetColumns(context.Background(), u.ID)
	if err != nil || len(stale) != 3 {
		t.Fatalf("expected in-flight read to see 3 columns, got %+v %v", stale, err)
	}

	got, err := svc.GetColumns(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected reconciled empty board, got %+v", got)
	}
}

func TestGetColumns_UnknownUser(t *testing.T) {
	_, err := NewService(memory.NewStore(), nil, nil).GetColumns(context.Background(), 7)
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}
}

func TestCreateDefaults(t *testing.T) {
	store := memory.NewStore()
	u := newUser(t, store)
	if err := CreateDefaults(context.Background(), store.Columns(), u.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, _ := store.Columns().ListByUser(context.Background(), u.ID)
	if len(got) != 4 || got[0].Name != "To Apply" || got[3].Name != "Interview" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}
