package service_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

func setupStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, "sqlite3"); err != nil {
		t.Fatalf("could not migrate: %v", err)
	}
	return repository.NewStore(db, "sqlite3")
}

func mustTables(t *testing.T, s *repository.Store, numbers ...string) []uint64 {
	t.Helper()
	svc := service.NewTables(s, nil)
	ids := make([]uint64, len(numbers))
	for i, n := range numbers {
		tbl, err := svc.Create(context.Background(), n, 4)
		if err != nil {
			t.Fatalf("create table %s: %v", n, err)
		}
		ids[i] = tbl.ID
	}
	return ids
}

func mustUser(t *testing.T, s *repository.Store, username string) uint64 {
	t.Helper()
	u, err := service.NewAccounts(s, 4).Register(context.Background(), service.Registration{
		Username: username,
		Email:    username + "@example.com",
		Phone:    "555-0100",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u.ID
}

func request(tables ...uint64) service.BookingRequest {
	return service.BookingRequest{
		Name:     "Ada",
		Contact:  "ada@example.com",
		Date:     "2025-06-01",
		Time:     "19:00",
		TableIDs: tables,
	}
}

// recorder collects notifications.
type recorder struct {
	mu      sync.Mutex
	changes []service.Change
}

func (r *recorder) ReservationChanged(_ context.Context, c service.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Kind
	}
	return out
}

func TestCreateDeduplicatesTables(t *testing.T) {
	s := setupStore(t)
	ids := mustTables(t, s, "T3", "T5")
	ctx := context.Background()

	id, err := service.NewBooking(s, nil, false).Create(ctx, request(ids[0], ids[0], ids[1], 0))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	r, err := service.NewQueries(s).Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := r.TableIDs(); !reflect.DeepEqual(got, ids) {
		t.Fatalf("tables = %v, want %v", got, ids)
	}
	if r.Status != model.StatusPending {
		t.Fatalf("status = %s, want Pending", r.Status)
	}
	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM reservation_tables WHERE reservation_id = ?`, id).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("associations = %d, want 2", n)
	}
}

func TestCreateValidation(t *testing.T) {
	s := setupStore(t)
	ids := mustTables(t, s, "T1")
	b := service.NewBooking(s, nil, false)
	unknownUser := uint64(42)

	cases := []struct {
		name string
		req  service.BookingRequest
		want error
		kind error
	}{
		{"blank name", func() service.BookingRequest { r := request(ids...); r.Name = "  "; return r }(), nil, service.ErrValidation},
		{"blank contact", func() service.BookingRequest { r := request(ids...); r.Contact = ""; return r }(), nil, service.ErrValidation},
		{"no tables", request(), service.ErrNoTables, service.ErrValidation},
		{"only zero ids", request(0, 0), service.ErrNoTables, service.ErrValidation},
		{"bad date", func() service.BookingRequest { r := request(ids...); r.Date = "2025-02-30"; return r }(), service.ErrInvalidDate, service.ErrValidation},
		{"bad time", func() service.BookingRequest { r := request(ids...); r.Time = "25:00"; return r }(), service.ErrInvalidTime, service.ErrValidation},
		{"unknown table", request(ids[0], 999), service.ErrUnknownTable, service.ErrNotFound},
		{"unknown user", func() service.BookingRequest { r := request(ids...); r.UserID = &unknownUser; return r }(), service.ErrUnknownUser, service.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.Create(context.Background(), tc.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !errors.Is(err, tc.kind) {
				t.Fatalf("err = %v does not match kind %v", err, tc.kind)
			}
		})
	}

	all, err := service.NewQueries(s).All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("failed requests left %d reservations behind", len(all))
	}
}

func TestCreateIsAtomic(t *testing.T) {
	s := setupStore(t)
	ids := mustTables(t, s, "T1", "T2", "T3")
	ctx := context.Background()

	trigger := fmt.Sprintf(`CREATE TRIGGER reject_second BEFORE INSERT ON reservation_tables
		WHEN NEW.table_id = %d BEGIN SELECT RAISE(ABORT, 'association rejected'); END`, ids[1])
	if _, err := s.DB().Exec(trigger); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	rec := &recorder{}
	_, err := service.NewBooking(s, rec, false).Create(ctx, request(ids...))
	if err == nil {
		t.Fatal("expected the second association to fail")
	}
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		t.Fatalf("store failure surfaced as client error: %v", err)
	}

	var reservations, associations int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM reservations`).Scan(&reservations); err != nil {
		t.Fatal(err)
	}
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM reservation_tables`).Scan(&associations); err != nil {
		t.Fatal(err)
	}
	if reservations != 0 || associations != 0 {
		t.Fatalf("partial write visible: %d reservations, %d associations", reservations, associations)
	}
	if len(rec.kinds()) != 0 {
		t.Fatalf("notified for a rolled back write: %v", rec.kinds())
	}
}

func TestAvailabilityFollowsStatus(t *testing.T) {
	s := setupStore(t)
	ids := mustTables(t, s, "T1", "T2", "T3", "T4", "T5", "T6", "T7")
	t7 := ids[6]
	ctx := context.Background()
	q := service.NewQueries(s)
	l := service.NewLifecycle(s, nil)

	id, err := service.NewBooking(s, nil, false).Create(ctx, request(t7))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Review(ctx, id, model.StatusAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	booked := func(date, clock string) map[uint64]bool {
		t.Helper()
		list, err := q.TableStatus(ctx, date, clock)
		if err != nil {
			t.Fatalf("table status: %v", err)
		}
		if len(list) != len(ids) {
			t.Fatalf("got %d tables, want %d", len(list), len(ids))
		}
		out := map[uint64]bool{}
		for i, ts := range list {
			if ts.ID != ids[i] {
				t.Fatalf("tables not ordered by id: %v", list)
			}
			out[ts.ID] = ts.IsBooked
		}
		return out
	}

	got := booked("2025-06-01", "19:00")
	for _, tid := range ids {
		if got[tid] != (tid == t7) {
			t.Fatalf("table %d booked=%v", tid, got[tid])
		}
	}
	if booked("2025-06-01", "19:30")[t7] {
		t.Fatal("a different time must not be booked")
	}
	if booked("2025-06-02", "19:00")[t7] {
		t.Fatal("a different date must not be booked")
	}

	if _, err := l.Review(ctx, id, model.StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if booked("2025-06-01", "19:00")[t7] {
		t.Fatal("rejected reservation still holds its table")
	}
}

func TestTableStatusValidatesSlot(t *testing.T) {
	s := setupStore(t)
	q := service.NewQueries(s)
	if _, err := q.TableStatus(context.Background(), "06/01/2025", "19:00"); !errors.Is(err, service.ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
	if _, err := q.TableStatus(context.Background(), "2025-06-01", "7pm"); !errors.Is(err, service.ErrInvalidTime) {
		t.Fatalf("err = %v, want ErrInvalidTime", err)
	}
}

func TestAllIsIdempotentAndOrdered(t *testing.T) {
	s := setupStore(t)
	ids := mustTables(t, s, "T1", "T2")
	ctx := context.Background()
	b := service.NewBooking(s, nil, false)

	slots := [][2]string{
		{"2025-06-01", "18:00"},
		{"2025-06-02", "12:00"},
		{"2025-06-01", "20:00"},
		{"2025-06-02", "12:00"},
	}
	for _, sl := range slots {
		r := request(ids...)
		r.Date, r.Time = sl[0], sl[1]
		if _, err := b.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	q := service.NewQueries(s)
	first, err := q.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := q.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("All returned different results without intervening writes")
	}

	var order []string
	for _, r := range first {
		order = append(order, fmt.Sprintf("%s %s #%d", r.Date, r.Time, r.ID))
	}
	want := []string{"2025-06-02 12:00 #2", "2025-06-02 12:00 #4", "2025-06-01 20:00 #3", "2025-06-01 18:00 #1"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestForUser(t *testing.T) {
	s := setupStore(t)
	ids := mustTables(t, s, "T1")
	uid := mustUser(t, s, "ada")
	other := mustUser(t, s, "bob")
	ctx := context.Background()
	b := service.NewBooking(s, nil, false)

	for _, date := range []string{"2025-06-01", "2025-06-03", "2025-06-03"} {
		r := request(ids...)
		r.Date, r.UserID = date, &uid
		if _, err := b.Create(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := b.Create(ctx, request(ids...)); err != nil {
		t.Fatal(err)
	}

	q := service.NewQueries(s)
	list, err := q.ForUser(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	var got []uint64
	for _, r := range list {
		got = append(got, r.ID)
		if r.UserID == nil || *r.UserID != uid {
			t.Fatalf("reservation %d is not owned by %d", r.ID, uid)
		}
	}
	if want := []uint64{2, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}

	empty, err := q.ForUser(ctx, other)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("ForUser(other) = %v, %v; want empty list", empty, err)
	}
	if _, err := q.ForUser(ctx, 999); !errors.Is(err, service.ErrUnknownUser) {
		t.Fatalf("err = %v, want ErrUnknownUser", err)
	}
}

func TestLifecycle(t *testing.T) {
	s := setupStore(t)
	ids := mustTables(t, s, "T1")
	ctx := context.Background()
	rec := &recorder{}
	b := service.NewBooking(s, rec, false)
	l := service.NewLifecycle(s, rec)

	create := func() uint64 {
		t.Helper()
		id, err := b.Create(ctx, request(ids...))
		if err != nil {
			t.Fatal(err)
		}
		return id
	}

	// cancel from Pending
	pending := create()
	if r, err := l.Cancel(ctx, pending); err != nil || r.Status != model.StatusCancelled {
		t.Fatalf("cancel pending: %v, %v", r, err)
	}

	// cancel from Accepted
	accepted := create()
	if _, err := l.Review(ctx, accepted, model.StatusAccepted); err != nil {
		t.Fatal(err)
	}
	if r, err := l.Cancel(ctx, accepted); err != nil || r.Status != model.StatusCancelled {
		t.Fatalf("cancel accepted: %v, %v", r, err)
	}

	// Rejected is terminal
	rejected := create()
	if _, err := l.Review(ctx, rejected, model.StatusRejected); err != nil {
		t.Fatal(err)
	}
	_, err := l.Review(ctx, rejected, model.StatusAccepted)
	if !errors.Is(err, service.ErrInvalidTransition) || !errors.Is(err, service.ErrBadTransition) {
		t.Fatalf("re-accept rejected: err = %v, want invalid transition", err)
	}
	if _, err := l.Cancel(ctx, rejected); !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("cancel rejected: err = %v, want invalid transition", err)
	}
	if _, err := l.Cancel(ctx, pending); !errors.Is(err, service.ErrInvalidTransition) {
		t.Fatalf("cancel twice: err = %v, want invalid transition", err)
	}

	// staff review only accepts Accepted or Rejected
	fresh := create()
	for _, target := range []model.Status{model.StatusCancelled, model.StatusPending} {
		_, err := l.Review(ctx, fresh, target)
		if !errors.Is(err, service.ErrInvalidStatus) || !errors.Is(err, service.ErrValidation) {
			t.Fatalf("review to %s: err = %v, want ErrInvalidStatus", target, err)
		}
	}

	// unknown ids
	if _, err := l.Review(ctx, 999, model.StatusAccepted); !errors.Is(err, service.ErrUnknownReservation) {
		t.Fatalf("review unknown: %v", err)
	}
	if _, err := l.Cancel(ctx, 999); !errors.Is(err, service.ErrUnknownReservation) {
		t.Fatalf("cancel unknown: %v", err)
	}
	if err := l.Delete(ctx, 999); !errors.Is(err, service.ErrUnknownReservation) {
		t.Fatalf("delete unknown: %v", err)
	}

	// delete works regardless of status
	if err := l.Delete(ctx, rejected); err != nil {
		t.Fatalf("delete rejected: %v", err)
	}
	if _, err := service.NewQueries(s).Get(ctx, rejected); !errors.Is(err, service.ErrUnknownReservation) {
		t.Fatalf("deleted reservation still readable: %v", err)
	}

	want := []string{
		service.ChangeCreated, service.ChangeStatusChanged,
		service.ChangeCreated, service.ChangeStatusChanged, service.ChangeStatusChanged,
		service.ChangeCreated, service.ChangeStatusChanged,
		service.ChangeCreated,
		service.ChangeDeleted,
	}
	if got := rec.kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
}

func TestEnforceAvailability(t *testing.T) {
	s := setupStore(t)
	ids := mustTables(t, s, "T1", "T2", "T3")
	ctx := context.Background()

	advisory := service.NewBooking(s, nil, false)
	strict := service.NewBooking(s, nil, true)

	first, err := strict.Create(ctx, request(ids[0], ids[1]))
	if err != nil {
		t.Fatal(err)
	}

	_, err = strict.Create(ctx, request(ids[1], ids[2]))
	if !errors.Is(err, service.ErrTablesTaken) || !errors.Is(err, service.ErrConflict) {
		t.Fatalf("err = %v, want ErrTablesTaken", err)
	}

	// the default mode keeps the advisory behaviour
	if _, err := advisory.Create(ctx, request(ids[1])); err != nil {
		t.Fatalf("advisory booking rejected: %v", err)
	}

	// freeing by status makes the tables bookable again
	l := service.NewLifecycle(s, nil)
	if _, err := l.Cancel(ctx, first); err != nil {
		t.Fatal(err)
	}
	if _, err := strict.Create(ctx, request(ids[0], ids[2])); err != nil {
		t.Fatalf("booking freed tables: %v", err)
	}
}

func TestTables(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	svc := service.NewTables(s, nil)

	t1, err := svc.Create(ctx, "T1", 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, " T1 ", 2); !errors.Is(err, service.ErrDuplicate) || !errors.Is(err, service.ErrConflict) {
		t.Fatalf("duplicate: err = %v, want ErrDuplicate", err)
	}
	if _, err := svc.Create(ctx, "T2", 0); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("zero capacity: err = %v", err)
	}
	if _, err := svc.Create(ctx, "T-TOO-LONG-1", 2); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("long number: err = %v", err)
	}

	if _, err := service.NewBooking(s, nil, false).Create(ctx, request(t1.ID)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, t1.ID); !errors.Is(err, service.ErrTableInUse) {
		t.Fatalf("delete referenced: err = %v, want ErrTableInUse", err)
	}
	if err := svc.Delete(ctx, 999); !errors.Is(err, service.ErrUnknownTable) {
		t.Fatalf("delete unknown: err = %v", err)
	}

	t2, err := svc.Create(ctx, "T2", 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, t2.ID); err != nil {
		t.Fatalf("delete free table: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != t1.ID {
		t.Fatalf("list = %v", list)
	}
}

func TestAccounts(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	a := service.NewAccounts(s, 4)

	reg := service.Registration{Username: "ada", Email: "Ada@Example.com", Phone: "555", Password: "pw"}
	u, err := a.Register(ctx, reg)
	if err != nil {
		t.Fatal(err)
	}
	if u.ID == 0 || u.Email != "ada@example.com" {
		t.Fatalf("user = %+v", u)
	}

	sameName := reg
	sameName.Email = "other@example.com"
	if _, err := a.Register(ctx, sameName); !errors.Is(err, service.ErrUsernameTaken) || !errors.Is(err, service.ErrConflict) {
		t.Fatalf("duplicate username: err = %v", err)
	}
	sameEmail := reg
	sameEmail.Username = "ada2"
	sameEmail.Email = "ADA@example.com"
	if _, err := a.Register(ctx, sameEmail); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("duplicate email: err = %v", err)
	}
	if _, err := a.Register(ctx, service.Registration{Username: "x", Email: "not-an-email", Phone: "1", Password: "p"}); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("bad email: err = %v", err)
	}

	if got, err := a.Login(ctx, "ada", "pw"); err != nil || got.ID != u.ID {
		t.Fatalf("login: %v, %v", got, err)
	}
	if _, err := a.Login(ctx, "ada", "wrong"); !errors.Is(err, service.ErrBadCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := a.Login(ctx, "nobody", "pw"); !errors.Is(err, service.ErrBadCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}
}
