package regcodes_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/kevyamon/lokolink/internal/app/store/regcodes"
	"github.com/kevyamon/lokolink/internal/domain/models"
	"github.com/kevyamon/lokolink/internal/testutil"
)

func newTestStore(t *testing.T) *regcodes.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := regcodes.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.RegistrationCode{Code: " ABC-123 ", Role: models.RoleDelegue})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Code != "ABC-123" {
		t.Errorf("Code = %q, want trimmed", created.Code)
	}
	if created.IsUsed {
		t.Error("fresh code marked used")
	}

	got, err := store.GetByCode(ctx, "ABC-123")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.Role != models.RoleDelegue {
		t.Errorf("Role = %q", got.Role)
	}

	if _, err := store.GetByCode(ctx, "UNKNOWN"); !errors.Is(err, regcodes.ErrNotFound) {
		t.Errorf("unknown code: err = %v, want ErrNotFound", err)
	}
}

func TestCreate_DuplicateCode(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.RegistrationCode{Code: "ONCE", Role: models.RoleDelegue}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := store.Create(ctx, models.RegistrationCode{Code: "ONCE", Role: models.RoleSuperAdmin})
	if !errors.Is(err, regcodes.ErrDuplicateCode) {
		t.Errorf("err = %v, want ErrDuplicateCode", err)
	}
}

func TestRedeem(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.RegistrationCode{Code: "BURN-ME", Role: models.RoleDelegue}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rc, err := store.Redeem(ctx, "BURN-ME")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if !rc.IsUsed {
		t.Error("redeemed code not marked used")
	}
	if rc.UsedAt == nil {
		t.Error("UsedAt not set")
	}

	// A spent code and an unknown code fail differently.
	if _, err := store.Redeem(ctx, "BURN-ME"); !errors.Is(err, regcodes.ErrAlreadyUsed) {
		t.Errorf("spent code: err = %v, want ErrAlreadyUsed", err)
	}
	if _, err := store.Redeem(ctx, "NEVER-ISSUED"); !errors.Is(err, regcodes.ErrNotFound) {
		t.Errorf("unknown code: err = %v, want ErrNotFound", err)
	}
}

func TestRedeem_ConcurrentSingleWinner(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.RegistrationCode{Code: "RACE", Role: models.RoleDelegue}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const attempts = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Redeem(ctx, "RACE"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d redemptions succeeded, want exactly 1", wins)
	}
}
