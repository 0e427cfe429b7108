package ledger

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"scoutbot/internal/storage"
)

func newTestLedger(t *testing.T) (*SQLLedger, *sql.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.New(dbPath)
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}
	return New(db), db
}

func TestSQLLedger_GrantWelcome(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	balance, err := l.GrantWelcome(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("GrantWelcome() error = %v", err)
	}
	if balance != 10 {
		t.Errorf("GrantWelcome() balance = %d, want 10", balance)
	}

	// A second grant must not stack.
	balance, err = l.GrantWelcome(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("GrantWelcome() repeat error = %v", err)
	}
	if balance != 10 {
		t.Errorf("GrantWelcome() repeat balance = %d, want 10", balance)
	}
}

func TestSQLLedger_Spend(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.GrantWelcome(ctx, "user-1", 10); err != nil {
		t.Fatalf("GrantWelcome() error = %v", err)
	}

	tests := []struct {
		name        string
		amount      int64
		sourceID    string
		wantBalance int64
		wantErr     error
	}{
		{name: "first spend", amount: 3, sourceID: "req-1", wantBalance: 7},
		{name: "second spend", amount: 2, sourceID: "req-2", wantBalance: 5},
		{name: "replay of first spend", amount: 3, sourceID: "req-1", wantBalance: 5},
		{name: "overdraw", amount: 100, sourceID: "req-3", wantErr: ErrInsufficientCredits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, err := l.Spend(ctx, "user-1", tt.amount, "report", "report", tt.sourceID)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Spend() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Spend() error = %v", err)
			}
			if balance != tt.wantBalance {
				t.Errorf("Spend() balance = %d, want %d", balance, tt.wantBalance)
			}
		})
	}
}

func TestSQLLedger_Spend_InvalidAmount(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.Spend(ctx, "user-1", 0, "report", "report", "req-1"); err == nil {
		t.Error("Spend() with zero amount should fail")
	}
	if _, err := l.Spend(ctx, "user-1", -5, "report", "report", "req-2"); err == nil {
		t.Error("Spend() with negative amount should fail")
	}
}

func TestSQLLedger_Spend_UnknownUser(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.Spend(context.Background(), "nobody", 1, "report", "report", "req-1")
	if err != ErrInsufficientCredits {
		t.Errorf("Spend() for unfunded user error = %v, want ErrInsufficientCredits", err)
	}
}

func TestSQLLedger_Refund(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.GrantWelcome(ctx, "user-1", 10); err != nil {
		t.Fatalf("GrantWelcome() error = %v", err)
	}
	if _, err := l.Spend(ctx, "user-1", 4, "report", "report", "req-1"); err != nil {
		t.Fatalf("Spend() error = %v", err)
	}

	balance, err := l.Refund(ctx, "user-1", 4, "generation failed", "report", "req-1:refund")
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	if balance != 10 {
		t.Errorf("Refund() balance = %d, want 10", balance)
	}

	// Replaying the refund must not credit twice.
	balance, err = l.Refund(ctx, "user-1", 4, "generation failed", "report", "req-1:refund")
	if err != nil {
		t.Fatalf("Refund() replay error = %v", err)
	}
	if balance != 10 {
		t.Errorf("Refund() replay balance = %d, want 10", balance)
	}
}

func TestSQLLedger_Spend_ReplayAfterExhaustion(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.GrantWelcome(ctx, "user-1", 1); err != nil {
		t.Fatalf("GrantWelcome() error = %v", err)
	}
	if _, err := l.Spend(ctx, "user-1", 1, "report", "report", "req-1"); err != nil {
		t.Fatalf("Spend() error = %v", err)
	}

	// Balance is now zero, but replaying the applied spend is still a
	// success that reports the standing balance.
	balance, err := l.Spend(ctx, "user-1", 1, "report", "report", "req-1")
	if err != nil {
		t.Fatalf("Spend() replay error = %v", err)
	}
	if balance != 0 {
		t.Errorf("Spend() replay balance = %d, want 0", balance)
	}
}

func TestSQLLedger_ConcurrentSpends(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.GrantWelcome(ctx, "user-1", 5); err != nil {
		t.Fatalf("GrantWelcome() error = %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.Spend(ctx, "user-1", 1, "report", "report", sourceFor(i))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch err {
		case nil:
			ok++
		case ErrInsufficientCredits:
			insufficient++
		default:
			t.Fatalf("Spend() unexpected error = %v", err)
		}
	}
	if ok != 5 || insufficient != 5 {
		t.Errorf("concurrent spends: ok = %d, insufficient = %d, want 5 and 5", ok, insufficient)
	}

	balance, err := l.Balance(ctx, "user-1")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance != 0 {
		t.Errorf("Balance() after concurrent spends = %d, want 0", balance)
	}
}

func sourceFor(i int) string {
	return "req-" + string(rune('a'+i))
}

func TestSQLLedger_History(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.GrantWelcome(ctx, "user-1", 10); err != nil {
		t.Fatalf("GrantWelcome() error = %v", err)
	}
	if _, err := l.Spend(ctx, "user-1", 2, "report", "report", "req-1"); err != nil {
		t.Fatalf("Spend() error = %v", err)
	}

	entries, err := l.History(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("History() count = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Delta != -2 || entries[0].SourceID != "req-1" {
		t.Errorf("History()[0] = %+v, want the spend", entries[0])
	}
	if entries[1].Delta != 10 || entries[1].SourceType != "welcome_bonus" {
		t.Errorf("History()[1] = %+v, want the welcome grant", entries[1])
	}
}
