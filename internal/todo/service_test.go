package todo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/todoapp/internal/model"
	"github.com/sandeepkv93/todoapp/internal/storage"
)

type memRepo struct {
	loaded  *model.Container
	saves   int
	saveErr error
	last    []*model.Item
}

func (r *memRepo) Load(context.Context) (*model.Container, error) {
	if r.loaded == nil {
		return model.NewContainer(), nil
	}
	return r.loaded, nil
}

func (r *memRepo) Save(_ context.Context, c *model.Container) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.last = c.Items()
	return nil
}

func (r *memRepo) Close() error { return nil }

var fixedNow = time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, repo storage.Repository) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), repo,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func remainingTitles(svc *Service) []string {
	out := make([]string, 0)
	for _, it := range svc.Remaining() {
		out = append(out, it.Title)
	}
	return out
}

func TestCreateAppendsAndSaves(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(t, repo)

	item, err := svc.Create(context.Background(), Draft{Title: "A", Description: "desc", Due: "2024/01/01 09:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Title != "A" || item.Finished || !item.AddedDate.Equal(fixedNow) {
		t.Fatalf("unexpected item: %+v", item)
	}
	if repo.saves != 1 || len(repo.last) != 1 {
		t.Fatalf("expected one save with one item, got saves=%d items=%d", repo.saves, len(repo.last))
	}
}

func TestCreateRejectsBadDueDateWithoutChanges(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), Draft{Title: "A", Due: "next tuesday"})
	if !errors.Is(err, model.ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
	if len(svc.All()) != 0 || repo.saves != 0 {
		t.Fatalf("expected no item and no save, got items=%d saves=%d", len(svc.All()), repo.saves)
	}
}

func TestCreateFinishedDraft(t *testing.T) {
	svc := newTestService(t, &memRepo{})
	item, err := svc.Create(context.Background(), Draft{Title: "A", Due: "2024/01/01 09:00", Finished: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !item.Finished || item.FinishedDate == nil || !item.FinishedDate.Equal(fixedNow) {
		t.Fatalf("expected finished item, got %+v", item)
	}
	if len(svc.Remaining()) != 0 {
		t.Fatal("finished item should not be remaining")
	}
}

func TestUpdateAppliesEditsAndSorts(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(t, repo)
	a, _ := svc.Create(context.Background(), Draft{Title: "A", Due: "2024/01/01 09:00"})
	if _, err := svc.Create(context.Background(), Draft{Title: "B", Due: "2024/01/01 10:00"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), a.ID, Draft{Title: "A2", Description: "moved", Due: "2024/01/01 11:00"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated != a || a.Title != "A2" || a.Description != "moved" {
		t.Fatalf("unexpected updated item: %+v", a)
	}
	got := remainingTitles(svc)
	if len(got) != 2 || got[0] != "B" || got[1] != "A2" {
		t.Fatalf("expected sorted [B A2], got %v", got)
	}
	if repo.saves != 3 {
		t.Fatalf("expected 3 saves, got %d", repo.saves)
	}
}

func TestUpdateBadDueDateLeavesItemUntouched(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(t, repo)
	a, _ := svc.Create(context.Background(), Draft{Title: "A", Description: "keep", Due: "2024/01/01 09:00"})

	_, err := svc.Update(context.Background(), a.ID, Draft{Title: "changed", Description: "changed", Due: "2024/01/01 9am", Finished: true})
	if !errors.Is(err, model.ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
	if a.Title != "A" || a.Description != "keep" || a.Finished {
		t.Fatalf("expected item untouched, got %+v", a)
	}
	if repo.saves != 1 {
		t.Fatalf("expected no extra save, got %d", repo.saves)
	}
}

func TestUpdateFinishesButNeverReopens(t *testing.T) {
	svc := newTestService(t, &memRepo{})
	a, _ := svc.Create(context.Background(), Draft{Title: "A", Due: "2024/01/01 09:00"})

	if _, err := svc.Update(context.Background(), a.ID, Draft{Title: "A", Due: "2024/01/01 09:00", Finished: true}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !a.Finished {
		t.Fatal("expected finished")
	}
	if _, err := svc.Update(context.Background(), a.ID, Draft{Title: "A", Due: "2024/01/01 09:00", Finished: false}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !a.Finished || a.FinishedDate == nil {
		t.Fatalf("expected item to stay finished, got %+v", a)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(t, &memRepo{})
	if _, err := svc.Update(context.Background(), "nope", Draft{Due: "2024/01/01 09:00"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteResolvesViewRowByIdentity(t *testing.T) {
	svc := newTestService(t, &memRepo{})
	done, _ := svc.Create(context.Background(), Draft{Title: "done", Due: "2024/01/01 08:00"})
	if _, err := svc.Create(context.Background(), Draft{Title: "open1", Due: "2024/01/01 09:00"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), Draft{Title: "open2", Due: "2024/01/01 10:00"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Finish(context.Background(), done.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	row, err := svc.ItemAtRow(1)
	if err != nil {
		t.Fatalf("row: %v", err)
	}
	if row.Title != "open1" {
		t.Fatalf("row 1 = %q, want open1", row.Title)
	}
	if err := svc.Delete(context.Background(), row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	all := svc.All()
	if len(all) != 2 || all[0].Title != "done" || all[1].Title != "open2" {
		t.Fatalf("unexpected stored items after delete: %v", all)
	}
	if _, err := svc.ItemAtRow(2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for row past end, got %v", err)
	}
}

func TestCheckDueReturnsOpenItemsInMinute(t *testing.T) {
	svc := newTestService(t, &memRepo{})
	a, _ := svc.Create(context.Background(), Draft{Title: "A", Description: "ring", Due: "2024/01/01 09:00"})
	b, _ := svc.Create(context.Background(), Draft{Title: "B", Due: "2024/01/01 09:00"})
	if _, err := svc.Create(context.Background(), Draft{Title: "C", Due: "2024/01/01 09:01"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Finish(context.Background(), b.ID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	alerts := svc.CheckDue(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	if len(alerts) != 1 || alerts[0].ItemID != a.ID {
		t.Fatalf("unexpected alerts: %+v", alerts)
	}
	if len(svc.CheckDue(time.Date(2024, 1, 1, 8, 59, 0, 0, time.UTC))) != 0 {
		t.Fatal("expected no alerts a minute early")
	}
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(t, repo)
	a, err := svc.Create(context.Background(), Draft{Title: "A", Description: "keep", Due: "2024/01/01 09:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := svc.Create(context.Background(), Draft{Title: "B", Due: "2024/01/01 08:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.saveErr = errors.New("disk full")

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), Draft{Title: "C", Due: "2024/01/01 10:00"}); !errors.Is(err, repo.saveErr) {
			t.Fatalf("expected wrapped save error, got %v", err)
		}
	}
	if got := len(svc.All()); got != 2 {
		t.Fatalf("expected failed creates to be rolled back, got %d items", got)
	}

	if _, err := svc.Update(context.Background(), a.ID, Draft{Title: "A2", Description: "lost", Due: "2024/01/01 07:00", Finished: true}); err == nil {
		t.Fatal("expected update to fail")
	}
	if a.Title != "A" || a.Description != "keep" || a.Finished || a.FinishedDate != nil || a.DueDate.Hour() != 9 {
		t.Fatalf("expected item fields restored, got %+v", a)
	}

	if _, err := svc.Finish(context.Background(), b.ID); err == nil {
		t.Fatal("expected finish to fail")
	}
	if b.Finished || b.FinishedDate != nil {
		t.Fatalf("expected finish rolled back, got %+v", b)
	}

	if err := svc.Sort(context.Background()); err == nil {
		t.Fatal("expected sort to fail")
	}
	if err := svc.Delete(context.Background(), a.ID); err == nil {
		t.Fatal("expected delete to fail")
	}
	all := svc.All()
	if len(all) != 2 || all[0] != a || all[1] != b {
		t.Fatalf("expected stored order [A B] kept, got %v", all)
	}
}

func TestServicePersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.dat")
	repo, err := storage.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	svc := newTestService(t, repo)
	if _, err := svc.Create(context.Background(), Draft{Title: "A", Due: "2024/01/01 09:00"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), Draft{Title: "B", Due: "2024/01/01 08:00"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Sort(context.Background()); err != nil {
		t.Fatalf("sort: %v", err)
	}

	reopened := newTestService(t, repo)
	got := remainingTitles(reopened)
	if len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Fatalf("expected [B A] after restart, got %v", got)
	}
}

func TestNewServiceRejectsNilRepo(t *testing.T) {
	if _, err := NewService(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestDraftFromAndNormalize(t *testing.T) {
	item := model.NewItem("A", "d", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Time{})
	d := DraftFrom(item)
	if d.Title != "A" || d.Due != "2024/01/01 09:00" || d.Finished {
		t.Fatalf("unexpected draft: %+v", d)
	}
	n := Draft{Title: "  x ", Description: " y", Due: " 2024/01/01 09:00 "}.Normalize()
	if n.Title != "x" || n.Description != "y" || n.Due != "2024/01/01 09:00" {
		t.Fatalf("unexpected normalized draft: %+v", n)
	}
}
