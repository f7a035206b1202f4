package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/wikicore-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRevisionRepositoryTest(t *testing.T) (*GormRevisionRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:revision_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Revision{}); err != nil {
		t.Fatalf("migrate revisions failed: %v", err)
	}
	return NewRevisionRepository(db), db
}

func TestDraftLifecycle(t *testing.T) {
	repo, _ := setupRevisionRepositoryTest(t)

	draft, err := repo.GetDraft(1, 10)
	if err != nil {
		t.Fatalf("get draft failed: %v", err)
	}
	if draft != nil {
		t.Fatalf("want no draft got %+v", draft)
	}

	draft = &models.Revision{PostID: 1, Sequence: 0, Title: "v1", Content: "first", CreatedBy: 10}
	if err := repo.SaveDraft(draft); err != nil {
		t.Fatalf("save draft failed: %v", err)
	}
	draft.Content = "second"
	if err := repo.SaveDraft(draft); err != nil {
		t.Fatalf("overwrite draft failed: %v", err)
	}

	loaded, err := repo.GetDraft(1, 10)
	if err != nil {
		t.Fatalf("get draft failed: %v", err)
	}
	if loaded == nil || loaded.Content != "second" || loaded.ID != draft.ID {
		t.Fatalf("draft not overwritten in place: %+v", loaded)
	}

	if err := repo.DeleteDraft(1, 10); err != nil {
		t.Fatalf("delete draft failed: %v", err)
	}
	loaded, _ = repo.GetDraft(1, 10)
	if loaded != nil {
		t.Fatalf("draft still present after delete")
	}
}

func TestListDraftsPerEditor(t *testing.T) {
	repo, _ := setupRevisionRepositoryTest(t)
	for _, editor := range []uint{10, 20, 30} {
		if err := repo.SaveDraft(&models.Revision{PostID: 1, Sequence: 0, CreatedBy: editor}); err != nil {
			t.Fatalf("save draft failed: %v", err)
		}
	}
	// 已提交修订不混入草稿列表
	if err := repo.SaveDraft(&models.Revision{PostID: 1, Sequence: 3, CreatedBy: 10}); err != nil {
		t.Fatalf("save committed failed: %v", err)
	}

	drafts, err := repo.ListDrafts(1)
	if err != nil {
		t.Fatalf("list drafts failed: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("want 3 drafts got %d", len(drafts))
	}
}

func TestPromoteDraftGuard(t *testing.T) {
	repo, db := setupRevisionRepositoryTest(t)
	draft := &models.Revision{PostID: 1, Sequence: 0, CreatedBy: 10}
	if err := repo.SaveDraft(draft); err != nil {
		t.Fatalf("save draft failed: %v", err)
	}

	affected, err := repo.PromoteDraft(db, draft.ID, 1)
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("promote affected want 1 got %d", affected)
	}

	// 已改号的行再次改号必须落空
	affected, err = repo.PromoteDraft(db, draft.ID, 2)
	if err != nil {
		t.Fatalf("second promote failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("promote guard want 0 got %d", affected)
	}
}

func TestMaxCommittedSequence(t *testing.T) {
	repo, db := setupRevisionRepositoryTest(t)

	max, err := repo.MaxCommittedSequence(1)
	if err != nil {
		t.Fatalf("max sequence failed: %v", err)
	}
	if max != 0 {
		t.Fatalf("empty post max want 0 got %d", max)
	}

	for _, seq := range []uint{1, 2, 5} {
		if err := db.Create(&models.Revision{PostID: 1, Sequence: seq, CreatedBy: 10}).Error; err != nil {
			t.Fatalf("create revision failed: %v", err)
		}
	}
	err = repo.Transaction(func(tx *gorm.DB) error {
		var err error
		max, err = repo.WithTx(tx).MaxCommittedSequence(1)
		return err
	})
	if err != nil {
		t.Fatalf("max sequence failed: %v", err)
	}
	if max != 5 {
		t.Fatalf("max sequence want 5 got %d", max)
	}
}

func TestListCommittedNewestFirst(t *testing.T) {
	repo, db := setupRevisionRepositoryTest(t)
	for _, seq := range []uint{1, 2, 3} {
		if err := db.Create(&models.Revision{PostID: 1, Sequence: seq, CreatedBy: 10}).Error; err != nil {
			t.Fatalf("create revision failed: %v", err)
		}
	}
	// 草稿不计入历史
	if err := db.Create(&models.Revision{PostID: 1, Sequence: 0, CreatedBy: 10}).Error; err != nil {
		t.Fatalf("create draft failed: %v", err)
	}

	revs, total, err := repo.ListCommitted(RevisionListFilter{PostID: 1, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list committed failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	if len(revs) != 2 || revs[0].Sequence != 3 || revs[1].Sequence != 2 {
		t.Fatalf("want sequences [3 2] got %+v", revs)
	}
}
