package pricing

import (
	"testing"

	"github.com/google/uuid"
)

func TestDetectDuplicateLines(t *testing.T) {
	t.Parallel()

	itemA := uuid.New()
	itemB := uuid.New()
	groupG := uuid.New()
	groupG2 := uuid.New()

	lines := []LineKey{
		{ItemID: itemA, ItemGroupID: groupG},
		{ItemID: itemB, ItemGroupID: groupG2},
		{ItemID: itemA, ItemGroupID: groupG},
	}

	res := DetectDuplicateLines(lines)
	if !res.Duplicate {
		t.Fatal("expected duplicate")
	}
	if res.CurrentIndex != 3 || res.PrevIndex != 1 {
		t.Fatalf("unexpected indices current=%d prev=%d", res.CurrentIndex, res.PrevIndex)
	}
	if res.ItemID != itemA || res.ItemGroupID != groupG {
		t.Fatal("unexpected duplicate key")
	}
}

func TestDetectDuplicateLinesSameItemDifferentGroup(t *testing.T) {
	t.Parallel()

	item := uuid.New()
	lines := []LineKey{
		{ItemID: item, ItemGroupID: uuid.New()},
		{ItemID: item, ItemGroupID: uuid.New()},
	}
	if res := DetectDuplicateLines(lines); res.Duplicate {
		t.Fatalf("same item in different groups is not a duplicate: %+v", res)
	}
}

func TestDetectDuplicateLinesShortCircuits(t *testing.T) {
	t.Parallel()

	key := LineKey{ItemID: uuid.New(), ItemGroupID: uuid.New()}
	other := LineKey{ItemID: uuid.New(), ItemGroupID: uuid.New()}
	lines := []LineKey{key, key, other, other}

	res := DetectDuplicateLines(lines)
	if res.CurrentIndex != 2 || res.PrevIndex != 1 {
		t.Fatalf("expected first repeat to win, got %+v", res)
	}
}

func TestDetectDuplicateLinesEmpty(t *testing.T) {
	t.Parallel()

	if res := DetectDuplicateLines(nil); res.Duplicate {
		t.Fatal("empty submission has no duplicates")
	}
}

func TestStaleKeys(t *testing.T) {
	t.Parallel()

	a := LineKey{ItemID: uuid.New(), ItemGroupID: uuid.New()}
	b := LineKey{ItemID: uuid.New(), ItemGroupID: uuid.New()}
	c := LineKey{ItemID: uuid.New(), ItemGroupID: uuid.New()}

	stale := StaleKeys([]LineKey{a, b, c}, []LineKey{b})
	if len(stale) != 2 {
		t.Fatalf("expected 2 stale keys, got %d", len(stale))
	}

	if stale := StaleKeys([]LineKey{a, b}, nil); len(stale) != 2 {
		t.Fatalf("empty submission leaves every persisted key stale, got %d", len(stale))
	}

	if stale := StaleKeys(nil, []LineKey{a}); stale != nil {
		t.Fatalf("no persisted keys means nothing stale, got %v", stale)
	}
}
