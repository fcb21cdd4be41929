package models

import (
	"context"
	"testing"
	"time"
)

func collectNotices(t *testing.T, ch <-chan Collection, want int) map[Collection]int {
	t.Helper()
	got := make(map[Collection]int)
	for i := 0; i < want; i++ {
		select {
		case col := <-ch:
			got[col]++
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d of %d notices: %v", i, want, got)
		}
	}
	return got
}

func TestChangeFeedDeliversCollectionNames(t *testing.T) {
	feed := NewChangeFeed()
	ch, cancel := feed.Subscribe(4)
	defer cancel()

	feed.Notify(CollectionSupplies, CollectionDeliveries)

	got := collectNotices(t, ch, 2)
	if got[CollectionSupplies] != 1 || got[CollectionDeliveries] != 1 {
		t.Fatalf("unexpected notices: %v", got)
	}
}

func TestChangeFeedDropsOldestWhenFull(t *testing.T) {
	feed := NewChangeFeed()
	ch, cancel := feed.Subscribe(1)
	defer cancel()

	feed.Notify(CollectionSupplies)
	feed.Notify(CollectionReleases) // displaces the pending supplies notice

	got := collectNotices(t, ch, 1)
	if got[CollectionReleases] != 1 {
		t.Fatalf("newest notice must land, got %v", got)
	}
	select {
	case col := <-ch:
		t.Fatalf("unexpected extra notice %q", col)
	default:
	}
}

func TestChangeFeedCancelUnsubscribes(t *testing.T) {
	feed := NewChangeFeed()
	_, cancel := feed.Subscribe(1)
	if feed.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", feed.SubscriberCount())
	}
	cancel()
	cancel() // idempotent
	if feed.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", feed.SubscriberCount())
	}
	feed.Notify(CollectionSupplies) // must not panic on the closed channel
}

func TestStoreNotifiesOnWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ch, cancel := store.Feed().Subscribe(8)
	defer cancel()

	supply := mustCreateSupply(t, store, &NewSupply{
		Name: "Bond Paper A4", Unit: "ream", Cluster: ClusterOffice, Quantity: 10,
	})
	got := collectNotices(t, ch, 1)
	if got[CollectionSupplies] != 1 {
		t.Fatalf("supply create should notify supplies, got %v", got)
	}

	if _, err := store.CreateDelivery(ctx, &NewDelivery{
		SupplyCode: supply.Code, Quantity: 1, DeliveredBy: "Santos",
	}); err != nil {
		t.Fatalf("CreateDelivery: %v", err)
	}
	got = collectNotices(t, ch, 2)
	if got[CollectionDeliveries] != 1 || got[CollectionSupplies] != 1 {
		t.Fatalf("delivery create should notify both collections, got %v", got)
	}
}
