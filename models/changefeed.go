package models

import "sync"

// Collection names the datasets consumers can watch.
type Collection string

const (
	CollectionSupplies        Collection = "supplies"
	CollectionDeliveries      Collection = "deliveries"
	CollectionReleases        Collection = "releases"
	CollectionUnits           Collection = "units"
	CollectionClassifications Collection = "classifications"
)

// AllCollections lists every dataset in the order the console loads them.
var AllCollections = []Collection{
	CollectionSupplies,
	CollectionDeliveries,
	CollectionReleases,
	CollectionUnits,
	CollectionClassifications,
}

// ChangeFeed fans out change notifications to live subscribers (the
// websocket feed). Consumers receive the NAME of a changed collection and
// re-read its full snapshot; the feed itself carries no data, so dropping an
// older pending notification for the same flood of changes is safe as long
// as the newest one lands. Notify never blocks a ledger commit.
type ChangeFeed struct {
	mu     sync.Mutex
	nextId int
	subs   map[int]chan Collection
}

func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{subs: make(map[int]chan Collection)}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the consumer goes away or the feed leaks channels.
func (f *ChangeFeed) Subscribe(buffer int) (<-chan Collection, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Collection, buffer)

	f.mu.Lock()
	id := f.nextId
	f.nextId++
	f.subs[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Notify delivers a change notice to every subscriber. When a subscriber's
// buffer is full the oldest pending notice is discarded so the newest one
// always lands; full-snapshot re-reads make that lossless for the consumer.
func (f *ChangeFeed) Notify(collections ...Collection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, col := range collections {
		for _, ch := range f.subs {
			select {
			case ch <- col:
			default:
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- col:
				default:
				}
			}
		}
	}
}

func (f *ChangeFeed) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
