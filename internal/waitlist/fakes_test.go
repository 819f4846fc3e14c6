package waitlist

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*WaitlistEntry
	deletes []uuid.UUID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{entries: make(map[uuid.UUID]*WaitlistEntry)}
}

func sameSlot(e *WaitlistEntry, contentID uuid.UUID, date time.Time, slotTime string) bool {
	return e.ContentID == contentID && e.PreferredDate.Equal(date) && e.PreferredTime == slotTime
}

func (f *fakeRepository) Enqueue(ctx context.Context, entry *WaitlistEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	last := 0
	for _, e := range f.entries {
		if !sameSlot(e, entry.ContentID, entry.PreferredDate, entry.PreferredTime) {
			continue
		}
		if e.UserID == entry.UserID {
			return ErrAlreadyWaitlisted
		}
		last = max(last, e.Position)
	}

	entry.ID = uuid.New()
	entry.Position = last + 1
	entry.CreatedAt = time.Now()
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeRepository) ListBySlot(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string) ([]WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []WaitlistEntry
	for _, e := range f.entries {
		if sameSlot(e, contentID, date, slotTime) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[id]; !ok {
		return false, nil
	}
	f.deletes = append(f.deletes, id)
	delete(f.entries, id)
	return true, nil
}

// barrierRepository holds every ListBySlot caller until `parties` callers have read the queue
type barrierRepository struct {
	*fakeRepository
	arrived sync.WaitGroup
}

func newBarrierRepository(repo *fakeRepository, parties int) *barrierRepository {
	b := &barrierRepository{fakeRepository: repo}
	b.arrived.Add(parties)
	return b
}

func (b *barrierRepository) ListBySlot(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string) ([]WaitlistEntry, error) {
	entries, err := b.fakeRepository.ListBySlot(ctx, contentID, date, slotTime)
	b.arrived.Done()
	b.arrived.Wait()
	return entries, err
}

func (f *fakeRepository) DeleteForUser(ctx context.Context, userID, contentID uuid.UUID, date time.Time, slotTime string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, e := range f.entries {
		if e.UserID == userID && sameSlot(e, contentID, date, slotTime) {
			delete(f.entries, id)
			return true, nil
		}
	}
	return false, nil
}

// fakeNotifier records notices and fails for the users in failFor
type fakeNotifier struct {
	mu      sync.Mutex
	notices []SlotAvailableNotice
	failFor map[uuid.UUID]bool
}

func (f *fakeNotifier) NotifySlotAvailable(ctx context.Context, notice SlotAvailableNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice)
	if f.failFor[notice.UserID] {
		return errors.New("broker unavailable")
	}
	return nil
}
