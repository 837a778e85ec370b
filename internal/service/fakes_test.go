package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
)

// fakeStore хранилище в памяти для тестов сервисов. Мьютекс даёт ту же
// сериализацию конкурентных операций над слотом, что и блокировка строки
// в Postgres-репозитории.
type fakeStore struct {
	mu sync.Mutex

	slotSeq    int64
	bookingSeq int64

	slots    map[int64]*model.Slot
	bookings map[int64]*model.Booking
	records  map[int64]*model.SessionRecord
	users    map[int64]*model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:    make(map[int64]*model.Slot),
		bookings: make(map[int64]*model.Booking),
		records:  make(map[int64]*model.SessionRecord),
		users:    make(map[int64]*model.User),
	}
}

func (f *fakeStore) addUser(id int64, name string, role model.Role) {
	f.users[id] = &model.User{ID: id, Name: name, Role: role}
}

func (f *fakeStore) Create(ctx context.Context, slot *model.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.slots {
		if existing.OwnerID == slot.OwnerID &&
			existing.StartTime.Before(slot.EndTime) &&
			existing.EndTime.After(slot.StartTime) {
			return apperr.Conflict("slot overlaps an existing slot of this instructor")
		}
	}

	f.slotSeq++
	slot.ID = f.slotSeq
	slot.CreatedAt = time.Now()
	copied := *slot
	f.slots[slot.ID] = &copied
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeStore) Delete(ctx context.Context, slotID, ownerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok {
		return apperr.NotFound("slot %d not found", slotID)
	}
	if slot.OwnerID != ownerID {
		return apperr.Authorization("slot %d does not belong to instructor %d", slotID, ownerID)
	}
	if n := f.countLocked(slotID); n > 0 {
		return apperr.State("slot %d has %d live bookings and cannot be deleted", slotID, n)
	}

	delete(f.slots, slotID)
	return nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, ownerID int64) ([]*model.SlotWithCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.SlotWithCount
	for _, slot := range f.slots {
		if slot.OwnerID != ownerID {
			continue
		}
		out = append(out, &model.SlotWithCount{Slot: *slot, BookedCount: f.countLocked(slot.ID)})
	}
	sortSlots(out)
	return out, nil
}

func (f *fakeStore) ListPublic(ctx context.Context, ownerID int64, includeBooked bool, now time.Time) ([]*model.SlotWithCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.SlotWithCount
	for _, slot := range f.slots {
		if slot.OwnerID != ownerID || !slot.StartTime.After(now) {
			continue
		}
		withCount := &model.SlotWithCount{Slot: *slot, BookedCount: f.countLocked(slot.ID)}
		if !includeBooked && withCount.IsFull() {
			continue
		}
		out = append(out, withCount)
	}
	sortSlots(out)
	return out, nil
}

func (f *fakeStore) Book(ctx context.Context, slotID, studentID, subjectID int64, note string) (*model.Booking, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok {
		return nil, false, apperr.NotFound("slot %d not found", slotID)
	}

	for _, b := range f.bookings {
		if b.SlotID == slotID && b.StudentID == studentID {
			copied := *b
			return &copied, false, nil
		}
	}

	if f.countLocked(slotID) >= slot.Capacity {
		return nil, false, apperr.Conflict("slot %d is full", slotID)
	}

	f.bookingSeq++
	booking := &model.Booking{
		ID:        f.bookingSeq,
		SlotID:    slotID,
		StudentID: studentID,
		SubjectID: subjectID,
		Note:      note,
		CreatedAt: time.Now(),
	}
	f.bookings[booking.ID] = booking
	copied := *booking
	return &copied, true, nil
}

func (f *fakeStore) Cancel(ctx context.Context, slotID, studentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, b := range f.bookings {
		if b.SlotID == slotID && b.StudentID == studentID {
			delete(f.bookings, id)
			delete(f.records, id)
			return nil
		}
	}
	return apperr.NotFound("no booking for slot %d and student %d", slotID, studentID)
}

func (f *fakeStore) GetByIDBooking(ctx context.Context, id int64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeStore) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.bookings {
		if b.StudentID != studentID {
			continue
		}
		copied := *b
		if slot, ok := f.slots[b.SlotID]; ok {
			slotCopy := *slot
			copied.Slot = &slotCopy
			if owner, ok := f.users[slot.OwnerID]; ok {
				ownerCopy := *owner
				copied.Owner = &ownerCopy
			}
		}
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListBySlot(ctx context.Context, slotID int64) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Booking
	for _, b := range f.bookings {
		if b.SlotID != slotID {
			continue
		}
		copied := *b
		if student, ok := f.users[b.StudentID]; ok {
			studentCopy := *student
			copied.Student = &studentCopy
		}
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, bookingID int64) (*model.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (f *fakeStore) UpsertStudentNotes(ctx context.Context, bookingID int64, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	record := f.recordLocked(bookingID)
	record.StudentNotes = notes
	record.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) UpsertInstructorSummary(ctx context.Context, bookingID int64, summary, homework string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	record := f.recordLocked(bookingID)
	record.InstructorSummary = summary
	record.Homework = homework
	record.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) countLocked(slotID int64) int {
	count := 0
	for _, b := range f.bookings {
		if b.SlotID == slotID {
			count++
		}
	}
	return count
}

func (f *fakeStore) recordLocked(bookingID int64) *model.SessionRecord {
	record, ok := f.records[bookingID]
	if !ok {
		record = &model.SessionRecord{BookingID: bookingID}
		f.records[bookingID] = record
	}
	return record
}

func sortSlots(slots []*model.SlotWithCount) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
}

// bookingStoreAdapter разводит GetByID слота и бронирования на одном fakeStore
type bookingStoreAdapter struct {
	*fakeStore
}

func (a bookingStoreAdapter) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	return a.fakeStore.GetByIDBooking(ctx, id)
}

// userStoreAdapter то же для пользователей
type userStoreAdapter struct {
	*fakeStore
}

func (a userStoreAdapter) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return a.fakeStore.GetUserByID(ctx, id)
}

// fakeCatalog каталог предметов в памяти
type fakeCatalog struct {
	subjects   map[int64]*model.Subject
	authorized map[[2]int64]bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		subjects:   make(map[int64]*model.Subject),
		authorized: make(map[[2]int64]bool),
	}
}

func (f *fakeCatalog) addSubject(id int64, name string, active bool) {
	f.subjects[id] = &model.Subject{ID: id, Name: name, IsActive: active}
}

func (f *fakeCatalog) authorize(instructorID, subjectID int64) {
	f.authorized[[2]int64{instructorID, subjectID}] = true
}

func (f *fakeCatalog) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	subject, ok := f.subjects[id]
	if !ok {
		return nil, nil
	}
	return subject, nil
}

func (f *fakeCatalog) IsInstructorAuthorized(ctx context.Context, instructorID, subjectID int64) (bool, error) {
	return f.authorized[[2]int64{instructorID, subjectID}], nil
}
