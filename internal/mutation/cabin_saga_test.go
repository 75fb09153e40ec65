package mutation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/iliyamo/cabin-booking-api/internal/model"
)

// fakeCabinWriter records repository calls for the saga tests.
type fakeCabinWriter struct {
	nextID    uint64
	created   []uint64
	updated   []uint64
	deleted   []uint64
	writeErr  error
	deleteErr error
}

func (f *fakeCabinWriter) Create(_ context.Context, cabin *model.Cabin) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.nextID++
	cabin.ID = f.nextID
	f.created = append(f.created, cabin.ID)
	return nil
}

func (f *fakeCabinWriter) Update(_ context.Context, cabin *model.Cabin) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.updated = append(f.updated, cabin.ID)
	return nil
}

func (f *fakeCabinWriter) Delete(_ context.Context, id uint64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeAssetStore keeps uploads in memory and can fail on demand.
type fakeAssetStore struct {
	base      string
	objects   map[string][]byte
	uploadErr error
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{base: "https://assets.example.com/cabin-images", objects: map[string][]byte{}}
}

func (f *fakeAssetStore) Upload(_ context.Context, name string, body io.Reader, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[name] = raw
	return nil
}

func (f *fakeAssetStore) Delete(_ context.Context, name string) error {
	delete(f.objects, name)
	return nil
}

func (f *fakeAssetStore) PublicURL(name string) string { return f.base + "/" + name }
func (f *fakeAssetStore) BaseURL() string              { return f.base }

func TestSagaCreateWithNewImageUploads(t *testing.T) {
	cabins := &fakeCabinWriter{}
	store := newFakeAssetStore()
	saga := NewCabinSaga(cabins, store)

	cabin := &model.Cabin{Name: "Cabin 1", MaxCapacity: 4, RegularPriceCents: 10000}
	img := CabinImage{Filename: "cabin-001.jpg", Data: bytes.NewReader([]byte("jpegdata")), ContentType: "image/jpeg"}

	if err := saga.Save(context.Background(), cabin, img); err != nil {
		t.Fatalf("save: %v", err)
	}
	if cabin.ID == 0 {
		t.Fatal("cabin should have been inserted")
	}
	if !strings.HasPrefix(cabin.Image, store.BaseURL()) {
		t.Errorf("image path should live under the public prefix: %q", cabin.Image)
	}
	if len(store.objects) != 1 {
		t.Fatalf("expected one uploaded object, got %d", len(store.objects))
	}
	for name := range store.objects {
		if strings.Contains(name, "/") {
			t.Errorf("object name must be flat: %q", name)
		}
		if cabin.Image != store.PublicURL(name) {
			t.Errorf("row image %q does not point at uploaded object %q", cabin.Image, name)
		}
	}
}

func TestSagaHostedImageSkipsUpload(t *testing.T) {
	cabins := &fakeCabinWriter{}
	store := newFakeAssetStore()
	store.uploadErr = errors.New("must not be called")
	saga := NewCabinSaga(cabins, store)

	hosted := store.PublicURL("existing.jpg")
	cabin := &model.Cabin{ID: 5, Name: "Cabin 5"}
	if err := saga.Save(context.Background(), cabin, CabinImage{HostedURL: hosted}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if cabin.Image != hosted {
		t.Errorf("hosted image must be kept as-is, got %q", cabin.Image)
	}
	if len(cabins.updated) != 1 || cabins.updated[0] != 5 {
		t.Errorf("expected update of cabin 5, got %v", cabins.updated)
	}
	if len(cabins.deleted) != 0 {
		t.Errorf("nothing to compensate, got deletes %v", cabins.deleted)
	}
}

func TestSagaUploadFailureRollsBackRow(t *testing.T) {
	cabins := &fakeCabinWriter{}
	store := newFakeAssetStore()
	store.uploadErr = errors.New("bucket unavailable")
	saga := NewCabinSaga(cabins, store)

	cabin := &model.Cabin{Name: "Cabin 9"}
	err := saga.Save(context.Background(), cabin, CabinImage{
		Filename: "photo.jpg", Data: bytes.NewReader([]byte("x")), ContentType: "image/jpeg",
	})
	if !errors.Is(err, ErrImageRollback) {
		t.Fatalf("expected ErrImageRollback, got %v", err)
	}
	if len(cabins.deleted) != 1 || cabins.deleted[0] != cabin.ID {
		t.Errorf("inserted row must be deleted on upload failure, got %v", cabins.deleted)
	}
	if !strings.Contains(err.Error(), "bucket unavailable") {
		t.Errorf("compound error should carry the upload failure: %v", err)
	}
}

func TestSagaWriteFailureIsNotARollback(t *testing.T) {
	cabins := &fakeCabinWriter{writeErr: errors.New("table locked")}
	store := newFakeAssetStore()
	saga := NewCabinSaga(cabins, store)

	err := saga.Save(context.Background(), &model.Cabin{Name: "Cabin 2"}, CabinImage{
		Filename: "a.jpg", Data: bytes.NewReader(nil),
	})
	if err == nil {
		t.Fatal("expected write failure")
	}
	if errors.Is(err, ErrImageRollback) {
		t.Error("plain write failure must be distinguishable from a rollback")
	}
	if len(store.objects) != 0 {
		t.Error("no upload may happen when the row write fails")
	}
}

func TestSagaCompensatingDeleteFailureStillReportsUpload(t *testing.T) {
	cabins := &fakeCabinWriter{deleteErr: errors.New("delete blocked")}
	store := newFakeAssetStore()
	store.uploadErr = errors.New("upload refused")
	saga := NewCabinSaga(cabins, store)

	err := saga.Save(context.Background(), &model.Cabin{Name: "Cabin 3"}, CabinImage{
		Filename: "b.jpg", Data: bytes.NewReader(nil),
	})
	if !errors.Is(err, ErrImageRollback) {
		t.Fatalf("user still sees the upload failure, got %v", err)
	}
	// The secondary delete failure is logged, not surfaced.
	if strings.Contains(err.Error(), "delete blocked") {
		t.Errorf("delete failure must not leak into the surfaced error: %v", err)
	}
}
