package mutation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/iliyamo/cabin-booking-api/internal/assets"
	"github.com/iliyamo/cabin-booking-api/internal/model"
)

// ErrImageRollback marks the compound failure of the cabin saga: the
// table write succeeded but the image upload failed, so the row was
// deleted again. Handlers must surface this differently from a plain
// write failure.
var ErrImageRollback = errors.New("cabin image could not be uploaded, cabin was deleted")

// CabinWriter is the slice of the cabin repository the saga needs.
type CabinWriter interface {
	Create(ctx context.Context, cabin *model.Cabin) error
	Update(ctx context.Context, cabin *model.Cabin) error
	Delete(ctx context.Context, id uint64) error
}

// CabinImage is the image part of a cabin submission: either a
// reference to an already hosted asset (HostedURL set) or new raw
// image data (Filename + Data set).
type CabinImage struct {
	HostedURL   string
	Filename    string
	Data        io.Reader
	ContentType string
}

// CabinSaga performs the cabin write with its dependent binary asset as
// an ordered sequence with one compensating action:
//
//	1. decide whether the image is already hosted or new raw data
//	2. insert or update the cabin row with the final public image path
//	3. already hosted -> done, no upload
//	4. otherwise upload the raw asset under a random-prefixed flat name
//	5. upload failed -> delete the row written in step 2 and return
//	   ErrImageRollback
//
// This is manual compensation, not a transaction: a crash between
// steps 2 and 5 can leave a row pointing at a nonexistent asset. That
// gap is accepted.
type CabinSaga struct {
	cabins CabinWriter
	store  assets.Store
}

// NewCabinSaga wires the saga to its collaborators.
func NewCabinSaga(cabins CabinWriter, store assets.Store) *CabinSaga {
	return &CabinSaga{cabins: cabins, store: store}
}

// Save creates the cabin when cabin.ID is zero and updates it by
// identifier otherwise. On success cabin.Image holds the public URL of
// the (possibly pre-existing) asset.
func (s *CabinSaga) Save(ctx context.Context, cabin *model.Cabin, img CabinImage) error {
	hosted := img.HostedURL != "" && strings.HasPrefix(img.HostedURL, s.store.BaseURL())

	var objectName string
	if hosted {
		cabin.Image = img.HostedURL
	} else {
		objectName = assets.ObjectName(img.Filename)
		cabin.Image = s.store.PublicURL(objectName)
	}

	created := cabin.ID == 0
	var err error
	if created {
		err = s.cabins.Create(ctx, cabin)
	} else {
		err = s.cabins.Update(ctx, cabin)
	}
	if err != nil {
		return fmt.Errorf("cabin could not be saved: %w", err)
	}

	if hosted {
		return nil
	}

	if upErr := s.store.Upload(ctx, objectName, img.Data, img.ContentType); upErr != nil {
		// Compensate: remove the row written above. A failed delete is
		// logged only; the user still sees the upload failure.
		if delErr := s.cabins.Delete(ctx, cabin.ID); delErr != nil {
			log.Printf("cabin saga: compensating delete of cabin %d failed: %v (upload error: %v)", cabin.ID, delErr, upErr)
		}
		return fmt.Errorf("%w: %v", ErrImageRollback, upErr)
	}
	return nil
}
