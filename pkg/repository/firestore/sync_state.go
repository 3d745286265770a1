package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	syncStateCollection = "sync_state"
	cursorDocument      = "cursor"
)

type syncStateRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.SyncStateRepository = &syncStateRepository{}

func newSyncStateRepository(client *firestore.Client) *syncStateRepository {
	return &syncStateRepository{
		client: client,
	}
}

// cursorDoc is the Firestore persistence model
type cursorDoc struct {
	TS        float64   `firestore:"ts"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (r *syncStateRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + syncStateCollection)
	}
	return r.client.Collection(syncStateCollection)
}

// GetCursor returns the persisted cursor, or 0 when no sync has
// completed yet
func (r *syncStateRepository) GetCursor(ctx context.Context) (float64, error) {
	doc, err := r.collection().Doc(cursorDocument).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, nil
		}
		return 0, goerr.Wrap(err, "failed to get sync cursor")
	}

	var d cursorDoc
	if err := doc.DataTo(&d); err != nil {
		return 0, goerr.Wrap(err, "failed to unmarshal sync cursor")
	}

	return d.TS, nil
}

// AdvanceCursor moves the cursor forward monotonically. The max runs
// inside a transaction so concurrent passes cannot move it backward.
func (r *syncStateRepository) AdvanceCursor(ctx context.Context, ts float64) error {
	docRef := r.collection().Doc(cursorDocument)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get existing cursor")
		}

		if err == nil {
			var existing cursorDoc
			if err := doc.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal existing cursor")
			}
			if existing.TS >= ts {
				return nil
			}
		}

		return tx.Set(docRef, &cursorDoc{TS: ts, UpdatedAt: time.Now()})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to advance sync cursor", goerr.V("ts", ts))
	}

	return nil
}
