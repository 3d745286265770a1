package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const absenteesCollection = "absentees"

type absenteeRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.AbsenteeRepository = &absenteeRepository{}

func newAbsenteeRepository(client *firestore.Client) *absenteeRepository {
	return &absenteeRepository{
		client: client,
	}
}

// absenteeDoc is the Firestore persistence model
type absenteeDoc struct {
	Date     string `firestore:"date"`
	UserID   string `firestore:"user_id"`
	Username string `firestore:"username"`
}

func (r *absenteeRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + absenteesCollection)
	}
	return r.client.Collection(absenteesCollection)
}

func (r *absenteeRepository) docID(date types.Date, userID types.UserID) string {
	return string(date) + "_" + string(userID)
}

// Replace atomically swaps the absentee set for a date. The
// delete-then-insert runs in one transaction; readers never observe a
// partially replaced set. A transaction caps out at 500 writes, far
// above any realistic roster.
func (r *absenteeRepository) Replace(ctx context.Context, date types.Date, absentees []*model.Absentee) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		iter := tx.Documents(r.collection().Where("date", "==", string(date)))
		defer iter.Stop()

		var stale []*firestore.DocumentRef
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return goerr.Wrap(err, "failed to iterate existing absentees")
			}
			stale = append(stale, doc.Ref)
		}

		for _, ref := range stale {
			if err := tx.Delete(ref); err != nil {
				return goerr.Wrap(err, "failed to delete stale absentee")
			}
		}

		for _, a := range absentees {
			ref := r.collection().Doc(r.docID(date, a.UserID))
			doc := &absenteeDoc{
				Date:     string(date),
				UserID:   string(a.UserID),
				Username: a.Username,
			}
			if err := tx.Set(ref, doc); err != nil {
				return goerr.Wrap(err, "failed to set absentee", goerr.V("user_id", a.UserID))
			}
		}

		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to replace absentees", goerr.V("date", date))
	}

	return nil
}

// GetByDate retrieves the absentees on a date, ordered by username.
// Requires the composite index configured by the migrate command.
func (r *absenteeRepository) GetByDate(ctx context.Context, date types.Date) ([]*model.Absentee, error) {
	iter := r.collection().
		Where("date", "==", string(date)).
		OrderBy("username", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var absentees []*model.Absentee
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate absentees", goerr.V("date", date))
		}

		var d absenteeDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal absentee", goerr.V("docID", doc.Ref.ID))
		}

		absentees = append(absentees, &model.Absentee{
			Date:     types.Date(d.Date),
			UserID:   types.UserID(d.UserID),
			Username: d.Username,
		})
	}

	return absentees, nil
}
