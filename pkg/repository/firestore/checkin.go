package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const checkinsCollection = "checkins"

type checkinRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.CheckInRepository = &checkinRepository{}

func newCheckinRepository(client *firestore.Client) *checkinRepository {
	return &checkinRepository{
		client: client,
	}
}

// checkinDoc is the Firestore persistence model
type checkinDoc struct {
	UserID   string  `firestore:"user_id"`
	Username string  `firestore:"username"`
	TS       float64 `firestore:"ts"`
	Date     string  `firestore:"date"`
	Content  string  `firestore:"content"`
	Quality  string  `firestore:"quality"`
}

func (r *checkinRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + checkinsCollection)
	}
	return r.client.Collection(checkinsCollection)
}

// docID enforces the one-check-in-per-(user, date) invariant through
// the document identity itself
func (r *checkinRepository) docID(userID types.UserID, date types.Date) string {
	return string(date) + "_" + string(userID)
}

func (r *checkinRepository) toDoc(checkin *model.CheckIn) *checkinDoc {
	return &checkinDoc{
		UserID:   string(checkin.UserID),
		Username: checkin.Username,
		TS:       checkin.TS,
		Date:     string(checkin.Date),
		Content:  checkin.Content,
		Quality:  string(checkin.Quality),
	}
}

func (r *checkinRepository) fromDoc(doc *checkinDoc) *model.CheckIn {
	return &model.CheckIn{
		UserID:   types.UserID(doc.UserID),
		Username: doc.Username,
		TS:       doc.TS,
		Date:     types.Date(doc.Date),
		Content:  doc.Content,
		Quality:  types.Quality(doc.Quality),
	}
}

// Upsert creates or updates the check-in for (UserID, Date).
// Last-write-wins by TS, enforced inside a transaction so concurrent
// passes cannot interleave the read and the write.
func (r *checkinRepository) Upsert(ctx context.Context, checkin *model.CheckIn) error {
	if err := checkin.Validate(); err != nil {
		return goerr.Wrap(err, "invalid check-in")
	}

	docRef := r.collection().Doc(r.docID(checkin.UserID, checkin.Date))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get existing check-in")
		}

		if err == nil {
			var existing checkinDoc
			if err := doc.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal existing check-in")
			}
			if existing.TS > checkin.TS {
				return nil
			}
		}

		return tx.Set(docRef, r.toDoc(checkin))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to upsert check-in",
			goerr.V("user_id", checkin.UserID), goerr.V("date", checkin.Date))
	}

	return nil
}

// GetByDate retrieves all check-ins on a date, ordered by TS
func (r *checkinRepository) GetByDate(ctx context.Context, date types.Date) ([]*model.CheckIn, error) {
	iter := r.collection().
		Where("date", "==", string(date)).
		OrderBy("ts", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	checkins, err := r.drain(iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get check-ins by date", goerr.V("date", date))
	}

	return checkins, nil
}

// GetByUserDate retrieves one user's check-in for a date
func (r *checkinRepository) GetByUserDate(ctx context.Context, userID types.UserID, date types.Date) (*model.CheckIn, error) {
	doc, err := r.collection().Doc(r.docID(userID, date)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "check-in not found",
				goerr.V("user_id", userID), goerr.V("date", date))
		}
		return nil, goerr.Wrap(err, "failed to get check-in",
			goerr.V("user_id", userID), goerr.V("date", date))
	}

	var d checkinDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal check-in", goerr.V("docID", doc.Ref.ID))
	}

	return r.fromDoc(&d), nil
}

// GetRange retrieves all check-ins with start <= date <= end, ordered
// by date then TS. Requires the composite index configured by the
// migrate command.
func (r *checkinRepository) GetRange(ctx context.Context, start, end types.Date) ([]*model.CheckIn, error) {
	iter := r.collection().
		Where("date", ">=", string(start)).
		Where("date", "<=", string(end)).
		OrderBy("date", firestore.Asc).
		OrderBy("ts", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	checkins, err := r.drain(iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get check-in range",
			goerr.V("start", start), goerr.V("end", end))
	}

	return checkins, nil
}

func (r *checkinRepository) drain(iter *firestore.DocumentIterator) ([]*model.CheckIn, error) {
	var checkins []*model.CheckIn
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate check-ins")
		}

		var d checkinDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal check-in", goerr.V("docID", doc.Ref.ID))
		}

		checkins = append(checkins, r.fromDoc(&d))
	}
	return checkins, nil
}
