package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbotrack/mbo-tracker/internal/core/domain"
	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

const collectionObjectives = "objectives"

type ObjectiveRepository struct {
	col *mongo.Collection
}

func NewObjectiveRepository(db *mongo.Database) *ObjectiveRepository {
	return &ObjectiveRepository{col: db.Collection(collectionObjectives)}
}

var _ ports.ObjectiveRepository = (*ObjectiveRepository)(nil)

// Create inserts a new objective document, assigning an id when none is set.
func (r *ObjectiveRepository) Create(ctx context.Context, o *domain.Objective) (*domain.Objective, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if o.ID == "" {
		o.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *ObjectiveRepository) FindByID(ctx context.Context, id string) (*domain.Objective, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Objective
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrObjectiveNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Update replaces the stored document for o.ID. A full replace keeps the
// document in lockstep with the snapshot the service layer dispatched.
func (r *ObjectiveRepository) Update(ctx context.Context, o *domain.Objective) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": o.ID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrObjectiveNotFound
	}
	return nil
}

func (r *ObjectiveRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrObjectiveNotFound
	}
	return nil
}

// DeleteByUser removes every objective created by userID and reports how
// many were removed. Backs the cascading user delete.
func (r *ObjectiveRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns a page of objectives matching the filter plus the total
// count before pagination.
func (r *ObjectiveRepository) List(ctx context.Context, filter ports.ObjectiveFilter) ([]*domain.Objective, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildQuery(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sortSpec(filter.SortBy, filter.SortDir))
	if filter.Page > 0 && filter.Limit > 0 {
		opts.SetSkip(int64((filter.Page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var objectives []*domain.Objective
	if err := cursor.All(ctx, &objectives); err != nil {
		return nil, 0, err
	}
	return objectives, total, nil
}

// ListPending returns all objectives awaiting approval, newest first.
func (r *ObjectiveRepository) ListPending(ctx context.Context) ([]*domain.Objective, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"approval_status": domain.ApprovalPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var objectives []*domain.Objective
	if err := cursor.All(ctx, &objectives); err != nil {
		return nil, err
	}
	return objectives, nil
}

func buildQuery(filter ports.ObjectiveFilter) bson.M {
	query := bson.M{}
	if len(filter.UserIDs) > 0 {
		query["user_id"] = bson.M{"$in": filter.UserIDs}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
	}
	if filter.ApprovedOnly {
		query["approval_status"] = domain.ApprovalApproved
	}
	if filter.Window != nil {
		query["created_at"] = bson.M{"$gte": filter.Window.Start, "$lte": filter.Window.End}
	}
	return query
}

// sortSpec maps the API sort parameters onto document fields. Unknown
// fields fall back to created_at descending.
func sortSpec(by, dir string) bson.D {
	field := "created_at"
	switch by {
	case "title":
		field = "title"
	case "category":
		field = "category"
	case "progress":
		field = "progress_status"
	case "points":
		field = "points"
	}
	order := -1
	if dir == "asc" {
		order = 1
	}
	return bson.D{{Key: field, Value: order}}
}

// EnsureIndexes creates the indexes on the objectives collection. The
// compound index serves the dashboard's per-user per-window aggregation.
func (r *ObjectiveRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "approval_status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
