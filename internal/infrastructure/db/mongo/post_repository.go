package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

const collectionPosts = "posts"

type postDoc struct {
	ID            int64      `bson:"_id"`
	Title         string     `bson:"title"`
	Description   string     `bson:"description"`
	Status        int        `bson:"status"`
	UserID        *int64     `bson:"user_id,omitempty"`
	CreatedUserID int64      `bson:"created_user_id"`
	UpdatedUserID int64      `bson:"updated_user_id"`
	DeletedUserID *int64     `bson:"deleted_user_id,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
	DeletedAt     *time.Time `bson:"deleted_at"`
}

func newPostDoc(p *domain.Post) postDoc {
	return postDoc{
		ID:            int64(p.ID),
		Title:         p.Title,
		Description:   p.Description,
		Status:        p.Status,
		UserID:        int64Ptr(p.OwnerID),
		CreatedUserID: int64(p.CreatedUserID),
		UpdatedUserID: int64(p.UpdatedUserID),
		DeletedUserID: int64Ptr(p.DeletedUserID),
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt.UTC(),
		DeletedAt:     p.DeletedAt,
	}
}

func (d postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:            uint(d.ID),
		Title:         d.Title,
		Description:   d.Description,
		Status:        d.Status,
		OwnerID:       idPtr(d.UserID),
		CreatedUserID: uint(d.CreatedUserID),
		UpdatedUserID: uint(d.UpdatedUserID),
		DeletedUserID: idPtr(d.DeletedUserID),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		DeletedAt:     d.DeletedAt,
	}
}

// PostRepository implements ports.PostRepository using MongoDB.
type PostRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{db: db, col: db.Collection(collectionPosts)}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionPosts)
	if err != nil {
		return err
	}
	p.ID = id
	if _, err := r.col.InsertOne(ctx, newPostDoc(p)); err != nil {
		p.ID = 0
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// CreateMany runs inside a multi-document transaction, which requires a replica set.
func (r *PostRepository) CreateMany(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sess, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	ids := make([]uint, len(posts))
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		docs := make([]any, len(posts))
		for i, p := range posts {
			id, err := nextID(sc, r.db, collectionPosts)
			if err != nil {
				return nil, err
			}
			ids[i] = id
			doc := newPostDoc(p)
			doc.ID = int64(id)
			docs[i] = doc
		}
		return r.col.InsertMany(sc, docs)
	})
	if err != nil {
		return fmt.Errorf("insert posts: %w", err)
	}
	for i, p := range posts {
		p.ID = ids[i]
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	err := r.col.FindOne(ctx, bson.M{"_id": int64(id), "deleted_at": nil}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": int64(p.ID), "deleted_at": nil}, bson.M{"$set": bson.M{
		"title":           p.Title,
		"description":     p.Description,
		"status":          p.Status,
		"updated_user_id": int64(p.UpdatedUserID),
		"updated_at":      p.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) SoftDelete(ctx context.Context, id, actorID uint, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": int64(id), "deleted_at": nil}, bson.M{"$set": bson.M{
		"deleted_user_id": int64(actorID),
		"deleted_at":      at.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter) ([]*domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := postQuery(filter)
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	cur, err := r.col.Find(ctx, query, paginate(filter.Page, filter.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}

	out := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

// EnsureIndexes creates necessary indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_user_id", Value: 1}}},
		{Keys: bson.D{{Key: "deleted_at", Value: 1}}},
	})
	return err
}

func postQuery(filter ports.PostFilter) bson.M {
	query := bson.M{"deleted_at": nil}
	if filter.CreatedUserID != 0 {
		query["created_user_id"] = int64(filter.CreatedUserID)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}
	}
	return query
}
