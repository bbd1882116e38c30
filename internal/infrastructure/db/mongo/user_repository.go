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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

const collectionUsers = "users"

type userDoc struct {
	ID            int64      `bson:"_id"`
	Name          string     `bson:"name"`
	Email         string     `bson:"email"`
	PasswordHash  string     `bson:"password"`
	Type          string     `bson:"type"`
	Phone         string     `bson:"phone,omitempty"`
	Address       string     `bson:"address,omitempty"`
	DOB           *time.Time `bson:"dob,omitempty"`
	Profile       string     `bson:"profile,omitempty"`
	CreatedUserID *int64     `bson:"created_user_id,omitempty"`
	UpdatedUserID *int64     `bson:"updated_user_id,omitempty"`
	DeletedUserID *int64     `bson:"deleted_user_id,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
	DeletedAt     *time.Time `bson:"deleted_at"`
}

func newUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:            int64(u.ID),
		Name:          u.Name,
		Email:         strings.ToLower(u.Email),
		PasswordHash:  u.PasswordHash,
		Type:          u.Type,
		Phone:         u.Phone,
		Address:       u.Address,
		DOB:           u.DOB,
		Profile:       u.Profile,
		CreatedUserID: int64Ptr(u.CreatedUserID),
		UpdatedUserID: int64Ptr(u.UpdatedUserID),
		DeletedUserID: int64Ptr(u.DeletedUserID),
		CreatedAt:     u.CreatedAt.UTC(),
		UpdatedAt:     u.UpdatedAt.UTC(),
		DeletedAt:     u.DeletedAt,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:            uint(d.ID),
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Type:          d.Type,
		Phone:         d.Phone,
		Address:       d.Address,
		DOB:           d.DOB,
		Profile:       d.Profile,
		CreatedUserID: idPtr(d.CreatedUserID),
		UpdatedUserID: idPtr(d.UpdatedUserID),
		DeletedUserID: idPtr(d.DeletedUserID),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		DeletedAt:     d.DeletedAt,
	}
}

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, col: db.Collection(collectionUsers)}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionUsers)
	if err != nil {
		return err
	}
	doc := newUserDoc(u)
	doc.ID = int64(id)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	u.Email = doc.Email
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": int64(id), "deleted_at": nil})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email)), "deleted_at": nil})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": int64(u.ID), "deleted_at": nil}, bson.M{"$set": bson.M{
		"name":            u.Name,
		"email":           strings.ToLower(u.Email),
		"password":        u.PasswordHash,
		"type":            u.Type,
		"phone":           u.Phone,
		"address":         u.Address,
		"dob":             u.DOB,
		"profile":         u.Profile,
		"updated_user_id": int64Ptr(u.UpdatedUserID),
		"updated_at":      u.UpdatedAt.UTC(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id, actorID uint, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": int64(id), "deleted_at": nil}, bson.M{"$set": bson.M{
		"deleted_user_id": int64(actorID),
		"deleted_at":      at.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := userQuery(filter)
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	cur, err := r.col.Find(ctx, query, paginate(filter.Page, filter.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

// EnsureIndexes creates the unique email index the duplicate check relies on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_user_id", Value: 1}}},
	})
	return err
}

// Ping is used by the readiness probe.
func (r *UserRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.db.Client().Ping(ctx, nil)
}

func userQuery(filter ports.UserFilter) bson.M {
	query := bson.M{"deleted_at": nil}
	if filter.CreatedUserID != 0 {
		query["created_user_id"] = int64(filter.CreatedUserID)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		query["email"] = primitive.Regex{Pattern: regexp.QuoteMeta(email), Options: "i"}
	}
	created := bson.M{}
	if filter.CreatedFrom != nil {
		created["$gte"] = filter.CreatedFrom.UTC()
	}
	if filter.CreatedTo != nil {
		created["$lt"] = filter.CreatedTo.UTC()
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	return query
}
