package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookinghub/booking-system/internal/core/domain"
)

const (
	usersCollection = "users"
	rolesCollection = "roles"
)

// CredentialStore implements ports.CredentialStore using MongoDB. Password
// hashes are computed and verified here; plaintext never leaves this layer.
type CredentialStore struct {
	db         *mongo.Database
	bcryptCost int
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{db: db, bcryptCost: bcrypt.DefaultCost}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []string           `bson:"roles"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
		Roles:        append([]string(nil), d.Roles...),
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}
}

// CreateUser hashes the password and inserts the user. The unique email index
// makes the insert atomic against concurrent registrations; a duplicate-key
// error comes back as a validation failure, the same shape a weak password
// produces.
func (s *CredentialStore) CreateUser(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if len(password) < 8 {
		verr := &domain.ValidationError{}
		verr.Add("password", "password must be at least 8 characters")
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	doc := userDoc{
		Email:        domain.NormalizeEmail(user.Email),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: string(hash),
		Roles:        []string{},
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	res, err := s.db.Collection(usersCollection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			verr := &domain.ValidationError{}
			verr.Add("email", "email is already taken")
			return nil, verr
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByEmail returns the user stored under the normalized email.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	filter := bson.M{"email": domain.NormalizeEmail(email)}
	if err := s.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// CheckPassword verifies the plaintext against the stored bcrypt hash.
func (s *CredentialStore) CheckPassword(_ context.Context, user *domain.User, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare password: %w", err)
	}
	return true, nil
}

// GetRoles re-reads the membership array so callers always see the current set.
func (s *CredentialStore) GetRoles(ctx context.Context, user *domain.User) ([]string, error) {
	fresh, err := s.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	return fresh.Roles, nil
}

// AddToRole appends the role to the user's membership array. $addToSet keeps
// the operation idempotent.
func (s *CredentialStore) AddToRole(ctx context.Context, user *domain.User, role string) error {
	filter := bson.M{"email": domain.NormalizeEmail(user.Email)}
	update := bson.M{
		"$addToSet": bson.M{"roles": role},
		"$set":      bson.M{"updated_at": time.Now().UTC().Unix()},
	}

	res, err := s.db.Collection(usersCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("add to role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RoleExists reports whether the role document is present.
func (s *CredentialStore) RoleExists(ctx context.Context, role string) (bool, error) {
	n, err := s.db.Collection(rolesCollection).CountDocuments(ctx, bson.M{"name": role})
	if err != nil {
		return false, fmt.Errorf("count role: %w", err)
	}
	return n > 0, nil
}

// CreateRole inserts the role document. Losing a race to a concurrent create
// hits the unique name index and is treated as success.
func (s *CredentialStore) CreateRole(ctx context.Context, role string) error {
	doc := bson.M{"name": role, "created_at": time.Now().UTC().Unix()}
	if _, err := s.db.Collection(rolesCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// EnsureRoles seeds the given roles, creating any that are missing.
func (s *CredentialStore) EnsureRoles(ctx context.Context, roles []string) error {
	for _, role := range roles {
		exists, err := s.RoleExists(ctx, role)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.CreateRole(ctx, role); err != nil {
			return err
		}
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
