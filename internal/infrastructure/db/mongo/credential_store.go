package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopworks/auth-system/internal/core/domain"
)

const (
	usersCollection = "users"
	rolesCollection = "roles"
)

// CredentialStore is the MongoDB adapter for user identities and roles.
type CredentialStore struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{
		users: db.Collection(usersCollection),
		roles: db.Collection(rolesCollection),
	}
}

type userDoc struct {
	ID             string   `bson:"_id"`
	Email          string   `bson:"email"`
	FirstName      string   `bson:"first_name,omitempty"`
	LastName       string   `bson:"last_name,omitempty"`
	PasswordHash   string   `bson:"password_hash"`
	Roles          []string `bson:"roles"`
	EmailConfirmed bool     `bson:"email_confirmed"`
	CreatedAt      int64    `bson:"created_at"`
	UpdatedAt      int64    `bson:"updated_at"`
}

type roleDoc struct {
	Name string `bson:"name"`
}

// EnsureIndexes creates the unique indexes the auth core relies on. The
// email index is the authoritative guard against duplicate registration.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	_, err = s.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create roles name index: %w", err)
	}
	return nil
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromDoc(&doc), nil
}

func (s *CredentialStore) CreateUser(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doc := userDoc{
		ID:             user.ID,
		Email:          domain.NormalizeEmail(user.Email),
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		PasswordHash:   string(hash),
		Roles:          []string{},
		EmailConfirmed: user.EmailConfirmed,
		CreatedAt:      user.CreatedAt.Unix(),
		UpdatedAt:      user.UpdatedAt.Unix(),
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return fromDoc(&doc), nil
}

func (s *CredentialStore) VerifyPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *CredentialStore) RolesOf(ctx context.Context, user *domain.User) ([]string, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"_id": user.ID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return doc.Roles, nil
}

func (s *CredentialStore) AddRole(ctx context.Context, user *domain.User, role string) error {
	_, err := s.users.UpdateByID(ctx, user.ID, bson.M{
		"$addToSet": bson.M{"roles": role},
		"$set":      bson.M{"updated_at": time.Now().UTC().Unix()},
	})
	if err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	return nil
}

func (s *CredentialStore) RoleExists(ctx context.Context, role string) (bool, error) {
	n, err := s.roles.CountDocuments(ctx, bson.M{"name": role})
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	return n > 0, nil
}

func (s *CredentialStore) CreateRole(ctx context.Context, role string) error {
	if _, err := s.roles.InsertOne(ctx, roleDoc{Name: role}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func fromDoc(doc *userDoc) *domain.User {
	return &domain.User{
		ID:             doc.ID,
		Email:          doc.Email,
		FirstName:      doc.FirstName,
		LastName:       doc.LastName,
		PasswordHash:   doc.PasswordHash,
		Roles:          doc.Roles,
		EmailConfirmed: doc.EmailConfirmed,
		CreatedAt:      unixToTime(doc.CreatedAt),
		UpdatedAt:      unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
