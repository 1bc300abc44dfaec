package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/subtracker/internal/app/store/users"
	"github.com/dalemusser/subtracker/internal/app/system/indexes"
	"github.com/dalemusser/subtracker/internal/domain/models"
	"github.com/dalemusser/subtracker/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestListNames_NaturalOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateUser(ctx, "Alice", "alice@example.com", "x-password")
	fx.CreateUser(ctx, "Bob", "bob@example.com", "y-password")

	names, err := userstore.New(db).ListNames(ctx)
	if err != nil {
		t.Fatalf("ListNames failed: %v", err)
	}

	if len(names) != 2 || names[0] != "Alice" || names[1] != "Bob" {
		t.Errorf("ListNames() = %v, want [Alice Bob]", names)
	}
}

func TestListNames_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	names, err := userstore.New(db).ListNames(ctx)
	if err != nil {
		t.Fatalf("ListNames failed: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", names)
	}
}

func TestGetByID_ExcludesPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.NewFixtures(t, db).CreateUser(ctx, "Alice", "alice@example.com", "x-password")

	u, err := userstore.New(db).GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if u.Name != "Alice" || u.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.Password != "" {
		t.Error("expected password to be excluded from projection")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := userstore.New(db).GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestCreate_NormalizesAndDetectsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := userstore.New(db)
	created, err := store.Create(ctx, models.User{
		Name:     "  Carol ",
		Email:    " Carol@Example.COM ",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if created.Email != "carol@example.com" || created.Name != "Carol" {
		t.Errorf("fields not normalized: %+v", created)
	}

	got, err := store.GetByEmail(ctx, "CAROL@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.Password != "hash" {
		t.Error("GetByEmail should include the password hash")
	}

	_, err = store.Create(ctx, models.User{Name: "Carol 2", Email: "carol@example.com", Password: "h"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestFetcher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.NewFixtures(t, db).CreateUser(ctx, "Alice", "alice@example.com", "x-password")
	f := userstore.NewFetcher(db)

	su := f.FetchUser(ctx, alice.ID.Hex())
	if su == nil {
		t.Fatal("expected user")
	}
	if su.ID != alice.ID || su.Name != "Alice" {
		t.Errorf("unexpected session user: %+v", su)
	}

	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("expected nil for unknown id")
	}
	if f.FetchUser(ctx, "not-hex") != nil {
		t.Error("expected nil for malformed id")
	}
}
