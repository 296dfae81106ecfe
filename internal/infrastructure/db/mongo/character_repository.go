package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/ports"
)

const collectionCharacters = "characters"

// CharacterRepository implements ports.CharacterRepository. Owner operations
// always filter on both _id and user_id.
type CharacterRepository struct {
	col *mongo.Collection
}

func NewCharacterRepository(db *mongo.Database) *CharacterRepository {
	return &CharacterRepository{col: db.Collection(collectionCharacters)}
}

func ownedFilter(id, userID string) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}

// ListByOwner returns the owner's characters, newest first.
func (r *CharacterRepository) ListByOwner(ctx context.Context, userID string) ([]*domain.Character, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapErr("list characters", err, nil)
	}

	out := []*domain.Character{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr("decode characters", err, nil)
	}
	return out, nil
}

// Insert stores a new character document.
func (r *CharacterRepository) Insert(ctx context.Context, c *domain.Character) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return wrapErr("insert character", err, nil)
	}
	return nil
}

func (r *CharacterRepository) FindOwned(ctx context.Context, id, userID string) (*domain.Character, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Character
	if err := r.col.FindOne(ctx, ownedFilter(id, userID)).Decode(&c); err != nil {
		return nil, wrapErr("find character", err, domain.ErrCharacterNotFound)
	}
	return &c, nil
}

// UpdateOwned applies the non-nil patch fields and returns the stored row.
func (r *CharacterRepository) UpdateOwned(ctx context.Context, id, userID string, p ports.CharacterPatch) (*domain.Character, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c domain.Character
	err := r.col.FindOneAndUpdate(ctx, ownedFilter(id, userID), bson.M{"$set": patchToSet(p)}, opts).Decode(&c)
	if err != nil {
		return nil, wrapErr("update character", err, domain.ErrCharacterNotFound)
	}
	return &c, nil
}

func patchToSet(p ports.CharacterPatch) bson.M {
	set := bson.M{"updated_at": p.UpdatedAt}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.ClassName != nil {
		set["class_name"] = *p.ClassName
	}
	if p.Level != nil {
		set["level"] = *p.Level
	}
	if p.HPCurrent != nil {
		set["hp_current"] = *p.HPCurrent
	}
	if p.HPMax != nil {
		set["hp_max"] = *p.HPMax
	}
	if p.SpellSlots != nil {
		set["spell_slots"] = *p.SpellSlots
	}
	if p.SpellsKnown != nil {
		set["spells_known"] = *p.SpellsKnown
	}
	if p.CharacterData != nil {
		set["character_data"] = p.CharacterData
	}
	return set
}

func (r *CharacterRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, ownedFilter(id, userID)); err != nil {
		return wrapErr("delete character", err, nil)
	}
	return nil
}

// SetShareToken overwrites any existing token on the owner's character.
func (r *CharacterRepository) SetShareToken(ctx context.Context, id, userID, token string, expiresAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, ownedFilter(id, userID), bson.M{"$set": bson.M{
		"share_token":      token,
		"token_expires_at": expiresAt,
	}})
	if err != nil {
		return wrapErr("set share token", err, nil)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

// ClearShareToken nulls both token fields; a non-matching filter is not an error.
func (r *CharacterRepository) ClearShareToken(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, ownedFilter(id, userID), bson.M{"$set": bson.M{
		"share_token":      nil,
		"token_expires_at": nil,
	}})
	return wrapErr("clear share token", err, nil)
}

// FindByShareToken matches the token and a future expiry in one predicate,
// so expired and unknown tokens are indistinguishable.
func (r *CharacterRepository) FindByShareToken(ctx context.Context, token string, now time.Time) (*domain.Character, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"share_token":      token,
		"token_expires_at": bson.M{"$gt": now},
	}

	var c domain.Character
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, wrapErr("find shared character", err, domain.ErrCharacterNotFound)
	}
	return &c, nil
}

// EnsureIndexes creates necessary indexes on the characters collection.
func (r *CharacterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys: bson.D{{Key: "share_token", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"share_token": bson.M{"$type": "string"}}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
