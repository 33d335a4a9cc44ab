package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/denisschmidt/songvault/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pingTimeout = 5 * time.Second

// Catalog keeps one document per song in a MongoDB collection
type Catalog struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type songDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Title    string             `bson:"title"`
	Artist   string             `bson:"artist"`
	FilePath string             `bson:"filePath"`
}

func New(ctx context.Context, uri, dbName, collName string) (*Catalog, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := cli.Ping(pctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Printf("connected to MongoDB, using %s.%s", dbName, collName)

	return &Catalog{
		client: cli,
		coll:   cli.Database(dbName).Collection(collName),
	}, nil
}

func (m *Catalog) InsertSong(ctx context.Context, song types.Song) (types.ID, error) {
	res, err := m.coll.InsertOne(ctx, songDocument{
		Title:    song.Title,
		Artist:   song.Artist,
		FilePath: song.FilePath,
	})
	if err != nil {
		return "", fmt.Errorf("insert song: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id %v", res.InsertedID)
	}
	return types.ID(oid.Hex()), nil
}

func (m *Catalog) ListSongs(ctx context.Context) ([]types.Song, error) {
	cur, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	songs := make([]types.Song, 0)
	for cur.Next(ctx) {
		var doc songDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		songs = append(songs, doc.song())
	}
	return songs, cur.Err()
}

// GetSong treats IDs that are not ObjectIDs as unknown songs
func (m *Catalog) GetSong(ctx context.Context, id types.ID) (types.Song, error) {
	oid, err := parseID(id)
	if err != nil {
		return types.Song{}, types.ErrSongNotExists{ID: id}
	}

	var doc songDocument
	err = m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.Song{}, types.ErrSongNotExists{ID: id}
	}
	if err != nil {
		return types.Song{}, err
	}
	return doc.song(), nil
}

func (m *Catalog) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func parseID(id types.ID) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(string(id))
}

func (d songDocument) song() types.Song {
	return types.Song{
		ID:       types.ID(d.ID.Hex()),
		Title:    d.Title,
		Artist:   d.Artist,
		FilePath: d.FilePath,
	}
}
