/*
 * Copyright 2026 The Inkwell Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mongo implements database interfaces using MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	gotime "time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/server/backend/database"
	"github.com/inkwell-team/inkwell/server/logging"
)

// Client is a client that connects to Mongo DB and reads or saves Inkwell data.
type Client struct {
	config *Config
	client *mongo.Client
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	clientOptions := options.Client().ApplyURI(conf.ConnectionURI)

	if conf.MonitoringEnabled {
		threshold, err := gotime.ParseDuration(conf.MonitoringSlowQueryThreshold)
		if err != nil {
			return nil, fmt.Errorf("parse slow query threshold: %w", err)
		}

		clientOptions.SetMonitor(newCommandMonitor(threshold))
	}

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(ctx, conf.ParsePingTimeout())
	defer cancelPing()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if err := ensureIndexes(ctx, client.Database(conf.InkwellDatabase)); err != nil {
		return nil, err
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s, DB: %s", conf.ConnectionURI, conf.InkwellDatabase)

	return &Client{
		config: conf,
		client: client,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}

	return nil
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.client.Database(c.config.InkwellDatabase).Collection(name)
}

// CreateDocInfo creates a new document.
func (c *Client) CreateDocInfo(
	ctx context.Context,
	fields *types.CreateDocumentFields,
) (*database.DocInfo, error) {
	info := database.NewDocInfo(bson.NewObjectID().Hex(), fields, database.Now())
	if _, err := c.collection(ColDocuments).InsertOne(ctx, info); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	return info, nil
}

// FindDocInfoByID returns the document of the given id.
func (c *Client) FindDocInfoByID(ctx context.Context, id string) (*database.DocInfo, error) {
	result := c.collection(ColDocuments).FindOne(ctx, bson.M{"_id": id})

	info := &database.DocInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("find document %s: %w", id, database.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("find document %s: %w", id, err)
	}

	return info, nil
}

// ListDocInfos returns the documents matching opts.
func (c *Client) ListDocInfos(ctx context.Context, opts database.ListOptions) ([]*database.DocInfo, error) {
	filter := bson.M{}
	if opts.FolderID != nil {
		if *opts.FolderID == "" {
			filter["folder_id"] = bson.M{"$exists": false}
		} else {
			filter["folder_id"] = *opts.FolderID
		}
	}
	if opts.Query != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(opts.Query), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}

	cursor, err := c.collection(ColDocuments).Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(opts.EffectiveLimit())))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var infos []*database.DocInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	return infos, nil
}

// UpdateDocInfo applies the non-nil fields to the document with a single
// FindOneAndUpdate, so the write is atomic per document.
func (c *Client) UpdateDocInfo(
	ctx context.Context,
	id string,
	fields *types.UpdatableDocumentFields,
) (*database.DocInfo, error) {
	set := bson.M{"updated_at": database.Now()}
	update := bson.M{}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Content != nil {
		set["content"] = *fields.Content
	}
	if fields.FolderID != nil {
		if *fields.FolderID == "" {
			update["$unset"] = bson.M{"folder_id": ""}
		} else {
			set["folder_id"] = *fields.FolderID
		}
	}
	update["$set"] = set

	result := c.collection(ColDocuments).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	info := &database.DocInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("update document %s: %w", id, database.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("update document %s: %w", id, err)
	}

	return info, nil
}

// DeleteDocInfo deletes the document of the given id.
func (c *Client) DeleteDocInfo(ctx context.Context, id string) error {
	result, err := c.collection(ColDocuments).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete document %s: %w", id, database.ErrDocumentNotFound)
	}

	return nil
}
