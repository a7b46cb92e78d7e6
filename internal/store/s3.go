// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mattermost/updatechecker/model"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store persists update states as one JSON object per key in a bucket.
// Objects are always written whole, so readers never see a partial state.
type S3Store struct {
	client   S3API
	uploader *manager.Uploader
	bucket   string
	prefix   string
	logger   logrus.FieldLogger
}

// NewS3Store returns a store writing objects under prefix in bucket.
func NewS3Store(client S3API, bucket, prefix string, logger logrus.FieldLogger) *S3Store {
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
		logger:   logger,
	}
}

func (s *S3Store) objectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

// GetUpdateState fetches the state stored under key. A missing or
// undecodable object yields nil.
func (s *S3Store) GetUpdateState(key string) (*model.UpdateCheckState, error) {
	output, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get update state %s from bucket %s", key, s.bucket)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read update state %s", key)
	}

	var state *model.UpdateCheckState
	err = json.Unmarshal(data, &state)
	if err != nil {
		s.logger.WithError(err).Warnf("Ignoring malformed update state %s", key)
		return nil, nil
	}

	return state, nil
}

// SaveUpdateState replaces the object stored under key.
func (s *S3Store) SaveUpdateState(key string, state *model.UpdateCheckState) error {
	if state == nil {
		return errors.New("update state must not be nil")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to encode update state")
	}

	_, err = s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return errors.Wrapf(err, "failed to save update state %s to bucket %s", key, s.bucket)
}

// DeleteUpdateState removes the object stored under key.
func (s *S3Store) DeleteUpdateState(key string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil && !isNotFound(err) {
		return errors.Wrapf(err, "failed to delete update state %s from bucket %s", key, s.bucket)
	}
	return nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound": // HeadObject-style responses carry no typed error
			return true
		}
	}
	return false
}
